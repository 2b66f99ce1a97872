package models

import (
	"fmt"
	"net"
	"strconv"
)

// NetworkPrinter is a printer candidate found by a network scan.
type NetworkPrinter struct {
	Name     string `json:"name"`
	IP       string `json:"ip"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol"` // "raw", "ipp", "lpd"
	IsOnline bool   `json:"is_online"`
}

// Key identifies the candidate by (ip, port).
func (p NetworkPrinter) Key() string {
	return net.JoinHostPort(p.IP, strconv.Itoa(p.Port))
}

// String returns the display form "name (ip:port/protocol)".
func (p NetworkPrinter) String() string {
	return fmt.Sprintf("%s (%s/%s)", p.Name, p.Key(), p.Protocol)
}

// UniqueNetworkPrinters drops repeated (ip, port) entries, keeping the first.
func UniqueNetworkPrinters(in []NetworkPrinter) []NetworkPrinter {
	out := make([]NetworkPrinter, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, p := range in {
		if _, dup := seen[p.Key()]; dup {
			continue
		}
		seen[p.Key()] = struct{}{}
		out = append(out, p)
	}
	return out
}

// LogEntry is one line of the backend log.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// MessageKind classifies a status message.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// StatusMessage is a transient user-facing notice.
type StatusMessage struct {
	Kind MessageKind
	Text string
}
