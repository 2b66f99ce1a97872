// Package navigation turns host menu "navigate" events into tab switches.
package navigation

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"isiprint/internal/domain/ports"
)

// EventName is the host event carrying a tab id.
const EventName = "navigate"

// Tab is a top-level view of the authenticated UI.
type Tab string

const (
	TabAccount  Tab = "account"
	TabPrinters Tab = "printers"
	TabLogs     Tab = "logs"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabAccount, TabPrinters, TabLogs}

// ParseTab accepts only the known tab ids.
func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Listener subscribes once to the host navigate event. Stop may be called
// at any time, including before the subscription has completed.
type Listener struct {
	bus        ports.EventBus
	logger     ports.Logger
	onNavigate func(Tab)

	mutex       sync.Mutex
	started     bool
	stopped     bool
	unsubscribe func()
	settled     chan struct{}
}

// NewListener creates a listener delivering accepted tabs to onNavigate.
// A nil bus makes the listener a no-op.
func NewListener(bus ports.EventBus, onNavigate func(Tab), logger ports.Logger) *Listener {
	return &Listener{
		bus:        bus,
		logger:     logger,
		onNavigate: onNavigate,
		settled:    make(chan struct{}),
	}
}

// Start begins the subscription in the background. Only the first call has
// an effect.
func (l *Listener) Start(ctx context.Context) {
	l.mutex.Lock()
	if l.started {
		l.mutex.Unlock()
		return
	}
	l.started = true
	l.mutex.Unlock()

	if l.bus == nil {
		close(l.settled)
		return
	}

	go l.subscribe(ctx)
}

func (l *Listener) subscribe(ctx context.Context) {
	defer close(l.settled)

	unsubscribe, err := l.bus.Subscribe(ctx, EventName, l.handle)
	if err != nil {
		if errors.Is(err, ports.ErrTransportUnavailable) {
			l.logger.Debug("[NAV] No host, navigation events disabled")
		} else {
			l.logger.Warn("[NAV] Failed to subscribe to %s: %v", EventName, err)
		}
		return
	}

	l.mutex.Lock()
	if l.stopped {
		l.mutex.Unlock()
		unsubscribe()
		return
	}
	l.unsubscribe = unsubscribe
	l.mutex.Unlock()
}

// Settled is closed once the subscription attempt has finished.
func (l *Listener) Settled() <-chan struct{} {
	return l.settled
}

func (l *Listener) handle(payload json.RawMessage) {
	l.mutex.Lock()
	stopped := l.stopped
	l.mutex.Unlock()
	if stopped {
		return
	}

	var id string
	if err := json.Unmarshal(payload, &id); err != nil {
		return
	}
	tab, ok := ParseTab(id)
	if !ok {
		return
	}
	if l.onNavigate != nil {
		l.onNavigate(tab)
	}
}

// Stop removes the subscription, or arranges for it to be removed as soon
// as it completes.
func (l *Listener) Stop() {
	l.mutex.Lock()
	l.stopped = true
	unsubscribe := l.unsubscribe
	l.unsubscribe = nil
	l.mutex.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
