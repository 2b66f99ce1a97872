package ports

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrTransportUnavailable is returned when the host shell exposing the
// command bridge is not reachable.
var ErrTransportUnavailable = errors.New("bridge: transport unavailable")

// Bridge is the raw request/response channel to the backend.
type Bridge interface {
	// Available reports whether the host is reachable at all
	Available() bool

	// Invoke sends cmd with args and decodes the reply into out.
	// It fails fast with ErrTransportUnavailable when Available is false.
	Invoke(ctx context.Context, cmd string, args any, out any) error

	Close() error
}

// EventHandler receives the raw payload of a host event.
type EventHandler func(payload json.RawMessage)

// EventBus delivers host-emitted events such as "navigate".
type EventBus interface {
	// Subscribe registers handler for event and returns a function that
	// removes it. Subscribe fails with ErrTransportUnavailable without a host.
	Subscribe(ctx context.Context, event string, handler EventHandler) (unsubscribe func(), err error)
}
