package bridge

import (
	"context"

	"isiprint/internal/domain/ports"
)

// Unavailable is the bridge used when no host shell is running. Every call
// fails fast and nothing is ever delivered.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Invoke(context.Context, string, any, any) error {
	return ports.ErrTransportUnavailable
}

func (Unavailable) Subscribe(context.Context, string, ports.EventHandler) (func(), error) {
	return nil, ports.ErrTransportUnavailable
}

func (Unavailable) Close() error { return nil }
