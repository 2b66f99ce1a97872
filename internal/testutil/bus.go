package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"isiprint/internal/domain/ports"
)

// FakeBus is an in-memory ports.EventBus. With Hold set, Subscribe blocks
// until Release is called, which lets tests finish a subscription late.
type FakeBus struct {
	Err  error
	Hold bool

	mutex    sync.Mutex
	handlers map[string]map[int]ports.EventHandler
	next     int
	attempts int
	release  chan struct{}
}

func (b *FakeBus) Subscribe(ctx context.Context, event string, handler ports.EventHandler) (func(), error) {
	b.mutex.Lock()
	b.attempts++
	if b.Hold && b.release == nil {
		b.release = make(chan struct{})
	}
	release := b.release
	hold := b.Hold
	b.mutex.Unlock()

	if hold {
		<-release
	}
	if b.Err != nil {
		return nil, b.Err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[string]map[int]ports.EventHandler)
	}
	if b.handlers[event] == nil {
		b.handlers[event] = make(map[int]ports.EventHandler)
	}
	b.next++
	id := b.next
	b.handlers[event][id] = handler

	return func() {
		b.mutex.Lock()
		defer b.mutex.Unlock()
		delete(b.handlers[event], id)
	}, nil
}

// Release unblocks held subscriptions.
func (b *FakeBus) Release() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.release == nil {
		b.release = make(chan struct{})
	}
	select {
	case <-b.release:
	default:
		close(b.release)
	}
}

// Attempts returns the number of Subscribe calls started.
func (b *FakeBus) Attempts() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.attempts
}

// Active returns the number of live handlers for event.
func (b *FakeBus) Active(event string) int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.handlers[event])
}

// Emit delivers payload, JSON-encoded, to the handlers of event.
func (b *FakeBus) Emit(event string, payload any) {
	raw, _ := json.Marshal(payload)
	b.EmitRaw(event, raw)
}

// EmitRaw delivers a raw payload.
func (b *FakeBus) EmitRaw(event string, raw json.RawMessage) {
	b.mutex.Lock()
	handlers := make([]ports.EventHandler, 0, len(b.handlers[event]))
	for _, h := range b.handlers[event] {
		handlers = append(handlers, h)
	}
	b.mutex.Unlock()

	for _, h := range handlers {
		h(raw)
	}
}
