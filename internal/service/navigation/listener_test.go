package navigation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isiprint/internal/domain/ports"
	"isiprint/internal/infrastructure/logger"
	"isiprint/internal/testutil"
)

type tabs struct {
	mutex sync.Mutex
	got   []Tab
}

func (t *tabs) add(tab Tab) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.got = append(t.got, tab)
}

func (t *tabs) list() []Tab {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return append([]Tab(nil), t.got...)
}

func TestListener_AcceptsOnlyKnownTabs(t *testing.T) {
	bus := &testutil.FakeBus{}
	var got tabs
	l := NewListener(bus, got.add, logger.Nop())
	l.Start(context.Background())
	<-l.Settled()

	bus.Emit(EventName, "printers")
	bus.Emit(EventName, "settings")
	bus.Emit(EventName, 42)
	bus.EmitRaw(EventName, []byte("{broken"))
	bus.Emit(EventName, "logs")
	bus.Emit(EventName, "account")

	assert.Equal(t, []Tab{TabPrinters, TabLogs, TabAccount}, got.list())
}

func TestListener_SubscribesOnce(t *testing.T) {
	bus := &testutil.FakeBus{}
	l := NewListener(bus, func(Tab) {}, logger.Nop())
	l.Start(context.Background())
	l.Start(context.Background())
	<-l.Settled()

	assert.Equal(t, 1, bus.Attempts())
	assert.Equal(t, 1, bus.Active(EventName))
}

func TestListener_StopUnsubscribes(t *testing.T) {
	bus := &testutil.FakeBus{}
	var got tabs
	l := NewListener(bus, got.add, logger.Nop())
	l.Start(context.Background())
	<-l.Settled()

	l.Stop()
	bus.Emit(EventName, "logs")
	assert.Zero(t, bus.Active(EventName))
	assert.Empty(t, got.list())
}

func TestListener_StopBeforeSubscriptionCompletes(t *testing.T) {
	bus := &testutil.FakeBus{Hold: true}
	var got tabs
	l := NewListener(bus, got.add, logger.Nop())
	l.Start(context.Background())

	l.Stop()
	bus.Release()
	<-l.Settled()

	assert.Equal(t, 1, bus.Attempts())
	assert.Zero(t, bus.Active(EventName))
	bus.Emit(EventName, "printers")
	assert.Empty(t, got.list())
}

func TestListener_SubscriptionFailureIgnored(t *testing.T) {
	for _, err := range []error{ports.ErrTransportUnavailable, errors.New("denied")} {
		bus := &testutil.FakeBus{Err: err}
		l := NewListener(bus, func(Tab) {}, logger.Nop())
		l.Start(context.Background())
		<-l.Settled()
		l.Stop()
		assert.Zero(t, bus.Active(EventName))
	}
}

func TestListener_NilBus(t *testing.T) {
	l := NewListener(nil, func(Tab) {}, logger.Nop())
	l.Start(context.Background())
	<-l.Settled()
	l.Stop()
}

func TestParseTab(t *testing.T) {
	tab, ok := ParseTab("account")
	require.True(t, ok)
	assert.Equal(t, TabAccount, tab)

	_, ok = ParseTab("Account")
	assert.False(t, ok)
}
