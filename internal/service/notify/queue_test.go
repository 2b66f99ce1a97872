package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isiprint/internal/domain/models"
	"isiprint/internal/testutil"
)

func TestQueue_ExpiresAfterDuration(t *testing.T) {
	clock := testutil.NewManualClock()
	q := NewQueue(clock, 0)

	q.Success("Scanning network...")
	require.NotNil(t, q.Current())
	assert.Equal(t, models.MessageSuccess, q.Current().Kind)

	clock.Advance(DefaultDuration - time.Millisecond)
	assert.NotNil(t, q.Current())

	clock.Advance(time.Millisecond)
	assert.Nil(t, q.Current())
}

func TestQueue_ReplaceRestartsTimerAndFiresOnce(t *testing.T) {
	clock := testutil.NewManualClock()
	q := NewQueue(clock, 3*time.Second)

	var changes []*models.StatusMessage
	q.SetOnChange(func(m *models.StatusMessage) { changes = append(changes, m) })

	q.Success("first")
	clock.Advance(2 * time.Second)
	q.Error("second")

	clock.Advance(2 * time.Second)
	require.NotNil(t, q.Current())
	assert.Equal(t, "second", q.Current().Text)
	assert.Equal(t, models.MessageError, q.Current().Kind)

	clock.Advance(time.Second)
	assert.Nil(t, q.Current())
	clock.Advance(10 * time.Second)

	require.Len(t, changes, 3)
	assert.Equal(t, "first", changes[0].Text)
	assert.Equal(t, "second", changes[1].Text)
	assert.Nil(t, changes[2])
	assert.Zero(t, clock.Pending())
}

func TestQueue_StaleTimerIgnored(t *testing.T) {
	clock := testutil.NewManualClock()
	q := NewQueue(clock, time.Second)

	q.Success("old")
	gen := q.generation
	q.Success("new")

	// A timer that already fired for the old message must not clear the
	// new one.
	q.expire(gen)
	require.NotNil(t, q.Current())
	assert.Equal(t, "new", q.Current().Text)
}

func TestQueue_ClearAndClose(t *testing.T) {
	clock := testutil.NewManualClock()
	q := NewQueue(clock, time.Second)

	q.Success("x")
	q.Clear()
	assert.Nil(t, q.Current())
	assert.Zero(t, clock.Pending())

	q.Success("y")
	q.Close()
	assert.Nil(t, q.Current())
	assert.Zero(t, clock.Pending())

	q.Error("ignored")
	assert.Nil(t, q.Current())
}
