// Package notify holds the single transient status message shown to the
// user.
package notify

import (
	"sync"
	"time"

	"isiprint/internal/domain/models"
	"isiprint/internal/domain/ports"
)

// DefaultDuration is how long a message stays visible.
const DefaultDuration = 3 * time.Second

// Queue keeps at most one live message. A new message replaces the current
// one and restarts the expiry timer.
type Queue struct {
	mutex    sync.Mutex
	clock    ports.Clock
	duration time.Duration

	current    *models.StatusMessage
	timer      ports.Timer
	generation uint64
	closed     bool

	onChange func(*models.StatusMessage)
}

// NewQueue creates a queue. A non-positive duration selects DefaultDuration.
func NewQueue(clock ports.Clock, duration time.Duration) *Queue {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Queue{clock: clock, duration: duration}
}

// SetOnChange registers the observer called after every change with the
// message now visible, or nil once it expired or was cleared.
func (q *Queue) SetOnChange(fn func(*models.StatusMessage)) {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.onChange = fn
}

func (q *Queue) Success(text string) {
	q.Show(models.MessageSuccess, text)
}

func (q *Queue) Error(text string) {
	q.Show(models.MessageError, text)
}

// Show replaces the current message.
func (q *Queue) Show(kind models.MessageKind, text string) {
	q.mutex.Lock()
	if q.closed {
		q.mutex.Unlock()
		return
	}
	if q.timer != nil {
		q.timer.Stop()
	}
	q.generation++
	gen := q.generation
	msg := models.StatusMessage{Kind: kind, Text: text}
	q.current = &msg
	q.timer = q.clock.AfterFunc(q.duration, func() { q.expire(gen) })
	fn := q.onChange
	q.mutex.Unlock()

	if fn != nil {
		fn(&msg)
	}
}

// expire clears the message only if it is still the one that armed the
// timer.
func (q *Queue) expire(gen uint64) {
	q.mutex.Lock()
	if gen != q.generation || q.current == nil {
		q.mutex.Unlock()
		return
	}
	q.current = nil
	q.timer = nil
	fn := q.onChange
	q.mutex.Unlock()

	if fn != nil {
		fn(nil)
	}
}

// Current returns a copy of the live message, or nil.
func (q *Queue) Current() *models.StatusMessage {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if q.current == nil {
		return nil
	}
	msg := *q.current
	return &msg
}

// Clear removes the live message.
func (q *Queue) Clear() {
	q.mutex.Lock()
	had := q.current != nil
	q.stopLocked()
	fn := q.onChange
	q.mutex.Unlock()

	if had && fn != nil {
		fn(nil)
	}
}

// Close cancels the pending expiry; later messages are ignored.
func (q *Queue) Close() {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.stopLocked()
	q.closed = true
}

func (q *Queue) stopLocked() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.generation++
	q.current = nil
}
