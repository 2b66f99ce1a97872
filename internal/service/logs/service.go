// Package logs polls the backend log and keeps the newest entries first.
package logs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"isiprint/internal/domain/models"
	"isiprint/internal/domain/ports"
)

// DefaultInterval is the polling period.
const DefaultInterval = 5 * time.Second

// Service polls get_logs while started.
type Service struct {
	backend  ports.Backend
	logger   ports.Logger
	interval time.Duration

	mutex          sync.Mutex
	entries        []models.LogEntry
	cancel         context.CancelFunc
	done           chan struct{}
	updateCallback func([]models.LogEntry)
}

// NewService creates a poller. A non-positive interval selects
// DefaultInterval.
func NewService(backend ports.Backend, interval time.Duration, logger ports.Logger) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{backend: backend, logger: logger, interval: interval}
}

// SetUpdateCallback registers the observer called with the new list after
// every successful refresh or clear.
func (s *Service) SetUpdateCallback(fn func([]models.LogEntry)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.updateCallback = fn
}

// Entries returns a copy of the current list, newest first.
func (s *Service) Entries() []models.LogEntry {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]models.LogEntry(nil), s.entries...)
}

// Start refreshes immediately, then every interval until Stop. Starting a
// running poller restarts it.
func (s *Service) Start(ctx context.Context) {
	s.Stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mutex.Lock()
	s.cancel = cancel
	s.done = done
	s.mutex.Unlock()

	go s.pollRoutine(ctx, done)
	s.logger.Debug("[LOGS] Polling every %s", s.interval)
}

// Stop cancels polling and waits for the poll goroutine to exit.
func (s *Service) Stop() {
	s.mutex.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mutex.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *Service) pollRoutine(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	_ = s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		}
	}
}

// Refresh fetches the log once. Errors leave the list unchanged.
func (s *Service) Refresh(ctx context.Context) error {
	entries, err := s.backend.GetLogs(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Debug("[LOGS] get_logs failed: %v", err)
		}
		return fmt.Errorf("get logs: %w", err)
	}

	reversed := make([]models.LogEntry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}
	s.publish(reversed)
	return nil
}

// Clear asks the backend to drop its print history and empties the list.
func (s *Service) Clear(ctx context.Context) error {
	resp, err := s.backend.ClearPrintJobs(ctx)
	if err != nil {
		s.logger.Error("[LOGS] clear_print_jobs failed: %v", err)
		return fmt.Errorf("clear logs: %w", err)
	}
	if !resp.Success {
		return &models.BackendError{Message: resp.ErrorText("failed to clear logs")}
	}
	s.publish(nil)
	return nil
}

func (s *Service) publish(entries []models.LogEntry) {
	s.mutex.Lock()
	s.entries = entries
	fn := s.updateCallback
	cp := append([]models.LogEntry(nil), entries...)
	s.mutex.Unlock()

	if fn != nil {
		fn(cp)
	}
}
