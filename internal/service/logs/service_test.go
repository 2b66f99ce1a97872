package logs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isiprint/internal/domain/models"
	"isiprint/internal/infrastructure/logger"
	"isiprint/internal/testutil"
)

var sample = []models.LogEntry{
	{Timestamp: "2024-05-01T10:00:00Z", Level: "INFO", Message: "started"},
	{Timestamp: "2024-05-01T10:01:00Z", Level: "SUCCESS", Message: "printed #1"},
	{Timestamp: "2024-05-01T10:02:00Z", Level: "ERROR", Message: "paper out"},
}

func TestRefresh_NewestFirst(t *testing.T) {
	backend := &testutil.FakeBackend{
		GetLogsFn: func(context.Context) ([]models.LogEntry, error) { return sample, nil },
	}
	s := NewService(backend, 0, logger.Nop())

	require.NoError(t, s.Refresh(context.Background()))
	got := s.Entries()
	require.Len(t, got, 3)
	assert.Equal(t, "paper out", got[0].Message)
	assert.Equal(t, "started", got[2].Message)
	// The backend slice is not reordered in place.
	assert.Equal(t, "started", sample[0].Message)
}

func TestRefresh_ErrorKeepsList(t *testing.T) {
	backend := &testutil.FakeBackend{
		GetLogsFn: func(context.Context) ([]models.LogEntry, error) { return sample, nil },
	}
	s := NewService(backend, 0, logger.Nop())
	require.NoError(t, s.Refresh(context.Background()))

	backend.GetLogsFn = func(context.Context) ([]models.LogEntry, error) { return nil, errors.New("closed") }
	require.Error(t, s.Refresh(context.Background()))
	assert.Len(t, s.Entries(), 3)
}

func TestClear(t *testing.T) {
	backend := &testutil.FakeBackend{
		GetLogsFn: func(context.Context) ([]models.LogEntry, error) { return sample, nil },
		ClearPrintJobsFn: func(context.Context) (models.CommandResponse[string], error) {
			return testutil.OK("cleared"), nil
		},
	}
	s := NewService(backend, 0, logger.Nop())
	require.NoError(t, s.Refresh(context.Background()))

	require.NoError(t, s.Clear(context.Background()))
	assert.Empty(t, s.Entries())

	backend.ClearPrintJobsFn = func(context.Context) (models.CommandResponse[string], error) {
		return testutil.Fail[string]("locked"), nil
	}
	require.NoError(t, s.Refresh(context.Background()))
	err := s.Clear(context.Background())
	require.Error(t, err)
	assert.Equal(t, "locked", err.Error())
	assert.Len(t, s.Entries(), 3)
}

func TestStartStop_Polls(t *testing.T) {
	polled := make(chan struct{}, 16)
	backend := &testutil.FakeBackend{
		GetLogsFn: func(context.Context) ([]models.LogEntry, error) {
			select {
			case polled <- struct{}{}:
			default:
			}
			return sample, nil
		},
	}
	s := NewService(backend, 10*time.Millisecond, logger.Nop())

	updates := make(chan int, 16)
	s.SetUpdateCallback(func(e []models.LogEntry) {
		select {
		case updates <- len(e):
		default:
		}
	})

	s.Start(context.Background())
	for i := 0; i < 2; i++ {
		select {
		case <-polled:
		case <-time.After(time.Second):
			t.Fatal("poller did not run")
		}
	}
	s.Stop()
	s.Stop()

	calls := backend.Calls("get_logs")
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, backend.Calls("get_logs"))
	assert.Equal(t, 3, <-updates)
}
