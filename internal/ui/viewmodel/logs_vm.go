package viewmodel

import (
	"strings"

	"isiprint/internal/domain/models"
)

// LogRow is one displayed log line.
type LogRow struct {
	Timestamp string
	Level     string
	Icon      string
	Message   string
}

// LogsViewModel is the state of the logs tab, newest entry first.
type LogsViewModel struct {
	Rows     []LogRow
	Empty    bool
	Clearing bool
}

func NewLogsViewModel() *LogsViewModel {
	return &LogsViewModel{Empty: true}
}

// SetEntries replaces the rows.
func (vm *LogsViewModel) SetEntries(entries []models.LogEntry) {
	vm.Rows = make([]LogRow, 0, len(entries))
	for _, e := range entries {
		vm.Rows = append(vm.Rows, LogRow{
			Timestamp: e.Timestamp,
			Level:     strings.ToUpper(e.Level),
			Icon:      levelIcon(e.Level),
			Message:   e.Message,
		})
	}
	vm.Empty = len(vm.Rows) == 0
}

func levelIcon(level string) string {
	switch strings.ToUpper(level) {
	case "ERROR":
		return "✗"
	case "WARN", "WARNING":
		return "!"
	case "SUCCESS":
		return "✓"
	default:
		return "i"
	}
}
