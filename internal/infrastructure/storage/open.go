package storage

import (
	"fmt"

	"isiprint/internal/domain/ports"
)

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open returns the settings store for driver. A file store whose document is
// corrupted is still returned together with the error so the caller can log
// it and continue with empty state.
func Open(driver, path string) (ports.SettingsStore, error) {
	switch driver {
	case DriverFile, "":
		return NewFileSettingsStore(path)
	case DriverSQLite:
		s, err := NewSQLiteSettingsStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
