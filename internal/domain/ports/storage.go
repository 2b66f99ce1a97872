package ports

import "errors"

// ErrKeyNotFound is returned by SettingsStore.Get for an absent key.
var ErrKeyNotFound = errors.New("key not found")

// Keys of the locally persisted client state.
const (
	KeyPrinterSettings = "isiprint.printerSettings"
	KeyLanguage        = "isiprint-language"
)

// SettingsStore is a small durable key-value store for client preferences.
// Implementations live in the infrastructure layer.
type SettingsStore interface {
	// Get returns the raw value stored under key, or ErrKeyNotFound
	Get(key string) ([]byte, error)

	// Put replaces the value stored under key
	Put(key string, value []byte) error

	// Delete removes key; deleting an absent key is not an error
	Delete(key string) error

	Close() error
}
