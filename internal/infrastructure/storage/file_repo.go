package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"isiprint/internal/domain/ports"
)

// FileSettingsStore implements ports.SettingsStore as a single JSON document
// of key -> value pairs.
type FileSettingsStore struct {
	mutex    sync.Mutex
	filePath string
	values   map[string]json.RawMessage
}

// NewFileSettingsStore opens the store at filePath. A missing file is an
// empty store; a corrupted file is reported but the store stays usable and
// starts empty.
func NewFileSettingsStore(filePath string) (ports.SettingsStore, error) {
	s := &FileSettingsStore{
		filePath: filePath,
		values:   make(map[string]json.RawMessage),
	}

	if err := s.loadFromFile(); err != nil {
		return s, fmt.Errorf("settings store init: %w", err)
	}
	return s, nil
}

// Get returns a copy of the raw value stored under key.
func (s *FileSettingsStore) Get(key string) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put stores value under key and rewrites the file. Values that are not
// valid JSON are stored as JSON strings.
func (s *FileSettingsStore) Put(key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	raw := json.RawMessage(append([]byte(nil), value...))
	if !json.Valid(raw) {
		quoted, err := json.Marshal(string(value))
		if err != nil {
			return fmt.Errorf("encode value for %q: %w", key, err)
		}
		raw = quoted
	}
	s.values[key] = raw
	return s.saveToFile()
}

func (s *FileSettingsStore) Delete(key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.saveToFile()
}

func (s *FileSettingsStore) Close() error {
	return nil
}

// loadFromFile reads the document; callers must hold the lock or be the
// constructor.
func (s *FileSettingsStore) loadFromFile() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings file: %w", err)
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse settings file: %w", err)
	}
	if values != nil {
		s.values = values
	}
	return nil
}

// saveToFile writes via a temp file and rename so a crash never leaves a
// truncated document behind.
func (s *FileSettingsStore) saveToFile() error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}
