package testutil

import (
	"errors"
	"sync"

	"isiprint/internal/domain/ports"
)

// ErrStoreDown is returned by a MemoryStore with failures switched on.
var ErrStoreDown = errors.New("memory store: unavailable")

// MemoryStore is a ports.SettingsStore kept in a map.
type MemoryStore struct {
	FailReads  bool
	FailWrites bool

	mutex  sync.Mutex
	values map[string][]byte
	writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.FailReads {
		return nil, ErrStoreDown
	}
	v, ok := s.values[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Put(key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.writes++
	if s.FailWrites {
		return ErrStoreDown
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Writes returns the number of Put attempts, failed ones included.
func (s *MemoryStore) Writes() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.writes
}

// Raw returns the stored bytes for key as a string, or "".
func (s *MemoryStore) Raw(key string) string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return string(s.values[key])
}
