package storage

import (
	"sync"

	"isiprint/internal/domain/ports"
)

// MemorySettingsStore keeps settings for the lifetime of the process only.
// It stands in when no durable store can be opened.
type MemorySettingsStore struct {
	mutex  sync.Mutex
	values map[string][]byte
}

func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{values: make(map[string][]byte)}
}

func (s *MemorySettingsStore) Get(key string) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemorySettingsStore) Put(key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemorySettingsStore) Delete(key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemorySettingsStore) Close() error {
	return nil
}
