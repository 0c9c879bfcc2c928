package repository

import (
	"context"
	"sync"

	"github.com/segyhp/lendbook/internal/metrics"
)

const driverMemory = "memory"

// MemoryStore is a process-local KVStore.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metrics.ObserveStore(driverMemory, "get", nil)
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	metrics.ObserveStore(driverMemory, "set", nil)
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	metrics.ObserveStore(driverMemory, "delete", nil)
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
