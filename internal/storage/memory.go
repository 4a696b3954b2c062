package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps the record in process. Nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	payload []byte
	version int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Read(context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.payload == nil {
		return nil, ErrNoSnapshot
	}
	return append([]byte(nil), m.payload...), nil
}

func (m *MemoryStore) Write(_ context.Context, version int, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = append([]byte(nil), payload...)
	m.version = version
	return nil
}

// Version returns the envelope version of the last write.
func (m *MemoryStore) Version() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}
