package dataset

import (
	"sync"
	"time"

	"github.com/jaylee/storepulse/internal/contracts"
)

// SnapshotStore holds the currently loaded order table. The slice is
// replaced atomically on refresh and must be treated as immutable by
// readers; the pipeline never mutates its input, so handing the same
// slice to concurrent requests is safe.
type SnapshotStore struct {
	mu       sync.RWMutex
	orders   []contracts.OrderRecord
	loadedAt time.Time
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Set swaps in a freshly loaded order table.
func (s *SnapshotStore) Set(orders []contracts.OrderRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
	s.loadedAt = time.Now().UTC()
}

// Get returns the current table and when it was loaded.
func (s *SnapshotStore) Get() ([]contracts.OrderRecord, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orders, s.loadedAt
}

// Len returns the current row count.
func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
