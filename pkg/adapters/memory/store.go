package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/mosaic/pkg/domain"
)

// Store implements ports.WorkspaceStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Snapshot),
	}
}

// Save keeps a copy of the snapshot. Trees are immutable and shared; the cache is
// copied so later writes by the caller do not leak in.
func (s *Store) Save(ctx context.Context, workspaceID string, snap *domain.Snapshot) error {
	copied := snap.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[workspaceID] = copied
	return nil
}

// Load returns a copy of the stored snapshot.
func (s *Store) Load(ctx context.Context, workspaceID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[workspaceID]
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	return snap.Clone(), nil
}

// Delete removes the workspace.
func (s *Store) Delete(ctx context.Context, workspaceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, workspaceID)
	return nil
}

// List returns the stored workspace IDs in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
