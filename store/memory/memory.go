// Package memory provides an in-memory checkpoint store, suitable for tests
// and single-process deployments that do not need durability.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/graphmind/graphchat/store"
)

// Store is an in-memory implementation of store.CheckpointStore. It is safe
// for concurrent use.
type Store struct {
	mu          sync.RWMutex
	checkpoints map[string]*store.Checkpoint
	byThread    map[string][]string
}

// New creates a new in-memory checkpoint store.
func New() *Store {
	return &Store{
		checkpoints: make(map[string]*store.Checkpoint),
		byThread:    make(map[string][]string),
	}
}

// Save stores a checkpoint.
func (s *Store) Save(ctx context.Context, checkpoint *store.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := clone(checkpoint)
	if _, exists := s.checkpoints[cp.ID]; !exists {
		s.byThread[cp.ThreadID] = append(s.byThread[cp.ThreadID], cp.ID)
	}
	s.checkpoints[cp.ID] = cp
	return nil
}

// Load retrieves a checkpoint by ID.
func (s *Store) Load(ctx context.Context, checkpointID string) (*store.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp, ok := s.checkpoints[checkpointID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return clone(cp), nil
}

// Latest returns the highest-version checkpoint for a thread.
func (s *Store) Latest(ctx context.Context, threadID string) (*store.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *store.Checkpoint
	for _, id := range s.byThread[threadID] {
		cp := s.checkpoints[id]
		if latest == nil || cp.Version > latest.Version {
			latest = cp
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	return clone(latest), nil
}

// List returns all checkpoints for a thread in version order.
func (s *Store) List(ctx context.Context, threadID string) ([]*store.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*store.Checkpoint
	for _, id := range s.byThread[threadID] {
		out = append(out, clone(s.checkpoints[id]))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Version < out[j].Version
	})
	return out, nil
}

// Delete removes a checkpoint.
func (s *Store) Delete(ctx context.Context, checkpointID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, ok := s.checkpoints[checkpointID]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.checkpoints, checkpointID)

	ids := s.byThread[cp.ThreadID]
	for i, id := range ids {
		if id == checkpointID {
			s.byThread[cp.ThreadID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes all checkpoints for a thread.
func (s *Store) Clear(ctx context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.byThread[threadID] {
		delete(s.checkpoints, id)
	}
	delete(s.byThread, threadID)
	return nil
}

func clone(cp *store.Checkpoint) *store.Checkpoint {
	out := *cp
	out.Path = append([]string(nil), cp.Path...)
	out.State = append([]byte(nil), cp.State...)
	if cp.Metadata != nil {
		out.Metadata = make(map[string]any, len(cp.Metadata))
		for k, v := range cp.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
