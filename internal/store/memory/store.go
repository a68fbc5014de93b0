// Package memory provides the embedded map-backed store used in dev
// and tests.
package memory

import (
	"context"
	"sync"

	"staybook/internal/store"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]store.Record
}

func New() *Store {
	return &Store{collections: make(map[string]map[string]store.Record)}
}

func (s *Store) Query(ctx context.Context, collection string, filter store.Filter) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Record
	for _, rec := range s.collections[collection] {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if store.Matches(rec, filter) {
			out = append(out, store.Clone(rec))
		}
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return store.Clone(rec), nil
}

func (s *Store) Post(ctx context.Context, collection string, rec store.Record) (store.Record, error) {
	rec = store.Clone(rec)
	id := store.EnsureID(rec)
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]store.Record)
		s.collections[collection] = col
	}
	if _, exists := col[id]; exists {
		return nil, store.ErrDuplicateID
	}
	col[id] = rec
	return store.Clone(rec), nil
}

func (s *Store) Put(ctx context.Context, collection string, rec store.Record) error {
	id := store.RecordID(rec)
	if id == "" {
		return store.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	col := s.collections[collection]
	if _, exists := col[id]; !exists {
		return store.ErrNotFound
	}
	col[id] = store.Clone(rec)
	return nil
}

func (s *Store) Remove(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col := s.collections[collection]
	if _, exists := col[id]; !exists {
		return store.ErrNotFound
	}
	delete(col, id)
	return nil
}

var _ store.Store = (*Store)(nil)
