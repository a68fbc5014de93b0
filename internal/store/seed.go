package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Seeder wraps a Store and populates registered collections from their
// static datasets the first time they are queried empty. Seeding runs
// at most once concurrently per collection: callers racing during
// startup block behind the first attempt instead of re-triggering it.
type Seeder struct {
	Store

	mu       sync.Mutex
	datasets map[string][]Record
	states   map[string]*seedState
}

type seedState struct {
	mu   sync.Mutex
	done bool
}

func NewSeeder(backend Store) *Seeder {
	return &Seeder{
		Store:    backend,
		datasets: make(map[string][]Record),
		states:   make(map[string]*seedState),
	}
}

// Register attaches a static dataset to a collection. Every record must
// carry a pre-assigned id.
func (s *Seeder) Register(collection string, records []Record) error {
	for _, rec := range records {
		if RecordID(rec) == "" {
			return fmt.Errorf("store: seed record for %q has no id", collection)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[collection] = records
	return nil
}

func (s *Seeder) Query(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	if err := s.ensureSeeded(ctx, collection); err != nil {
		return nil, err
	}
	return s.Store.Query(ctx, collection, filter)
}

func (s *Seeder) ensureSeeded(ctx context.Context, collection string) error {
	s.mu.Lock()
	dataset, registered := s.datasets[collection]
	if !registered {
		s.mu.Unlock()
		return nil
	}
	st := s.states[collection]
	if st == nil {
		st = &seedState{}
		s.states[collection] = st
	}
	s.mu.Unlock()

	// Serializes racing first queries: the loser waits here for the
	// winner's seeding attempt to finish.
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.done {
		return nil
	}

	existing, err := s.Store.Query(ctx, collection, nil)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		for _, rec := range dataset {
			if _, err := s.Store.Post(ctx, collection, Clone(rec)); err != nil {
				// Another process beat us to this record; the
				// collection is no longer empty, which is all
				// seeding guarantees.
				if errors.Is(err, ErrDuplicateID) {
					continue
				}
				return err
			}
		}
	}
	st.done = true
	return nil
}
