// Package store defines the keyed collection contract shared by every
// persistence backend. Records travel as loosely shaped documents; the
// repositories normalize them into domain types at their boundary.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the referenced id does not exist in
	// its collection.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateID is returned when an insert collides with an
	// existing id. The existing record is never overwritten.
	ErrDuplicateID = errors.New("store: duplicate record id")
)

// IDKey is the canonical record identifier field.
const IDKey = "id"

// Record is a persisted document. Once stored it always carries a
// non-empty string under IDKey.
type Record map[string]any

// Filter is a plain key/value equality predicate. A nil filter matches
// every record in the collection.
type Filter map[string]any

// Store is the keyed collection contract. Query result order is not
// guaranteed; callers must not rely on it. Implementations exist for an
// embedded map, Mongo, Redis and a remote HTTP API, and swapping one
// for another must not require changes above this interface.
type Store interface {
	Query(ctx context.Context, collection string, filter Filter) ([]Record, error)
	Get(ctx context.Context, collection, id string) (Record, error)
	Post(ctx context.Context, collection string, rec Record) (Record, error)
	Put(ctx context.Context, collection string, rec Record) error
	Remove(ctx context.Context, collection, id string) error
}

// RecordID extracts the canonical id of a record, empty if unset.
func RecordID(rec Record) string {
	if v, ok := rec[IDKey]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// EnsureID returns the record's id, assigning a fresh one when absent.
func EnsureID(rec Record) string {
	if id := RecordID(rec); id != "" {
		return id
	}
	id := uuid.NewString()
	rec[IDKey] = id
	return id
}

// Matches reports whether the record satisfies every equality clause of
// the filter.
func Matches(rec Record, filter Filter) bool {
	for k, want := range filter {
		if rec[k] != want {
			return false
		}
	}
	return true
}

// Clone copies a record one level deep so callers cannot mutate stored
// state through a returned map.
func Clone(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
