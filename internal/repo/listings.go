// Package repo implements the typed repositories riding on the keyed
// store: listings own the unit collection, reservations own the
// reservation collection, and all cross-references go by id.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain/listing"
	"staybook/internal/store"
)

const (
	// UnitsCollection and ReservationsCollection name the two
	// key-spaces this core owns.
	UnitsCollection        = "units"
	ReservationsCollection = "reservations"
)

// Listings provides CRUD over bookable units. It does not enforce the
// "only the owner may mutate" rule; that authorization belongs to the
// calling layer, which receives the acting user explicitly.
type Listings struct {
	Store store.Store
	Now   func() time.Time
}

func NewListings(s store.Store) *Listings {
	return &Listings{Store: s, Now: time.Now}
}

func (l *Listings) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Listings) Create(ctx context.Context, params listing.CreateParams) (*listing.Unit, error) {
	if params.ID == "" {
		params.ID = listing.UnitID(uuid.NewString())
	}
	if params.Now.IsZero() {
		params.Now = l.now()
	}
	unit, err := listing.New(params)
	if err != nil {
		return nil, err
	}
	if _, err := l.Store.Post(ctx, UnitsCollection, encodeUnit(unit)); err != nil {
		return nil, err
	}
	return unit, nil
}

func (l *Listings) ByID(ctx context.Context, id listing.UnitID) (*listing.Unit, error) {
	rec, err := l.Store.Get(ctx, UnitsCollection, string(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, listing.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeUnit(rec)
}

func (l *Listings) All(ctx context.Context) ([]listing.Unit, error) {
	return l.query(ctx, nil)
}

func (l *Listings) ByOwner(ctx context.Context, owner listing.OwnerID) ([]listing.Unit, error) {
	return l.query(ctx, store.Filter{"owner_id": string(owner)})
}

func (l *Listings) query(ctx context.Context, filter store.Filter) ([]listing.Unit, error) {
	recs, err := l.Store.Query(ctx, UnitsCollection, filter)
	if err != nil {
		return nil, err
	}
	units := make([]listing.Unit, 0, len(recs))
	for _, rec := range recs {
		unit, err := decodeUnit(rec)
		if err != nil {
			return nil, fmt.Errorf("repo: units: %w", err)
		}
		units = append(units, *unit)
	}
	return units, nil
}

// Update re-reads the unit, applies the restricted field set and writes
// it back.
func (l *Listings) Update(ctx context.Context, id listing.UnitID, update listing.Update) (*listing.Unit, error) {
	unit, err := l.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unit.ApplyUpdate(update, l.now()); err != nil {
		return nil, err
	}
	if err := l.Store.Put(ctx, UnitsCollection, encodeUnit(unit)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, listing.ErrNotFound
		}
		return nil, err
	}
	return unit, nil
}

func (l *Listings) Remove(ctx context.Context, id listing.UnitID) error {
	err := l.Store.Remove(ctx, UnitsCollection, string(id))
	if errors.Is(err, store.ErrNotFound) {
		return listing.ErrNotFound
	}
	return err
}
