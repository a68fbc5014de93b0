package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain/availability"
	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/store"
)

var (
	ErrInvalidRange     = errors.New("repo: checkout must be after checkin")
	ErrCapacityExceeded = errors.New("repo: guest count exceeds unit capacity")
	ErrPastCheckIn      = errors.New("repo: check-in date is in the past")
	ErrDateConflict     = errors.New("repo: dates conflict with an existing reservation")
)

// Publisher receives domain events after a reservation write lands.
type Publisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// NopPublisher drops events; the default when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event events.DomainEvent) error { return nil }

// Reservations owns the reservation collection and the status state
// machine. Creation validates availability against the unit's existing
// reservations before persisting, as one read-validate-write chain.
type Reservations struct {
	Store    store.Store
	Listings *Listings
	Events   Publisher
	Logger   *slog.Logger
	Now      func() time.Time
}

func NewReservations(s store.Store, listings *Listings) *Reservations {
	return &Reservations{
		Store:    s,
		Listings: listings,
		Events:   NopPublisher{},
		Now:      time.Now,
	}
}

func (r *Reservations) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

type CreateParams struct {
	Unit      listing.UnitID
	Requester string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
}

// Create validates the candidate range and persists a pending
// reservation with its price frozen. The validation order is fixed:
// range, capacity, past check-in, conflict; the returned error names
// the first rule that failed.
func (r *Reservations) Create(ctx context.Context, params CreateParams) (*reservation.Reservation, error) {
	unit, err := r.Listings.ByID(ctx, params.Unit)
	if err != nil {
		return nil, err
	}
	existing, err := r.ByUnit(ctx, unit.ID)
	if err != nil {
		return nil, err
	}
	verdict := availability.Validate(unit, existing, params.CheckIn, params.CheckOut, params.Guests, r.now())
	if !verdict.OK {
		return nil, verdictError(verdict)
	}
	quote, err := availability.PriceQuote(unit, params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, ErrInvalidRange
	}
	dr, err := daterange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, ErrInvalidRange
	}
	res, err := reservation.New(reservation.CreateParams{
		ID:        reservation.ReservationID(uuid.NewString()),
		Unit:      unit.ID,
		Requester: params.Requester,
		Range:     dr,
		Guests:    params.Guests,
		Price:     quote,
		Now:       r.now(),
	})
	if err != nil {
		return nil, err
	}
	if _, err := r.Store.Post(ctx, ReservationsCollection, encodeReservation(res)); err != nil {
		return nil, err
	}
	r.publish(ctx, res)
	return res, nil
}

func (r *Reservations) ByID(ctx context.Context, id reservation.ReservationID) (*reservation.Reservation, error) {
	rec, err := r.Store.Get(ctx, ReservationsCollection, string(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, reservation.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeReservation(rec)
}

func (r *Reservations) ByUnit(ctx context.Context, unit listing.UnitID) ([]reservation.Reservation, error) {
	return r.query(ctx, store.Filter{"unit_id": string(unit)})
}

func (r *Reservations) ByRequester(ctx context.Context, requester string) ([]reservation.Reservation, error) {
	return r.query(ctx, store.Filter{"requester_id": requester})
}

// ByOwner joins through the listings collection: every unit the owner
// holds, then every reservation on those units.
func (r *Reservations) ByOwner(ctx context.Context, owner listing.OwnerID) ([]reservation.Reservation, error) {
	units, err := r.Listings.ByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	var out []reservation.Reservation
	for _, unit := range units {
		batch, err := r.ByUnit(ctx, unit.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (r *Reservations) ByStatus(ctx context.Context, status reservation.Status) ([]reservation.Reservation, error) {
	return r.query(ctx, store.Filter{"status": string(status)})
}

func (r *Reservations) query(ctx context.Context, filter store.Filter) ([]reservation.Reservation, error) {
	recs, err := r.Store.Query(ctx, ReservationsCollection, filter)
	if err != nil {
		return nil, err
	}
	out := make([]reservation.Reservation, 0, len(recs))
	for _, rec := range recs {
		res, err := decodeReservation(rec)
		if err != nil {
			return nil, fmt.Errorf("repo: reservations: %w", err)
		}
		out = append(out, *res)
	}
	return out, nil
}

// SetStatus applies a state machine transition. The current record is
// always re-read first so a stale in-memory copy can never downgrade a
// state.
func (r *Reservations) SetStatus(ctx context.Context, id reservation.ReservationID, next reservation.Status) (*reservation.Reservation, error) {
	res, err := r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := res.Transition(next, r.now()); err != nil {
		return nil, err
	}
	if err := r.Store.Put(ctx, ReservationsCollection, encodeReservation(res)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, reservation.ErrNotFound
		}
		return nil, err
	}
	r.publish(ctx, res)
	return res, nil
}

// Cancel is the requester-facing wrapper: pending or approved to
// cancelled, nothing else.
func (r *Reservations) Cancel(ctx context.Context, id reservation.ReservationID) (*reservation.Reservation, error) {
	return r.SetStatus(ctx, id, reservation.StatusCancelled)
}

// publish drains pending events best-effort; a broker outage must not
// fail a write that already landed.
func (r *Reservations) publish(ctx context.Context, res *reservation.Reservation) {
	if r.Events == nil {
		return
	}
	for _, event := range res.PendingEvents() {
		if err := r.Events.Publish(ctx, event); err != nil && r.Logger != nil {
			r.Logger.Warn("event publish failed", "event", event.EventName(), "reservation", res.ID, "error", err)
		}
	}
	res.ClearEvents()
}

func verdictError(v availability.Verdict) error {
	switch v.Reason {
	case availability.ReasonInvalidRange:
		return ErrInvalidRange
	case availability.ReasonInvalidGuests:
		return reservation.ErrInvalidGuests
	case availability.ReasonCapacityExceeded:
		return ErrCapacityExceeded
	case availability.ReasonPastCheckIn:
		return ErrPastCheckIn
	case availability.ReasonDateConflict:
		return ErrDateConflict
	}
	return fmt.Errorf("repo: validation failed: %s", v.Reason)
}
