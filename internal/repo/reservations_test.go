package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"staybook/internal/domain/availability"
	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/money"
	"staybook/internal/store/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixedNow keeps every availability check deterministic.
var fixedNow = date(2027, time.January, 1)

func newFixture(t *testing.T) (*Listings, *Reservations, listing.UnitID) {
	t.Helper()
	backend := memory.New()
	listings := NewListings(backend)
	listings.Now = func() time.Time { return fixedNow }
	reservations := NewReservations(backend, listings)
	reservations.Now = func() time.Time { return fixedNow }

	unit, err := listings.Create(context.Background(), listing.CreateParams{
		Owner:       "host-1",
		Title:       "Canal loft",
		NightlyRate: money.Must(10000, "USD"),
		MaxGuests:   2,
		Location:    listing.Location{City: "Amsterdam", Country: "Netherlands"},
	})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	return listings, reservations, unit.ID
}

func mustCreate(t *testing.T, r *Reservations, unit listing.UnitID, in, out time.Time) *reservation.Reservation {
	t.Helper()
	res, err := r.Create(context.Background(), CreateParams{
		Unit: unit, Requester: "guest-1", CheckIn: in, CheckOut: out, Guests: 2,
	})
	if err != nil {
		t.Fatalf("create reservation [%v, %v): %v", in, out, err)
	}
	return res
}

func TestCreatePersistsPendingWithFrozenPrice(t *testing.T) {
	_, reservations, unit := newFixture(t)
	res := mustCreate(t, reservations, unit, date(2027, time.June, 1), date(2027, time.June, 4))

	if res.Status != reservation.StatusPending {
		t.Errorf("status = %s, want PENDING", res.Status)
	}
	if res.Price.Nights != 3 || res.Price.ServiceFee.Amount != 1500 || res.Price.Total.Amount != 31500 {
		t.Errorf("price = %+v, want 3 nights / 1500 fee / 31500 total", res.Price)
	}

	stored, err := reservations.ByID(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.Price != res.Price {
		t.Errorf("persisted price %+v differs from created %+v", stored.Price, res.Price)
	}
	if !stored.Range.CheckIn.Equal(date(2027, time.June, 1)) {
		t.Errorf("persisted check-in = %v", stored.Range.CheckIn)
	}
}

func TestCreateRejectsOverlap(t *testing.T) {
	_, reservations, unit := newFixture(t)
	mustCreate(t, reservations, unit, date(2027, time.June, 1), date(2027, time.June, 5))

	_, err := reservations.Create(context.Background(), CreateParams{
		Unit: unit, Requester: "guest-2", CheckIn: date(2027, time.June, 3), CheckOut: date(2027, time.June, 6), Guests: 1,
	})
	if !errors.Is(err, ErrDateConflict) {
		t.Errorf("overlap: err = %v, want ErrDateConflict", err)
	}
}

func TestBackToBackStaysDoNotConflict(t *testing.T) {
	_, reservations, unit := newFixture(t)
	mustCreate(t, reservations, unit, date(2027, time.June, 1), date(2027, time.June, 5))
	mustCreate(t, reservations, unit, date(2027, time.June, 5), date(2027, time.June, 8))
}

func TestDeclinedReleasesTheRange(t *testing.T) {
	_, reservations, unit := newFixture(t)
	first := mustCreate(t, reservations, unit, date(2027, time.June, 1), date(2027, time.June, 5))

	if _, err := reservations.SetStatus(context.Background(), first.ID, reservation.StatusDeclined); err != nil {
		t.Fatalf("decline: %v", err)
	}
	mustCreate(t, reservations, unit, date(2027, time.June, 2), date(2027, time.June, 4))
}

func TestCreateValidationErrors(t *testing.T) {
	_, reservations, unit := newFixture(t)
	ctx := context.Background()

	_, err := reservations.Create(ctx, CreateParams{Unit: unit, Requester: "g", CheckIn: date(2027, time.June, 5), CheckOut: date(2027, time.June, 5), Guests: 1})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("empty range: err = %v, want ErrInvalidRange", err)
	}

	_, err = reservations.Create(ctx, CreateParams{Unit: unit, Requester: "g", CheckIn: date(2027, time.June, 5), CheckOut: date(2027, time.June, 8), Guests: 3})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("too many guests: err = %v, want ErrCapacityExceeded", err)
	}

	_, err = reservations.Create(ctx, CreateParams{Unit: unit, Requester: "g", CheckIn: date(2027, time.June, 5), CheckOut: date(2027, time.June, 8), Guests: 0})
	if !errors.Is(err, reservation.ErrInvalidGuests) {
		t.Errorf("zero guests: err = %v, want reservation.ErrInvalidGuests", err)
	}

	_, err = reservations.Create(ctx, CreateParams{Unit: unit, Requester: "g", CheckIn: date(2026, time.December, 1), CheckOut: date(2026, time.December, 4), Guests: 1})
	if !errors.Is(err, ErrPastCheckIn) {
		t.Errorf("past check-in: err = %v, want ErrPastCheckIn", err)
	}

	_, err = reservations.Create(ctx, CreateParams{Unit: "no-such-unit", Requester: "g", CheckIn: date(2027, time.June, 5), CheckOut: date(2027, time.June, 8), Guests: 1})
	if !errors.Is(err, listing.ErrNotFound) {
		t.Errorf("unknown unit: err = %v, want listing.ErrNotFound", err)
	}
}

func TestSetStatusEnforcesTransitions(t *testing.T) {
	_, reservations, unit := newFixture(t)
	ctx := context.Background()
	res := mustCreate(t, reservations, unit, date(2027, time.June, 1), date(2027, time.June, 4))

	approved, err := reservations.SetStatus(ctx, res.ID, reservation.StatusApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != reservation.StatusApproved {
		t.Errorf("status = %s, want APPROVED", approved.Status)
	}

	// The transition is checked against freshly read state, so the
	// stale pending copy cannot be declined now.
	if _, err := reservations.SetStatus(ctx, res.ID, reservation.StatusDeclined); !errors.Is(err, reservation.ErrInvalidTransition) {
		t.Errorf("approved -> declined: err = %v, want ErrInvalidTransition", err)
	}

	if _, err := reservations.SetStatus(ctx, "no-such-id", reservation.StatusApproved); !errors.Is(err, reservation.ErrNotFound) {
		t.Errorf("unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestCancelOnlyFromActiveStates(t *testing.T) {
	_, reservations, unit := newFixture(t)
	ctx := context.Background()

	res := mustCreate(t, reservations, unit, date(2027, time.June, 1), date(2027, time.June, 4))
	cancelled, err := reservations.Cancel(ctx, res.ID)
	if err != nil {
		t.Fatalf("cancel pending: %v", err)
	}
	if cancelled.Status != reservation.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}

	if _, err := reservations.Cancel(ctx, res.ID); !errors.Is(err, reservation.ErrInvalidTransition) {
		t.Errorf("cancel cancelled: err = %v, want ErrInvalidTransition", err)
	}
}

func TestListByRequesterAndOwner(t *testing.T) {
	listings, reservations, unit := newFixture(t)
	ctx := context.Background()

	other, err := listings.Create(ctx, listing.CreateParams{
		Owner:       "host-2",
		Title:       "Harbor cabin",
		NightlyRate: money.Must(8900, "USD"),
		MaxGuests:   2,
		Location:    listing.Location{City: "Bergen", Country: "Norway"},
	})
	if err != nil {
		t.Fatalf("create second unit: %v", err)
	}

	mustCreate(t, reservations, unit, date(2027, time.June, 1), date(2027, time.June, 4))
	mustCreate(t, reservations, other.ID, date(2027, time.June, 1), date(2027, time.June, 4))

	mine, err := reservations.ByRequester(ctx, "guest-1")
	if err != nil {
		t.Fatalf("ByRequester: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("ByRequester = %d reservations, want 2", len(mine))
	}

	hosted, err := reservations.ByOwner(ctx, "host-2")
	if err != nil {
		t.Fatalf("ByOwner: %v", err)
	}
	if len(hosted) != 1 || hosted[0].Unit != other.ID {
		t.Errorf("ByOwner = %v, want the harbor cabin booking only", hosted)
	}
}

// After any successful sequence of creates and transitions the active
// reservations of a unit must have pairwise disjoint day ranges.
func TestNoOverlapInvariantAfterMixedSequence(t *testing.T) {
	_, reservations, unit := newFixture(t)
	ctx := context.Background()

	a := mustCreate(t, reservations, unit, date(2027, time.June, 1), date(2027, time.June, 5))
	mustCreate(t, reservations, unit, date(2027, time.June, 5), date(2027, time.June, 8))
	if _, err := reservations.SetStatus(ctx, a.ID, reservation.StatusDeclined); err != nil {
		t.Fatalf("decline: %v", err)
	}
	mustCreate(t, reservations, unit, date(2027, time.June, 3), date(2027, time.June, 5))
	if _, err := reservations.Create(ctx, CreateParams{
		Unit: unit, Requester: "guest-9", CheckIn: date(2027, time.June, 4), CheckOut: date(2027, time.June, 6), Guests: 1,
	}); !errors.Is(err, ErrDateConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	all, err := reservations.ByUnit(ctx, unit)
	if err != nil {
		t.Fatalf("ByUnit: %v", err)
	}
	var active []reservation.Reservation
	for _, r := range all {
		if r.Status.Active() {
			active = append(active, r)
		}
	}
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			if active[i].Range.Overlaps(active[j].Range) {
				t.Errorf("active reservations overlap: %v and %v", active[i].Range, active[j].Range)
			}
		}
	}
	if got := len(availability.OccupiedDays(active)); got != 5 {
		t.Errorf("occupied days = %d, want 5", got)
	}
}
