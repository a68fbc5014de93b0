// Package availability holds the pure date and price logic of the
// booking core. Nothing here performs I/O; callers pass in the
// reservation set to evaluate against.
package availability

import (
	"time"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
)

// ServiceFeeBasisPoints is the platform fee applied on top of the
// nightly subtotal: 500 basis points, i.e. 5%.
const ServiceFeeBasisPoints = 500

// DaySet is a set of occupied calendar days, keyed by UTC midnight.
type DaySet map[time.Time]struct{}

// OccupiedDays expands every active (pending or approved) reservation
// into its occupied days and unions them. Declined and cancelled
// reservations release their range.
func OccupiedDays(reservations []reservation.Reservation) DaySet {
	occupied := make(DaySet)
	for _, r := range reservations {
		if !r.Status.Active() {
			continue
		}
		for _, day := range r.Range.Days() {
			occupied[day] = struct{}{}
		}
	}
	return occupied
}

// HasConflict reports whether any day of the candidate range is already
// occupied. The checkout day is excluded on both sides, so a stay
// ending on day D never conflicts with one starting on D.
func HasConflict(checkIn, checkOut time.Time, occupied DaySet) bool {
	candidate := daterange.DateRange{CheckIn: daterange.Day(checkIn), CheckOut: daterange.Day(checkOut)}
	for _, day := range candidate.Days() {
		if _, taken := occupied[day]; taken {
			return true
		}
	}
	return false
}

// Reason identifies the single rule a candidate booking failed.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonInvalidRange     Reason = "INVALID_RANGE"
	ReasonInvalidGuests    Reason = "INVALID_GUESTS"
	ReasonCapacityExceeded Reason = "CAPACITY_EXCEEDED"
	ReasonPastCheckIn      Reason = "PAST_CHECK_IN"
	ReasonDateConflict     Reason = "DATE_CONFLICT"
)

// Verdict is the tagged result of Validate. Validation failures are
// expected outcomes, not errors: a failing verdict carries exactly one
// reason, the first rule that broke.
type Verdict struct {
	OK     bool
	Reason Reason
}

func ok() Verdict           { return Verdict{OK: true} }
func fail(r Reason) Verdict { return Verdict{Reason: r} }

// Validate checks a candidate booking against the unit and its existing
// reservations. Rules run in a fixed order and short-circuit: range,
// guest count, capacity, past check-in, date conflict. A non-positive
// guest count is a malformed request, not a capacity failure, and gets
// its own reason.
func Validate(unit *listing.Unit, existing []reservation.Reservation, checkIn, checkOut time.Time, guests int, now time.Time) Verdict {
	dr := daterange.DateRange{CheckIn: daterange.Day(checkIn), CheckOut: daterange.Day(checkOut)}
	if dr.Validate() != nil {
		return fail(ReasonInvalidRange)
	}
	if guests < 1 {
		return fail(ReasonInvalidGuests)
	}
	if guests > unit.MaxGuests {
		return fail(ReasonCapacityExceeded)
	}
	if dr.CheckIn.Before(daterange.Day(now)) {
		return fail(ReasonPastCheckIn)
	}
	if HasConflict(dr.CheckIn, dr.CheckOut, OccupiedDays(existing)) {
		return fail(ReasonDateConflict)
	}
	return ok()
}

// PriceQuote computes the frozen price breakdown for a stay:
// subtotal = nightly rate x nights, service fee = 5% of the subtotal
// rounded half-up, total = subtotal + fee. Pure: identical inputs
// always produce identical quotes.
func PriceQuote(unit *listing.Unit, checkIn, checkOut time.Time) (reservation.Quote, error) {
	dr, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return reservation.Quote{}, err
	}
	nights := dr.Nights()
	subtotal := unit.NightlyRate.Multiply(int64(nights))
	fee := subtotal.Percent(ServiceFeeBasisPoints)
	total, err := subtotal.Add(fee)
	if err != nil {
		return reservation.Quote{}, err
	}
	return reservation.Quote{
		Nights:      nights,
		NightlyRate: unit.NightlyRate,
		ServiceFee:  fee,
		Total:       total,
	}, nil
}
