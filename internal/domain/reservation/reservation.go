package reservation

import (
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
)

var (
	ErrInvalidGuests     = errors.New("reservation: guest count must be positive")
	ErrRequesterRequired = errors.New("reservation: requester is required")
	ErrInvalidTransition = errors.New("reservation: invalid status transition")
	ErrUnknownStatus     = errors.New("reservation: unknown status")
	ErrNotFound          = errors.New("reservation: not found")
)

type ReservationID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusDeclined  Status = "DECLINED"
	StatusCancelled Status = "CANCELLED"
)

// transitions is the closed state machine: pending -> approved|declined,
// pending|approved -> cancelled. Declined and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusDeclined, StatusCancelled},
	StatusApproved: {StatusCancelled},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether the reservation blocks its date range. Only
// pending and approved reservations occupy days.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusApproved
}

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusDeclined:
		return StatusDeclined, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", ErrUnknownStatus
}

// Quote is the price breakdown frozen onto a reservation at creation.
// Re-quoting later never changes a persisted reservation's price.
type Quote struct {
	Nights      int         `json:"nights"`
	NightlyRate money.Money `json:"nightly_rate"`
	ServiceFee  money.Money `json:"service_fee"`
	Total       money.Money `json:"total"`
}

type Reservation struct {
	ID        ReservationID
	Unit      listing.UnitID
	Requester string
	Range     daterange.DateRange
	Guests    int
	Status    Status
	Price     Quote
	CreatedAt time.Time
	UpdatedAt time.Time
	events.EventRecorder
}

type CreateParams struct {
	ID        ReservationID
	Unit      listing.UnitID
	Requester string
	Range     daterange.DateRange
	Guests    int
	Price     Quote
	Now       time.Time
}

func New(params CreateParams) (*Reservation, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if strings.TrimSpace(params.Requester) == "" {
		return nil, ErrRequesterRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	r := &Reservation{
		ID:        params.ID,
		Unit:      params.Unit,
		Requester: params.Requester,
		Range:     params.Range,
		Guests:    params.Guests,
		Status:    StatusPending,
		Price:     params.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.Record(Requested{ID: r.ID, Unit: r.Unit, Requester: r.Requester, Range: r.Range, Guests: r.Guests, Total: r.Price.Total, At: now})
	return r, nil
}

// Transition moves the reservation to next, enforcing the state
// machine. The caller is responsible for checking against freshly
// loaded state, not a stale copy.
func (r *Reservation) Transition(next Status, now time.Time) error {
	if !r.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	from := r.Status
	r.Status = next
	r.UpdatedAt = now.UTC()
	r.Record(StatusChanged{ID: r.ID, Unit: r.Unit, From: from, To: next, At: r.UpdatedAt})
	return nil
}
