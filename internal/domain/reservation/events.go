package reservation

import (
	"time"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

type Requested struct {
	ID        ReservationID       `json:"id"`
	Unit      listing.UnitID      `json:"unit_id"`
	Requester string              `json:"requester_id"`
	Range     daterange.DateRange `json:"range"`
	Guests    int                 `json:"guests"`
	Total     money.Money         `json:"total"`
	At        time.Time           `json:"at"`
}

func (e Requested) EventName() string     { return "reservation.requested" }
func (e Requested) AggregateID() string   { return string(e.ID) }
func (e Requested) OccurredAt() time.Time { return e.At }

type StatusChanged struct {
	ID   ReservationID  `json:"id"`
	Unit listing.UnitID `json:"unit_id"`
	From Status         `json:"from"`
	To   Status         `json:"to"`
	At   time.Time      `json:"at"`
}

func (e StatusChanged) EventName() string     { return "reservation.status_changed" }
func (e StatusChanged) AggregateID() string   { return string(e.ID) }
func (e StatusChanged) OccurredAt() time.Time { return e.At }
