package ginserver

import (
	"time"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
)

// Response payloads mirror the request payloads: snake_case keys,
// rates in cents, stay dates as YYYY-MM-DD. Domain aggregates never
// hit the wire directly.

type unitResponse struct {
	ID               string          `json:"id"`
	OwnerID          string          `json:"owner_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	NightlyRateCents int64           `json:"nightly_rate_cents"`
	Currency         string          `json:"currency"`
	MaxGuests        int             `json:"max_guests"`
	Location         locationPayload `json:"location"`
	Amenities        []string        `json:"amenities,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toUnitResponse(u *listing.Unit) unitResponse {
	return unitResponse{
		ID:               string(u.ID),
		OwnerID:          string(u.Owner),
		Title:            u.Title,
		Description:      u.Description,
		NightlyRateCents: u.NightlyRate.Amount,
		Currency:         u.NightlyRate.Currency,
		MaxGuests:        u.MaxGuests,
		Location:         locationPayload(u.Location),
		Amenities:        u.Amenities,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func toUnitResponses(units []listing.Unit) []unitResponse {
	out := make([]unitResponse, len(units))
	for i := range units {
		out[i] = toUnitResponse(&units[i])
	}
	return out
}

type reservationResponse struct {
	ID          string            `json:"id"`
	UnitID      string            `json:"unit_id"`
	RequesterID string            `json:"requester_id"`
	CheckIn     string            `json:"check_in"`
	CheckOut    string            `json:"check_out"`
	Guests      int               `json:"guests"`
	Status      string            `json:"status"`
	Price       reservation.Quote `json:"price"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func toReservationResponse(r *reservation.Reservation) reservationResponse {
	return reservationResponse{
		ID:          string(r.ID),
		UnitID:      string(r.Unit),
		RequesterID: r.Requester,
		CheckIn:     r.Range.CheckIn.Format(time.DateOnly),
		CheckOut:    r.Range.CheckOut.Format(time.DateOnly),
		Guests:      r.Guests,
		Status:      string(r.Status),
		Price:       r.Price,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toReservationResponses(reservations []reservation.Reservation) []reservationResponse {
	out := make([]reservationResponse, len(reservations))
	for i := range reservations {
		out[i] = toReservationResponse(&reservations[i])
	}
	return out
}
