package listing

import (
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/shared/money"
)

var (
	ErrOwnerRequired = errors.New("listing: owner is required")
	ErrTitleRequired = errors.New("listing: title is required")
	ErrMaxGuests     = errors.New("listing: max guests must be at least 1")
	ErrNightlyRate   = errors.New("listing: nightly rate must be non-negative")
	ErrLocation      = errors.New("listing: city and country are required")
	ErrNotFound      = errors.New("listing: not found")
)

type UnitID string
type OwnerID string

type Location struct {
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
}

func (l Location) Valid() bool {
	return strings.TrimSpace(l.City) != "" && strings.TrimSpace(l.Country) != ""
}

// Unit is a bookable lodging listing. The id is immutable after
// creation; everything else mutates only through ApplyUpdate.
type Unit struct {
	ID          UnitID
	Owner       OwnerID
	Title       string
	Description string
	NightlyRate money.Money
	MaxGuests   int
	Location    Location
	Amenities   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	ID          UnitID
	Owner       OwnerID
	Title       string
	Description string
	NightlyRate money.Money
	MaxGuests   int
	Location    Location
	Amenities   []string
	Now         time.Time
}

func New(params CreateParams) (*Unit, error) {
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, ErrOwnerRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.MaxGuests < 1 {
		return nil, ErrMaxGuests
	}
	if params.NightlyRate.Amount < 0 {
		return nil, ErrNightlyRate
	}
	if !params.Location.Valid() {
		return nil, ErrLocation
	}
	now := params.Now.UTC()
	return &Unit{
		ID:          params.ID,
		Owner:       params.Owner,
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		NightlyRate: params.NightlyRate,
		MaxGuests:   params.MaxGuests,
		Location:    params.Location,
		Amenities:   params.Amenities,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update carries the owner-mutable fields. Nil pointers leave the
// current value untouched. Whether the caller is actually the owner is
// an authorization concern of the layer above.
type Update struct {
	Title       *string
	Description *string
	NightlyRate *money.Money
	MaxGuests   *int
	Location    *Location
	Amenities   []string
}

func (u *Unit) ApplyUpdate(update Update, now time.Time) error {
	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return ErrTitleRequired
		}
		u.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		u.Description = *update.Description
	}
	if update.NightlyRate != nil {
		if update.NightlyRate.Amount < 0 {
			return ErrNightlyRate
		}
		u.NightlyRate = *update.NightlyRate
	}
	if update.MaxGuests != nil {
		if *update.MaxGuests < 1 {
			return ErrMaxGuests
		}
		u.MaxGuests = *update.MaxGuests
	}
	if update.Location != nil {
		if !update.Location.Valid() {
			return ErrLocation
		}
		u.Location = *update.Location
	}
	if update.Amenities != nil {
		u.Amenities = update.Amenities
	}
	u.UpdatedAt = now.UTC()
	return nil
}
