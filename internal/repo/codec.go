package repo

import (
	"fmt"
	"time"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	"staybook/internal/store"
)

// Store records are loosely shaped maps; everything crossing into the
// domain is normalized here into the strict Unit/Reservation types, one
// canonical field name per concept.

func encodeUnit(u *listing.Unit) store.Record {
	return store.Record{
		store.IDKey:          string(u.ID),
		"owner_id":           string(u.Owner),
		"title":              u.Title,
		"description":        u.Description,
		"nightly_rate_cents": u.NightlyRate.Amount,
		"currency":           u.NightlyRate.Currency,
		"max_guests":         int64(u.MaxGuests),
		"city":               u.Location.City,
		"country":            u.Location.Country,
		"lat":                u.Location.Lat,
		"lon":                u.Location.Lon,
		"amenities":          u.Amenities,
		"created_at":         u.CreatedAt.UnixMilli(),
		"updated_at":         u.UpdatedAt.UnixMilli(),
	}
}

func decodeUnit(rec store.Record) (*listing.Unit, error) {
	id := store.RecordID(rec)
	if id == "" {
		return nil, fmt.Errorf("repo: unit record has no id")
	}
	return &listing.Unit{
		ID:          listing.UnitID(id),
		Owner:       listing.OwnerID(asString(rec["owner_id"])),
		Title:       asString(rec["title"]),
		Description: asString(rec["description"]),
		NightlyRate: money.Money{Amount: asInt64(rec["nightly_rate_cents"]), Currency: asString(rec["currency"])},
		MaxGuests:   int(asInt64(rec["max_guests"])),
		Location: listing.Location{
			City:    asString(rec["city"]),
			Country: asString(rec["country"]),
			Lat:     asFloat(rec["lat"]),
			Lon:     asFloat(rec["lon"]),
		},
		Amenities: asStrings(rec["amenities"]),
		CreatedAt: asTime(rec["created_at"]),
		UpdatedAt: asTime(rec["updated_at"]),
	}, nil
}

func encodeReservation(r *reservation.Reservation) store.Record {
	return store.Record{
		store.IDKey:          string(r.ID),
		"unit_id":            string(r.Unit),
		"requester_id":       r.Requester,
		"check_in":           r.Range.CheckIn.UnixMilli(),
		"check_out":          r.Range.CheckOut.UnixMilli(),
		"guests":             int64(r.Guests),
		"status":             string(r.Status),
		"nights":             int64(r.Price.Nights),
		"nightly_rate_cents": r.Price.NightlyRate.Amount,
		"service_fee_cents":  r.Price.ServiceFee.Amount,
		"total_cents":        r.Price.Total.Amount,
		"currency":           r.Price.Total.Currency,
		"created_at":         r.CreatedAt.UnixMilli(),
		"updated_at":         r.UpdatedAt.UnixMilli(),
	}
}

func decodeReservation(rec store.Record) (*reservation.Reservation, error) {
	id := store.RecordID(rec)
	if id == "" {
		return nil, fmt.Errorf("repo: reservation record has no id")
	}
	status, err := reservation.ParseStatus(asString(rec["status"]))
	if err != nil {
		return nil, fmt.Errorf("repo: reservation %s: %w", id, err)
	}
	currency := asString(rec["currency"])
	// Exports from the old system carried "checkin"/"checkout".
	checkIn := asTime(firstOf(rec, "check_in", "checkin"))
	checkOut := asTime(firstOf(rec, "check_out", "checkout"))
	return &reservation.Reservation{
		ID:        reservation.ReservationID(id),
		Unit:      listing.UnitID(asString(rec["unit_id"])),
		Requester: asString(rec["requester_id"]),
		Range:     daterange.DateRange{CheckIn: daterange.Day(checkIn), CheckOut: daterange.Day(checkOut)},
		Guests:    int(asInt64(rec["guests"])),
		Status:    status,
		Price: reservation.Quote{
			Nights:      int(asInt64(rec["nights"])),
			NightlyRate: money.Money{Amount: asInt64(rec["nightly_rate_cents"]), Currency: currency},
			ServiceFee:  money.Money{Amount: asInt64(rec["service_fee_cents"]), Currency: currency},
			Total:       money.Money{Amount: asInt64(rec["total_cents"]), Currency: currency},
		},
		CreatedAt: asTime(rec["created_at"]),
		UpdatedAt: asTime(rec["updated_at"]),
	}, nil
}

func firstOf(rec store.Record, keys ...string) any {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// Numeric values round-trip differently per backend: int64 from the
// embedded map, float64 from JSON, int32/int64 from bson.

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func asTime(v any) time.Time {
	ms := asInt64(v)
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func asStrings(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
