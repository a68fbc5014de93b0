// Package seed carries the static example datasets loaded into empty
// collections on first query. Every record has a pre-assigned id so
// seeding stays idempotent across processes.
package seed

import (
	"time"

	"staybook/internal/repo"
	"staybook/internal/store"
)

func day(year int, month time.Month, d int) int64 {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC).UnixMilli()
}

// Units are example listings owned by the demo hosts.
func Units() []store.Record {
	created := day(2025, time.March, 1)
	return []store.Record{
		{
			"id":                 "unit-canal-loft",
			"owner_id":           "host-mira",
			"title":              "Canal-side loft",
			"description":        "Bright loft over the old canal, five minutes from the market square.",
			"nightly_rate_cents": int64(12500),
			"currency":           "USD",
			"max_guests":         int64(3),
			"city":               "Amsterdam",
			"country":            "Netherlands",
			"lat":                52.3702,
			"lon":                4.8952,
			"amenities":          []string{"wifi", "kitchen", "washer"},
			"created_at":         created,
			"updated_at":         created,
		},
		{
			"id":                 "unit-harbor-cabin",
			"owner_id":           "host-mira",
			"title":              "Harbor cabin",
			"description":        "Compact cabin with a harbor view and a wood stove.",
			"nightly_rate_cents": int64(8900),
			"currency":           "USD",
			"max_guests":         int64(2),
			"city":               "Bergen",
			"country":            "Norway",
			"lat":                60.3913,
			"lon":                5.3221,
			"amenities":          []string{"wifi", "heating"},
			"created_at":         created,
			"updated_at":         created,
		},
		{
			"id":                 "unit-terrace-flat",
			"owner_id":           "host-joao",
			"title":              "Terrace flat",
			"description":        "Two-bedroom flat with a rooftop terrace and river views.",
			"nightly_rate_cents": int64(10000),
			"currency":           "USD",
			"max_guests":         int64(4),
			"city":               "Porto",
			"country":            "Portugal",
			"lat":                41.1579,
			"lon":                -8.6291,
			"amenities":          []string{"wifi", "kitchen", "terrace", "crib"},
			"created_at":         created,
			"updated_at":         created,
		},
	}
}

// Reservations are example bookings against the seed units.
func Reservations() []store.Record {
	created := day(2025, time.April, 2)
	return []store.Record{
		{
			"id":                 "res-seed-0001",
			"unit_id":            "unit-canal-loft",
			"requester_id":       "guest-olena",
			"check_in":           day(2027, time.June, 10),
			"check_out":          day(2027, time.June, 14),
			"guests":             int64(2),
			"status":             "APPROVED",
			"nights":             int64(4),
			"nightly_rate_cents": int64(12500),
			"service_fee_cents":  int64(2500),
			"total_cents":        int64(52500),
			"currency":           "USD",
			"created_at":         created,
			"updated_at":         created,
		},
		{
			"id":                 "res-seed-0002",
			"unit_id":            "unit-terrace-flat",
			"requester_id":       "guest-sam",
			"check_in":           day(2027, time.July, 1),
			"check_out":          day(2027, time.July, 4),
			"guests":             int64(4),
			"status":             "PENDING",
			"nights":             int64(3),
			"nightly_rate_cents": int64(10000),
			"service_fee_cents":  int64(1500),
			"total_cents":        int64(31500),
			"currency":           "USD",
			"created_at":         created,
			"updated_at":         created,
		},
	}
}

// Register attaches both datasets to the seeder.
func Register(s *store.Seeder) error {
	if err := s.Register(repo.UnitsCollection, Units()); err != nil {
		return err
	}
	return s.Register(repo.ReservationsCollection, Reservations())
}
