package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/shared/money"
	"staybook/internal/store/memory"
)

func TestListingRoundTrip(t *testing.T) {
	listings := NewListings(memory.New())
	listings.Now = func() time.Time { return fixedNow }
	ctx := context.Background()

	created, err := listings.Create(ctx, listing.CreateParams{
		Owner:       "host-1",
		Title:       "  Terrace flat ",
		Description: "Rooftop terrace, river views.",
		NightlyRate: money.Must(10000, "USD"),
		MaxGuests:   4,
		Location:    listing.Location{City: "Porto", Country: "Portugal", Lat: 41.15, Lon: -8.62},
		Amenities:   []string{"wifi", "terrace"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Title != "Terrace flat" {
		t.Errorf("title not trimmed: %q", created.Title)
	}

	got, err := listings.ByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got.NightlyRate != created.NightlyRate || got.MaxGuests != 4 || got.Location.City != "Porto" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Amenities) != 2 {
		t.Errorf("amenities = %v", got.Amenities)
	}
}

func TestListingUpdateRestrictedFields(t *testing.T) {
	listings := NewListings(memory.New())
	listings.Now = func() time.Time { return fixedNow }
	ctx := context.Background()

	created, err := listings.Create(ctx, listing.CreateParams{
		Owner:       "host-1",
		Title:       "Canal loft",
		NightlyRate: money.Must(12500, "USD"),
		MaxGuests:   3,
		Location:    listing.Location{City: "Amsterdam", Country: "Netherlands"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newRate := money.Must(13000, "USD")
	guests := 2
	updated, err := listings.Update(ctx, created.ID, listing.Update{NightlyRate: &newRate, MaxGuests: &guests})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.NightlyRate.Amount != 13000 || updated.MaxGuests != 2 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Owner != created.Owner || updated.ID != created.ID {
		t.Error("update touched immutable fields")
	}

	bad := 0
	if _, err := listings.Update(ctx, created.ID, listing.Update{MaxGuests: &bad}); !errors.Is(err, listing.ErrMaxGuests) {
		t.Errorf("zero guests: err = %v, want ErrMaxGuests", err)
	}
}

func TestListingNotFound(t *testing.T) {
	listings := NewListings(memory.New())
	ctx := context.Background()

	if _, err := listings.ByID(ctx, "missing"); !errors.Is(err, listing.ErrNotFound) {
		t.Errorf("ByID: err = %v, want ErrNotFound", err)
	}
	if err := listings.Remove(ctx, "missing"); !errors.Is(err, listing.ErrNotFound) {
		t.Errorf("Remove: err = %v, want ErrNotFound", err)
	}
	if _, err := listings.Update(ctx, "missing", listing.Update{}); !errors.Is(err, listing.ErrNotFound) {
		t.Errorf("Update: err = %v, want ErrNotFound", err)
	}
}

func TestListingsByOwner(t *testing.T) {
	listings := NewListings(memory.New())
	ctx := context.Background()

	for _, params := range []listing.CreateParams{
		{Owner: "host-1", Title: "A", NightlyRate: money.Must(100, "USD"), MaxGuests: 1, Location: listing.Location{City: "X", Country: "Y"}},
		{Owner: "host-1", Title: "B", NightlyRate: money.Must(100, "USD"), MaxGuests: 1, Location: listing.Location{City: "X", Country: "Y"}},
		{Owner: "host-2", Title: "C", NightlyRate: money.Must(100, "USD"), MaxGuests: 1, Location: listing.Location{City: "X", Country: "Y"}},
	} {
		if _, err := listings.Create(ctx, params); err != nil {
			t.Fatalf("Create %s: %v", params.Title, err)
		}
	}

	owned, err := listings.ByOwner(ctx, "host-1")
	if err != nil {
		t.Fatalf("ByOwner: %v", err)
	}
	if len(owned) != 2 {
		t.Errorf("ByOwner = %d units, want 2", len(owned))
	}
}
