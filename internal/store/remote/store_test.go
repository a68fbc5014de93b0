package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"staybook/internal/store"
)

// stubAPI is a minimal collections server backing the remote store in
// tests.
func stubAPI(t *testing.T) (*httptest.Server, map[string]store.Record) {
	t.Helper()
	units := map[string]store.Record{
		"u1": {"id": "u1", "title": "loft", "owner_id": "host-1"},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /collections/units", func(w http.ResponseWriter, r *http.Request) {
		var out []store.Record
		owner := r.URL.Query().Get("owner_id")
		for _, rec := range units {
			if owner != "" && rec["owner_id"] != owner {
				continue
			}
			out = append(out, rec)
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("GET /collections/units/{id}", func(w http.ResponseWriter, r *http.Request) {
		rec, ok := units[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(rec)
	})
	mux.HandleFunc("POST /collections/units", func(w http.ResponseWriter, r *http.Request) {
		var rec store.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id := store.RecordID(rec)
		if _, exists := units[id]; exists {
			w.WriteHeader(http.StatusConflict)
			return
		}
		units[id] = rec
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rec)
	})
	mux.HandleFunc("DELETE /collections/units/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := units[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(units, id)
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, units
}

func TestRemoteQueryAndGet(t *testing.T) {
	server, _ := stubAPI(t)
	s := New(server.URL, server.Client())
	ctx := context.Background()

	recs, err := s.Query(ctx, "units", store.Filter{"owner_id": "host-1"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(recs) != 1 || store.RecordID(recs[0]) != "u1" {
		t.Errorf("Query = %v, want u1 only", recs)
	}

	if _, err := s.Get(ctx, "units", "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get missing: err = %v, want ErrNotFound", err)
	}
}

func TestRemotePostAssignsIDAndMapsConflict(t *testing.T) {
	server, units := stubAPI(t)
	s := New(server.URL, server.Client())
	ctx := context.Background()

	saved, err := s.Post(ctx, "units", store.Record{"title": "cabin"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	id := store.RecordID(saved)
	if id == "" {
		t.Fatal("Post did not assign an id")
	}
	if _, ok := units[id]; !ok {
		t.Errorf("record %s not stored server-side", id)
	}

	if _, err := s.Post(ctx, "units", store.Record{"id": "u1"}); !errors.Is(err, store.ErrDuplicateID) {
		t.Errorf("duplicate: err = %v, want ErrDuplicateID", err)
	}
}

func TestRemoteRemove(t *testing.T) {
	server, units := stubAPI(t)
	s := New(server.URL, server.Client())
	ctx := context.Background()

	if err := s.Remove(ctx, "units", "u1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := units["u1"]; ok {
		t.Error("record not removed server-side")
	}
	if err := s.Remove(ctx, "units", "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Remove: err = %v, want ErrNotFound", err)
	}
}
