// Package remote implements the keyed store against a remote JSON
// collections API. Timeouts and retries belong to the injected HTTP
// client, not to this layer.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"staybook/internal/store"
)

type Store struct {
	Client   *http.Client
	Endpoint string
}

func New(endpoint string, client *http.Client) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{Client: client, Endpoint: strings.TrimRight(endpoint, "/")}
}

func (s *Store) Query(ctx context.Context, collection string, filter store.Filter) ([]store.Record, error) {
	path := "/collections/" + url.PathEscape(collection)
	if len(filter) > 0 {
		q := url.Values{}
		for k, v := range filter {
			q.Set(k, fmt.Sprint(v))
		}
		path += "?" + q.Encode()
	}
	var out []store.Record
	if err := s.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Record, error) {
	var rec store.Record
	if err := s.do(ctx, http.MethodGet, recordPath(collection, id), nil, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) Post(ctx context.Context, collection string, rec store.Record) (store.Record, error) {
	rec = store.Clone(rec)
	store.EnsureID(rec)
	var saved store.Record
	path := "/collections/" + url.PathEscape(collection)
	if err := s.do(ctx, http.MethodPost, path, rec, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Store) Put(ctx context.Context, collection string, rec store.Record) error {
	id := store.RecordID(rec)
	if id == "" {
		return store.ErrNotFound
	}
	return s.do(ctx, http.MethodPut, recordPath(collection, id), rec, nil)
}

func (s *Store) Remove(ctx context.Context, collection, id string) error {
	return s.do(ctx, http.MethodDelete, recordPath(collection, id), nil, nil)
}

func (s *Store) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.Endpoint+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return store.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return store.ErrDuplicateID
	case resp.StatusCode >= 400:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func recordPath(collection, id string) string {
	return "/collections/" + url.PathEscape(collection) + "/" + url.PathEscape(id)
}

var _ store.Store = (*Store)(nil)
