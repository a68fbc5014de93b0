// Package redisstore implements the keyed store over Redis, one hash
// per collection with JSON-encoded values.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"staybook/internal/store"
)

type Store struct {
	client *redis.Client
	prefix string
}

func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "staybook"
	}
	return &Store{client: client, prefix: prefix}
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redisstore: ping: %w", err)
	}
	return New(client, ""), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) key(collection string) string {
	return s.prefix + ":" + collection
}

// putScript replaces a field only if it already exists, so an update
// racing a Remove can never resurrect the deleted record.
var putScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
	redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
	return 1
end
return 0`)

func (s *Store) Query(ctx context.Context, collection string, filter store.Filter) ([]store.Record, error) {
	raw, err := s.client.HGetAll(ctx, s.key(collection)).Result()
	if err != nil {
		return nil, err
	}
	var out []store.Record
	for _, payload := range raw {
		rec, err := decode([]byte(payload))
		if err != nil {
			return nil, err
		}
		if store.Matches(rec, filter) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Record, error) {
	payload, err := s.client.HGet(ctx, s.key(collection), id).Result()
	if err == redis.Nil {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode([]byte(payload))
}

func (s *Store) Post(ctx context.Context, collection string, rec store.Record) (store.Record, error) {
	rec = store.Clone(rec)
	id := store.EnsureID(rec)
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	// HSETNX gives atomic duplicate detection.
	created, err := s.client.HSetNX(ctx, s.key(collection), id, payload).Result()
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, store.ErrDuplicateID
	}
	return rec, nil
}

func (s *Store) Put(ctx context.Context, collection string, rec store.Record) error {
	id := store.RecordID(rec)
	if id == "" {
		return store.ErrNotFound
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	replaced, err := putScript.Run(ctx, s.client, []string{s.key(collection)}, id, payload).Int()
	if err != nil {
		return err
	}
	if replaced == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, collection, id string) error {
	removed, err := s.client.HDel(ctx, s.key(collection), id).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return store.ErrNotFound
	}
	return nil
}

func decode(payload []byte) (store.Record, error) {
	var rec store.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("redisstore: corrupt record: %w", err)
	}
	return rec, nil
}

var _ store.Store = (*Store)(nil)
