// Package mongostore implements the keyed store over a MongoDB
// database, one collection per collection name.
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/store"
)

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Connect dials the given Mongo deployment and returns a store over the
// named database.
func Connect(uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return New(client.Database(database)), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func (s *Store) Query(ctx context.Context, collection string, filter store.Filter) ([]store.Record, error) {
	match := bson.M{}
	for k, v := range filter {
		match[k] = v
	}
	cursor, err := s.db.Collection(collection).Find(ctx, match)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []store.Record
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, fromDocument(doc))
	}
	return out, cursor.Err()
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Record, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromDocument(doc), nil
}

func (s *Store) Post(ctx context.Context, collection string, rec store.Record) (store.Record, error) {
	rec = store.Clone(rec)
	id := store.EnsureID(rec)
	if _, err := s.db.Collection(collection).InsertOne(ctx, toDocument(id, rec)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrDuplicateID
		}
		return nil, err
	}
	return rec, nil
}

func (s *Store) Put(ctx context.Context, collection string, rec store.Record) error {
	id := store.RecordID(rec)
	if id == "" {
		return store.ErrNotFound
	}
	res, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, toDocument(id, rec))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Records key on "id"; documents key on "_id" so Mongo's primary index
// backs duplicate detection.
func toDocument(id string, rec store.Record) bson.M {
	doc := bson.M{"_id": id}
	for k, v := range rec {
		if k == store.IDKey {
			continue
		}
		doc[k] = v
	}
	return doc
}

func fromDocument(doc bson.M) store.Record {
	rec := make(store.Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			rec[store.IDKey] = normalizeValue(v)
			continue
		}
		rec[k] = normalizeValue(v)
	}
	return rec
}

// normalizeValue strips driver container types from decoded values so
// records leaving this backend look the same as from any other medium.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, elem := range val {
			out[elem.Key] = normalizeValue(elem.Value)
		}
		return out
	}
	return v
}

var _ store.Store = (*Store)(nil)
