// Package mongostore backs the record store with a single MongoDB collection
// of path-keyed node documents. Continuous listeners are interval polls; the
// deployment target does not assume a replica set, so change streams are not
// used.
package mongostore

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/lugamandu/backend/store"
)

type node struct {
	ID     string `bson:"_id"`
	Parent string `bson:"parent"`
	Record bson.M `bson:"record"`
}

type Store struct {
	client       *mongo.Client
	collection   *mongo.Collection
	keys         *store.KeyGenerator
	pollInterval time.Duration
	logger       *zap.Logger
}

func New(client *mongo.Client, dbName string, pollInterval time.Duration, logger *zap.Logger) *Store {
	return &Store{
		client:       client,
		collection:   client.Database(dbName).Collection("nodes"),
		keys:         store.NewKeyGenerator(),
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Connect dials MongoDB and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func (s *Store) GenerateKey() string { return s.keys.Next() }

func (s *Store) Write(ctx context.Context, path string, record map[string]any) error {
	doc := node{ID: path, Parent: store.ParentOf(path), Record: bson.M(record)}
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": path}, doc, opts)
	return err
}

func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	set := bson.M{"parent": store.ParentOf(path)}
	for k, v := range fields {
		set["record."+k] = v
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": path}, bson.M{"$set": set}, opts)
	return err
}

func (s *Store) Delete(ctx context.Context, path string) error {
	subtree := bson.M{"_id": bson.M{"$regex": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(path+"/")}}}
	if _, err := s.collection.DeleteMany(ctx, subtree); err != nil {
		return err
	}
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": path})
	return err
}

func (s *Store) Get(ctx context.Context, path string) (map[string]any, error) {
	var n node
	err := s.collection.FindOne(ctx, bson.M{"_id": path}).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return normalize(map[string]any(n.Record)), nil
}

func (s *Store) Once(ctx context.Context, path string) (store.Snapshot, error) {
	return s.find(ctx, bson.M{"parent": path}, path)
}

func (s *Store) QueryEqual(ctx context.Context, path, field, value string) (store.Snapshot, error) {
	return s.find(ctx, bson.M{"parent": path, "record." + field: value}, path)
}

func (s *Store) find(ctx context.Context, filter bson.M, path string) (store.Snapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return store.Snapshot{}, err
	}
	defer cursor.Close(ctx)

	var snap store.Snapshot
	for cursor.Next(ctx) {
		var n node
		if err := cursor.Decode(&n); err != nil {
			continue
		}
		snap.Children = append(snap.Children, store.Child{
			Key:    n.ID[len(path)+1:],
			Record: normalize(map[string]any(n.Record)),
		})
	}
	return snap, cursor.Err()
}

func (s *Store) Subscribe(ctx context.Context, path string) (<-chan store.Snapshot, func(), error) {
	first, err := s.Once(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan store.Snapshot, 1)
	done := make(chan struct{})
	out <- first

	go func() {
		defer close(out)
		last := first
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap, err := s.Once(ctx, path)
				if err != nil {
					s.logger.Warn("mongo store: poll failed", zap.String("path", path), zap.Error(err))
					continue
				}
				if reflect.DeepEqual(snap, last) {
					continue
				}
				last = snap
				select {
				case out <- snap:
				default:
					select {
					case <-out:
					default:
					}
					out <- snap
				}
			}
		}
	}()

	cancel := func() { close(done) }
	return out, cancel, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// normalize rewrites bson container types into the plain map/slice forms the
// model converters expect.
func normalize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return normalize(map[string]any(t))
	case map[string]any:
		return normalize(t)
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case int32:
		return int(t)
	default:
		return v
	}
}
