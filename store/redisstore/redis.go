// Package redisstore backs the record store with Redis: one JSON-encoded
// record per node key, a set per path tracking its children, and pub/sub
// fan-out for continuous listeners.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lugamandu/backend/store"
)

type Store struct {
	client *redis.Client
	keys   *store.KeyGenerator
	logger *zap.Logger
}

func New(client *redis.Client, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		keys:   store.NewKeyGenerator(),
		logger: logger,
	}
}

// NewClient connects to Redis from a URL and verifies the connection.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func nodeKey(path string) string     { return "node:" + path }
func childrenKey(path string) string { return "children:" + path }
func channel(path string) string     { return "watch:" + path }

func (s *Store) GenerateKey() string { return s.keys.Next() }

func (s *Store) Write(ctx context.Context, path string, record map[string]any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, nodeKey(path), data, 0)
	if parent := store.ParentOf(path); parent != "" {
		pipe.SAdd(ctx, childrenKey(parent), path[len(parent)+1:])
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	s.publish(ctx, path)
	return nil
}

func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	// Read-merge-write; racing writers are last-write-wins by contract.
	record, err := s.readNode(ctx, path)
	if err != nil {
		return err
	}
	if record == nil {
		record = make(map[string]any)
	}
	for k, v := range fields {
		record[k] = v
	}
	return s.Write(ctx, path, record)
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if err := s.deleteTree(ctx, path); err != nil {
		return err
	}
	if parent := store.ParentOf(path); parent != "" {
		if err := s.client.SRem(ctx, childrenKey(parent), path[len(parent)+1:]).Err(); err != nil {
			return err
		}
	}
	s.publish(ctx, path)
	return nil
}

func (s *Store) deleteTree(ctx context.Context, path string) error {
	children, err := s.client.SMembers(ctx, childrenKey(path)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	for _, child := range children {
		if err := s.deleteTree(ctx, path+"/"+child); err != nil {
			return err
		}
	}
	return s.client.Del(ctx, nodeKey(path), childrenKey(path)).Err()
}

func (s *Store) Get(ctx context.Context, path string) (map[string]any, error) {
	return s.readNode(ctx, path)
}

func (s *Store) Once(ctx context.Context, path string) (store.Snapshot, error) {
	children, err := s.client.SMembers(ctx, childrenKey(path)).Result()
	if err != nil && err != redis.Nil {
		return store.Snapshot{}, err
	}
	sort.Strings(children)

	var snap store.Snapshot
	for _, key := range children {
		record, err := s.readNode(ctx, path+"/"+key)
		if err != nil {
			return store.Snapshot{}, err
		}
		if record == nil {
			continue
		}
		snap.Children = append(snap.Children, store.Child{Key: key, Record: record})
	}
	return snap, nil
}

func (s *Store) QueryEqual(ctx context.Context, path, field, value string) (store.Snapshot, error) {
	// No server-side index; children are fetched and filtered here.
	snap, err := s.Once(ctx, path)
	if err != nil {
		return store.Snapshot{}, err
	}
	var out store.Snapshot
	for _, c := range snap.Children {
		if v, ok := c.Record[field].(string); ok && v == value {
			out.Children = append(out.Children, c)
		}
	}
	return out, nil
}

func (s *Store) Subscribe(ctx context.Context, path string) (<-chan store.Snapshot, func(), error) {
	pubsub := s.client.Subscribe(ctx, channel(path))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan store.Snapshot, 1)
	done := make(chan struct{})

	push := func(snap store.Snapshot) {
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

	first, err := s.Once(ctx, path)
	if err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}
	push(first)

	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				snap, err := s.Once(ctx, path)
				if err != nil {
					s.logger.Warn("redis store: snapshot re-read failed",
						zap.String("path", path), zap.Error(err))
					continue
				}
				push(snap)
			}
		}
	}()

	cancel := func() {
		close(done)
		_ = pubsub.Close()
	}
	return out, cancel, nil
}

func (s *Store) Close(context.Context) error {
	return s.client.Close()
}

// publish pings the mutated path and every ancestor so listeners at any
// level re-read.
func (s *Store) publish(ctx context.Context, path string) {
	for p := path; p != ""; p = store.ParentOf(p) {
		if err := s.client.Publish(ctx, channel(p), "1").Err(); err != nil {
			s.logger.Warn("redis store: publish failed", zap.String("path", p), zap.Error(err))
			return
		}
	}
}

func (s *Store) readNode(ctx context.Context, path string) (map[string]any, error) {
	data, err := s.client.Get(ctx, nodeKey(path)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, err
	}
	return record, nil
}
