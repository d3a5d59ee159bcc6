// Package memory is an in-process store driver used by tests and local runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/lugamandu/backend/store"
)

type subscriber struct {
	path string
	ch   chan store.Snapshot
}

type Store struct {
	keys *store.KeyGenerator

	mu     sync.RWMutex
	nodes  map[string]map[string]any
	subs   map[int]*subscriber
	nextID int
}

func New() *Store {
	return &Store{
		keys:  store.NewKeyGenerator(),
		nodes: make(map[string]map[string]any),
		subs:  make(map[int]*subscriber),
	}
}

func (s *Store) GenerateKey() string { return s.keys.Next() }

func (s *Store) Write(_ context.Context, path string, record map[string]any) error {
	s.mu.Lock()
	s.nodes[path] = copyRecord(record)
	s.mu.Unlock()
	s.notify(path)
	return nil
}

func (s *Store) Update(_ context.Context, path string, fields map[string]any) error {
	s.mu.Lock()
	node, ok := s.nodes[path]
	if !ok {
		node = make(map[string]any)
		s.nodes[path] = node
	}
	for k, v := range copyRecord(fields) {
		node[k] = v
	}
	s.mu.Unlock()
	s.notify(path)
	return nil
}

func (s *Store) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	delete(s.nodes, path)
	prefix := path + "/"
	for p := range s.nodes {
		if strings.HasPrefix(p, prefix) {
			delete(s.nodes, p)
		}
	}
	s.mu.Unlock()
	s.notify(path)
	return nil
}

func (s *Store) Get(_ context.Context, path string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[path]
	if !ok {
		return nil, nil
	}
	return copyRecord(node), nil
}

func (s *Store) Once(_ context.Context, path string) (store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(path), nil
}

func (s *Store) QueryEqual(_ context.Context, path, field, value string) (store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snapshotLocked(path)
	var out store.Snapshot
	for _, c := range snap.Children {
		if v, ok := c.Record[field].(string); ok && v == value {
			out.Children = append(out.Children, c)
		}
	}
	return out, nil
}

func (s *Store) Subscribe(_ context.Context, path string) (<-chan store.Snapshot, func(), error) {
	sub := &subscriber{path: path, ch: make(chan store.Snapshot, 1)}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	sub.ch <- s.snapshotLocked(path)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
	return sub.ch, cancel, nil
}

func (s *Store) Close(context.Context) error { return nil }

// snapshotLocked materializes the direct children of path.
func (s *Store) snapshotLocked(path string) store.Snapshot {
	prefix := path + "/"
	var keys []string
	for p := range s.nodes {
		rest, ok := strings.CutPrefix(p, prefix)
		if ok && !strings.Contains(rest, "/") {
			keys = append(keys, rest)
		}
	}
	sort.Strings(keys)

	var snap store.Snapshot
	for _, k := range keys {
		snap.Children = append(snap.Children, store.Child{
			Key:    k,
			Record: copyRecord(s.nodes[prefix+k]),
		})
	}
	return snap
}

// notify pushes fresh snapshots to every subscriber watching an ancestor of
// the mutated path. Slow consumers get coalesced: the stale pending snapshot
// is replaced by the newest one. Sends happen under the exclusive lock so a
// drain-then-send on the 1-buffered channel cannot block.
func (s *Store) notify(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if path != sub.path && !strings.HasPrefix(path, sub.path+"/") {
			continue
		}
		snap := s.snapshotLocked(sub.path)
		select {
		case sub.ch <- snap:
		default:
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- snap
		}
	}
}

func copyRecord(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyRecord(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
