// Package store defines the narrow interface the repositories use to talk to
// the hierarchical record store, plus the drivers that implement it.
package store

import "context"

// Child is one materialized child record of a path.
type Child struct {
	Key    string
	Record map[string]any
}

// Snapshot is a point-in-time view of a path's children.
type Snapshot struct {
	Children []Child
}

// Client is the record store contract. Paths are slash-separated
// ("orders/<id>", "carts/<userId>/<cartItemId>"); records are flat key-value
// maps, with nested lists allowed as values.
//
// Delete is idempotent: removing an absent path succeeds. Concurrent writers
// racing on the same record are not coordinated; last write wins.
type Client interface {
	// GenerateKey returns a fresh push key: globally unique and
	// lexicographically ordered by generation time.
	GenerateKey() string

	// Write stores the full record at path, replacing any previous value.
	Write(ctx context.Context, path string, record map[string]any) error

	// Update merges the given fields into the record at path, leaving
	// other fields untouched.
	Update(ctx context.Context, path string, fields map[string]any) error

	// Delete removes the record at path and everything beneath it.
	Delete(ctx context.Context, path string) error

	// Get reads the single record at path; a missing record yields a nil
	// map and no error.
	Get(ctx context.Context, path string) (map[string]any, error)

	// Once reads the children of path a single time.
	Once(ctx context.Context, path string) (Snapshot, error)

	// Subscribe delivers a snapshot of path's children on every change
	// until the cancel func is called. Snapshots may be coalesced under
	// write pressure; each delivered snapshot is internally consistent.
	Subscribe(ctx context.Context, path string) (<-chan Snapshot, func(), error)

	// QueryEqual reads the children of path whose record field equals
	// value.
	QueryEqual(ctx context.Context, path, field, value string) (Snapshot, error)

	Close(ctx context.Context) error
}

// ParentOf returns the parent path of p, or "" for a top-level path.
func ParentOf(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[:i]
		}
	}
	return ""
}
