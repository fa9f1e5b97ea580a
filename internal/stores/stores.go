// Package stores holds the two persistence layers the trackers reconcile
// between: a synchronous, origin-scoped local key-value store and a per-user
// remote document store with live subscriptions. Both come with a memory
// backend used as the test double.
package stores

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means no value exists for the key or path.
	ErrNotFound = errors.New("stores: not found")

	// ErrCorrupt means a stored value exists but cannot be decoded. Callers
	// treat it like absence and fall back to defaults.
	ErrCorrupt = errors.New("stores: corrupt value")

	// ErrUnavailable means the backing storage could not be reached.
	ErrUnavailable = errors.New("stores: unavailable")

	// ErrAlreadyExists is returned by Insert when the path is taken.
	ErrAlreadyExists = errors.New("stores: already exists")
)

// LocalStore is the anonymous/offline persistence layer. Operations are
// synchronous and failures degrade silently: a failed read is reported as
// ErrNotFound-equivalent by callers, never as a blocking error.
type LocalStore interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
	Remove(key string) error
	Keys(prefix string) ([]string, error)
}

// Document is one remote document with its full path, e.g.
// users/<uid>/entries/2024-03-10.
type Document struct {
	Path string
	Data []byte
}

// Event is one change pushed to a subscription. Deleted marks document
// removal; a subscription's initial snapshot uses Deleted to signal absence.
type Event struct {
	Path    string
	Data    []byte
	Deleted bool
}

// RemoteStore is the authoritative per-user document store, reachable only
// once an identity is present. Subscribe delivers the current state of every
// document under the prefix synchronously before returning, then pushes
// subsequent changes until the returned unsubscribe func is called.
type RemoteStore interface {
	Get(ctx context.Context, path string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]Document, error)
	Insert(ctx context.Context, path string, data []byte) error
	Upsert(ctx context.Context, path string, data []byte) error
	BatchUpsert(ctx context.Context, docs []Document) error
	Delete(ctx context.Context, path string) error
	Subscribe(ctx context.Context, prefix string, onChange func(Event)) (func(), error)
}
