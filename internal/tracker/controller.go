// Package tracker implements the per-feature reconciliation engine between
// the local store and the remote document store. One generic controller is
// instantiated per feature; all of them share the same lifecycle:
//
//	Uninitialized -> Anonymous/Local            (identity settles to "none")
//	Uninitialized -> Migrating -> Remote/Live   (identity settles to "present")
//	Remote/Live   -> Anonymous/Local            (logout while mounted)
//	any           -> Terminated                 (teardown)
//
// The one-shot local-to-remote migration is always sequenced strictly before
// the live subscription is established, so the subscription's first snapshot
// can never race ahead of migrated data and be misread as an empty account.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/internal/dateutil"
	"github.com/afdhal/swalath-backend-service/internal/stores"
)

type State int

const (
	StateUninitialized State = iota
	StateLocal
	StateMigrating
	StateLive
	StateTerminated
)

// ErrNotReady is returned by writes that arrive before the controller has
// settled into a backing store, or after teardown.
var ErrNotReady = errors.New("tracker: controller not ready")

// DayFeature describes a feature whose record is a per-day singleton
// document.
type DayFeature[T any] struct {
	// Key is the remote collection segment: users/<uid>/<Key>/<date>.
	Key string

	// LocalPrefix is prepended to the day id to form the local store key.
	LocalPrefix string

	Default func() T

	// Normalize, when set, is applied to every record before it is stored or
	// exposed.
	Normalize func(*T)
}

// DayController reconciles one per-day feature between the two stores.
type DayController[T any] struct {
	feature DayFeature[T]
	local   stores.LocalStore
	remote  stores.RemoteStore
	now     func() time.Time

	mu          sync.Mutex
	state       State
	identity    Identity
	record      T
	ready       bool
	migrated    bool
	unsubscribe func()
	watchers    map[int]func()
	nextWatcher int
}

func NewDayController[T any](feature DayFeature[T], local stores.LocalStore, remote stores.RemoteStore) *DayController[T] {
	return &DayController[T]{
		feature:  feature,
		local:    local,
		remote:   remote,
		now:      time.Now,
		watchers: make(map[int]func()),
	}
}

func (c *DayController[T]) today() string {
	return dateutil.DayID(c.now())
}

func (c *DayController[T]) localKey(date string) string {
	return c.feature.LocalPrefix + date
}

func (c *DayController[T]) remotePath(uid, date string) string {
	return fmt.Sprintf("users/%s/%s/%s", uid, c.feature.Key, date)
}

// Resolve re-runs the initialization transition for the given identity. It is
// a no-op while the identity is still loading, and when the identity's
// presence has not changed since the controller last settled.
func (c *DayController[T]) Resolve(ctx context.Context, identity Identity) {
	c.mu.Lock()
	if c.state == StateTerminated || identity.Loading {
		c.mu.Unlock()
		return
	}

	if c.ready && c.identity.UID == identity.UID {
		c.mu.Unlock()
		return
	}

	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.identity = identity
	c.ready = false
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	if !identity.Present() {
		c.resolveLocal()
		return
	}

	c.mu.Lock()
	c.state = StateMigrating
	c.mu.Unlock()

	c.migrate(ctx, identity.UID)
	c.subscribe(ctx, identity.UID)
}

func (c *DayController[T]) resolveLocal() {
	record := c.feature.Default()
	if data, err := c.local.Read(c.localKey(c.today())); err == nil {
		if err := json.Unmarshal(data, &record); err != nil {
			log.Error().Err(err).Str("feature", c.feature.Key).Msg("corrupt local record, using defaults")
			record = c.feature.Default()
		}
	}

	if c.feature.Normalize != nil {
		c.feature.Normalize(&record)
	}

	c.mu.Lock()
	c.state = StateLocal
	c.record = record
	c.ready = true
	c.mu.Unlock()
	c.notify()
}

// migrate copies every un-migrated local record for this feature into the
// remote store with one best-effort batch write, then clears the local keys.
// It runs at most once per controller lifetime and is not retried on failure
// beyond the store's own attempts; a failed migration leaves local data in
// place and is logged.
func (c *DayController[T]) migrate(ctx context.Context, uid string) {
	c.mu.Lock()
	if c.migrated {
		c.mu.Unlock()
		return
	}
	c.migrated = true
	c.mu.Unlock()

	keys, err := c.local.Keys(c.feature.LocalPrefix)
	if err != nil || len(keys) == 0 {
		return
	}

	existing := make(map[string]struct{})
	docs, err := c.remote.List(ctx, fmt.Sprintf("users/%s/%s", uid, c.feature.Key))
	if err != nil {
		log.Error().Err(err).Str("feature", c.feature.Key).Msg("failed to list remote records, skipping migration")
		return
	}

	for _, doc := range docs {
		existing[doc.Path] = struct{}{}
	}

	var pending []stores.Document
	for _, key := range keys {
		date := strings.TrimPrefix(key, c.feature.LocalPrefix)
		if !dateutil.IsDayID(date) {
			continue
		}

		path := c.remotePath(uid, date)
		if _, found := existing[path]; found {
			continue
		}

		data, err := c.local.Read(key)
		if err != nil {
			continue
		}

		var record T
		if err := json.Unmarshal(data, &record); err != nil {
			log.Error().Err(err).Str("key", key).Msg("corrupt local record, not migrating")
			continue
		}

		pending = append(pending, stores.Document{Path: path, Data: data})
	}

	if len(pending) > 0 {
		if err := c.remote.BatchUpsert(ctx, pending); err != nil {
			log.Error().Err(err).Str("feature", c.feature.Key).Msg("failed to migrate local records")
			return
		}
	}

	for _, key := range keys {
		c.local.Remove(key)
	}
}

func (c *DayController[T]) subscribe(ctx context.Context, uid string) {
	path := c.remotePath(uid, c.today())
	unsubscribe, err := c.remote.Subscribe(ctx, path, func(event stores.Event) {
		c.applyRemote(event)
	})

	c.mu.Lock()
	c.state = StateLive
	if err != nil {
		// A broken subscription must never wedge initialization: surface the
		// defaults and stay writable.
		log.Error().Err(err).Str("feature", c.feature.Key).Msg("remote subscription failed")
		c.record = c.feature.Default()
		c.ready = true
		c.mu.Unlock()
		c.notify()
		return
	}

	c.unsubscribe = unsubscribe
	c.mu.Unlock()
}

// applyRemote folds one subscription event into the read model. Remote
// absence is authoritative once an identity exists: a missing document yields
// the feature defaults, never stale local data.
func (c *DayController[T]) applyRemote(event stores.Event) {
	record := c.feature.Default()
	if !event.Deleted {
		if err := json.Unmarshal(event.Data, &record); err != nil {
			log.Error().Err(err).Str("path", event.Path).Msg("malformed remote record, using defaults")
			record = c.feature.Default()
		}
	}

	if c.feature.Normalize != nil {
		c.feature.Normalize(&record)
	}

	c.mu.Lock()
	if c.state == StateTerminated {
		c.mu.Unlock()
		return
	}

	c.record = record
	c.ready = true
	c.mu.Unlock()
	c.notify()
}

// Current returns the record for today. The boolean is false only while the
// controller has not yet settled into a backing store.
func (c *DayController[T]) Current() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.record, c.ready
}

func (c *DayController[T]) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ready
}

func (c *DayController[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Update writes the record through to whichever store is currently
// authoritative. The in-memory read model is updated first so readers see the
// change immediately; if the write fails the optimistic state is kept (no
// rollback) and the error is returned.
func (c *DayController[T]) Update(ctx context.Context, record T) error {
	if c.feature.Normalize != nil {
		c.feature.Normalize(&record)
	}

	c.mu.Lock()
	if !c.ready || c.state == StateTerminated {
		c.mu.Unlock()
		return ErrNotReady
	}

	state := c.state
	uid := c.identity.UID
	c.record = record
	c.mu.Unlock()
	c.notify()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	date := c.today()
	if state == StateLive {
		return c.remote.Upsert(ctx, c.remotePath(uid, date), data)
	}

	return c.local.Write(c.localKey(date), data)
}

// OnChange registers a callback fired after every read-model change. The
// returned func removes the registration.
func (c *DayController[T]) OnChange(fn func()) func() {
	c.mu.Lock()
	id := c.nextWatcher
	c.nextWatcher++
	c.watchers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

func (c *DayController[T]) notify() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.watchers))
	for _, fn := range c.watchers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Close tears the controller down. The active subscription, if any, is
// released exactly once; in-flight writes are left to finish on their own.
func (c *DayController[T]) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.state = StateTerminated
	c.ready = false
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
