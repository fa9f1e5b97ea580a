package tracker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/internal/dateutil"
	"github.com/afdhal/swalath-backend-service/internal/stores"
)

// LogFeature describes a feature whose record is a keyed collection of
// entries rather than a per-day singleton. Anonymous sessions persist the
// whole collection under one local key; authenticated sessions keep one
// remote document per entry.
type LogFeature[T any] struct {
	// Key is the remote collection segment: users/<uid>/<Key>/<id>.
	Key string

	// LocalKey holds the JSON-encoded entry list for anonymous sessions.
	LocalKey string

	// ID extracts an entry's day identifier.
	ID func(T) string
}

// LogController reconciles an entry collection between the two stores. It
// also owns the selection slot used by the editing UI: deleting the selected
// entry clears the selection.
type LogController[T any] struct {
	feature LogFeature[T]
	local   stores.LocalStore
	remote  stores.RemoteStore
	now     func() time.Time

	mu          sync.Mutex
	state       State
	identity    Identity
	entries     map[string]T
	selected    string
	ready       bool
	migrated    bool
	unsubscribe func()
	watchers    map[int]func()
	nextWatcher int
}

func NewLogController[T any](feature LogFeature[T], local stores.LocalStore, remote stores.RemoteStore) *LogController[T] {
	return &LogController[T]{
		feature:  feature,
		local:    local,
		remote:   remote,
		now:      time.Now,
		entries:  make(map[string]T),
		watchers: make(map[int]func()),
	}
}

func (c *LogController[T]) collectionPath(uid string) string {
	return fmt.Sprintf("users/%s/%s", uid, c.feature.Key)
}

func (c *LogController[T]) entryPath(uid, id string) string {
	return fmt.Sprintf("users/%s/%s/%s", uid, c.feature.Key, id)
}

// Resolve re-runs the initialization transition. Same gating rules as
// DayController.Resolve.
func (c *LogController[T]) Resolve(ctx context.Context, identity Identity) {
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
		entries := c.readLocal()
		c.mu.Lock()
		c.state = StateLocal
		c.entries = entries
		c.ready = true
		c.mu.Unlock()
		c.notify()
		return
	}

	c.mu.Lock()
	c.state = StateMigrating
	c.entries = make(map[string]T)
	c.mu.Unlock()

	c.migrate(ctx, identity.UID)
	c.subscribe(ctx, identity.UID)
}

func (c *LogController[T]) readLocal() map[string]T {
	entries := make(map[string]T)
	data, err := c.local.Read(c.feature.LocalKey)
	if err != nil {
		return entries
	}

	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		log.Error().Err(err).Str("feature", c.feature.Key).Msg("corrupt local collection, using empty log")
		return entries
	}

	for _, entry := range list {
		entries[c.feature.ID(entry)] = entry
	}

	return entries
}

func (c *LogController[T]) writeLocal() error {
	c.mu.Lock()
	list := make([]T, 0, len(c.entries))
	for _, entry := range c.entries {
		list = append(list, entry)
	}
	c.mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return c.feature.ID(list[i]) < c.feature.ID(list[j]) })

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal local collection: %w", err)
	}

	return c.local.Write(c.feature.LocalKey, data)
}

// migrate copies the anonymous local collection into the remote store,
// skipping entries the remote already holds, then clears the local key. Runs
// at most once per controller lifetime; failure keeps the local data.
func (c *LogController[T]) migrate(ctx context.Context, uid string) {
	c.mu.Lock()
	if c.migrated {
		c.mu.Unlock()
		return
	}
	c.migrated = true
	c.mu.Unlock()

	localEntries := c.readLocal()
	if len(localEntries) == 0 {
		return
	}

	existing := make(map[string]struct{})
	docs, err := c.remote.List(ctx, c.collectionPath(uid))
	if err != nil {
		log.Error().Err(err).Str("feature", c.feature.Key).Msg("failed to list remote entries, skipping migration")
		return
	}

	for _, doc := range docs {
		existing[doc.Path] = struct{}{}
	}

	var pending []stores.Document
	for id, entry := range localEntries {
		path := c.entryPath(uid, id)
		if _, found := existing[path]; found {
			continue
		}

		data, err := json.Marshal(entry)
		if err != nil {
			continue
		}

		pending = append(pending, stores.Document{Path: path, Data: data})
	}

	if len(pending) > 0 {
		if err := c.remote.BatchUpsert(ctx, pending); err != nil {
			log.Error().Err(err).Str("feature", c.feature.Key).Msg("failed to migrate local entries")
			return
		}
	}

	c.local.Remove(c.feature.LocalKey)
}

func (c *LogController[T]) subscribe(ctx context.Context, uid string) {
	prefix := c.collectionPath(uid)
	unsubscribe, err := c.remote.Subscribe(ctx, prefix, func(event stores.Event) {
		c.applyRemote(prefix, event)
	})

	c.mu.Lock()
	c.state = StateLive
	if err != nil {
		log.Error().Err(err).Str("feature", c.feature.Key).Msg("remote subscription failed")
		c.ready = true
		c.mu.Unlock()
		c.notify()
		return
	}

	c.unsubscribe = unsubscribe
	c.ready = true
	c.mu.Unlock()
	c.notify()
}

func (c *LogController[T]) applyRemote(prefix string, event stores.Event) {
	// The empty-collection marker carries the prefix itself; there is no
	// entry to fold in.
	if event.Path == prefix {
		return
	}

	id := strings.TrimPrefix(event.Path, prefix+"/")

	c.mu.Lock()
	if c.state == StateTerminated {
		c.mu.Unlock()
		return
	}

	if event.Deleted {
		delete(c.entries, id)
		if c.selected == id {
			c.selected = ""
		}
		c.mu.Unlock()
		c.notify()
		return
	}

	var entry T
	if err := json.Unmarshal(event.Data, &entry); err != nil {
		log.Error().Err(err).Str("path", event.Path).Msg("malformed remote entry, ignoring")
		c.mu.Unlock()
		return
	}

	c.entries[id] = entry
	c.mu.Unlock()
	c.notify()
}

// Entries returns a copy of the collection, unsorted. Callers order it
// through the aggregate helpers.
func (c *LogController[T]) Entries() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := make([]T, 0, len(c.entries))
	for _, entry := range c.entries {
		list = append(list, entry)
	}

	return list
}

// Entry returns one entry by day identifier.
func (c *LogController[T]) Entry(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[id]
	return entry, exists
}

func (c *LogController[T]) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ready
}

func (c *LogController[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Upsert adds or replaces one entry, writing through to the authoritative
// store. The read model is updated optimistically.
func (c *LogController[T]) Upsert(ctx context.Context, entry T) error {
	id := c.feature.ID(entry)

	c.mu.Lock()
	if !c.ready || c.state == StateTerminated {
		c.mu.Unlock()
		return ErrNotReady
	}

	state := c.state
	uid := c.identity.UID
	c.entries[id] = entry
	c.mu.Unlock()
	c.notify()

	if state == StateLive {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}

		return c.remote.Upsert(ctx, c.entryPath(uid, id), data)
	}

	return c.writeLocal()
}

// Delete removes one entry by day identifier and clears the selection if it
// pointed at the removed entry.
func (c *LogController[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if !c.ready || c.state == StateTerminated {
		c.mu.Unlock()
		return ErrNotReady
	}

	state := c.state
	uid := c.identity.UID
	delete(c.entries, id)
	if c.selected == id {
		c.selected = ""
	}
	c.mu.Unlock()
	c.notify()

	if state == StateLive {
		return c.remote.Delete(ctx, c.entryPath(uid, id))
	}

	return c.writeLocal()
}

// Select marks an entry as the one being edited. An empty id resets the
// selection to today.
func (c *LogController[T]) Select(id string) {
	c.mu.Lock()
	c.selected = id
	c.mu.Unlock()
}

// Selected returns the entry in the editing slot, falling back to today's
// entry when nothing is explicitly selected.
func (c *LogController[T]) Selected() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[c.selectedLocked()]
	return entry, exists
}

// SelectedID returns the effective editing slot id, today's when unset.
func (c *LogController[T]) SelectedID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selectedLocked()
}

func (c *LogController[T]) selectedLocked() string {
	if c.selected == "" {
		return dateutil.DayID(c.now())
	}

	return c.selected
}

func (c *LogController[T]) OnChange(fn func()) func() {
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

func (c *LogController[T]) notify() {
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

func (c *LogController[T]) Close() {
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
