package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestMemoryLocal(t *testing.T) {
	local := NewMemoryLocal()

	if _, err := local.Read("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}

	if err := local.Write("prayer-tracker-data-2026-08-30", []byte("a")); err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	if err := local.Write("prayer-tracker-data-2026-08-29", []byte("b")); err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	if err := local.Write("dua-tracker-data-2026-08-30", []byte("c")); err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	keys, err := local.Keys("prayer-tracker-data-")
	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	expected := []string{"prayer-tracker-data-2026-08-29", "prayer-tracker-data-2026-08-30"}
	if diff := cmp.Diff(expected, keys); diff != "" {
		t.Error(diff)
	}

	if err := local.Remove("prayer-tracker-data-2026-08-30"); err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	if _, err := local.Read("prayer-tracker-data-2026-08-30"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestMemoryRemoteInsert(t *testing.T) {
	ctx := context.TODO()
	remote := NewMemoryRemote()

	if err := remote.Insert(ctx, "emails/a@example.com", []byte(`{"userId": "1"}`)); err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	err := remote.Insert(ctx, "emails/a@example.com", []byte(`{"userId": "2"}`))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got: %v", err)
	}
}

func TestMemoryRemoteUpsertMerges(t *testing.T) {
	ctx := context.TODO()
	remote := NewMemoryRemote()

	if err := remote.Upsert(ctx, "users/1", []byte(`{"name": "User", "quranGoal": 3}`)); err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	// A later upsert only overwrites the fields it carries.
	if err := remote.Upsert(ctx, "users/1", []byte(`{"quranGoal": 7}`)); err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	data, err := remote.Get(ctx, "users/1")
	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	var profile struct {
		Name      string `json:"name"`
		QuranGoal int    `json:"quranGoal"`
	}

	if err := json.Unmarshal(data, &profile); err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	if profile.Name != "User" || profile.QuranGoal != 7 {
		t.Fatalf("unexpected merged document: %+v", profile)
	}
}

func TestSubscribeSingleDocument(t *testing.T) {
	ctx := context.TODO()
	remote := NewMemoryRemote()
	remote.Upsert(ctx, "users/1/duas/2026-08-30", []byte(`{"dhuha": true}`))

	var events []Event
	unsubscribe, err := remote.Subscribe(ctx, "users/1/duas/2026-08-30", func(event Event) {
		events = append(events, event)
	})

	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}
	defer unsubscribe()

	// The initial snapshot is delivered synchronously.
	if len(events) != 1 || events[0].Deleted {
		t.Fatalf("unexpected initial snapshot: %+v", events)
	}

	remote.Delete(ctx, "users/1/duas/2026-08-30")

	if len(events) != 2 || !events[1].Deleted {
		t.Fatalf("expected deletion event, got: %+v", events)
	}

	// After unsubscribing no further events arrive.
	unsubscribe()
	remote.Upsert(ctx, "users/1/duas/2026-08-30", []byte(`{"dhuha": false}`))

	if len(events) != 2 {
		t.Fatalf("expected no events after unsubscribe, got %d", len(events))
	}
}

func TestSubscribeCollection(t *testing.T) {
	ctx := context.TODO()
	remote := NewMemoryRemote()
	remote.Upsert(ctx, "users/1/entries/2026-08-29", []byte(`{"id": "2026-08-29"}`))
	remote.Upsert(ctx, "users/1/entries/2026-08-30", []byte(`{"id": "2026-08-30"}`))

	var paths []string
	unsubscribe, err := remote.Subscribe(ctx, "users/1/entries", func(event Event) {
		paths = append(paths, event.Path)
	})

	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}
	defer unsubscribe()

	expected := []string{"users/1/entries/2026-08-29", "users/1/entries/2026-08-30"}
	if diff := cmp.Diff(expected, paths); diff != "" {
		t.Error(diff)
	}

	// A sibling collection's writes must not leak into this subscription.
	remote.Upsert(ctx, "users/1/entries-archive/2026-08-30", []byte(`{}`))

	if len(paths) != 2 {
		t.Fatalf("expected no event for sibling prefix, got %d", len(paths))
	}
}

func TestSubscribeEmptyCollection(t *testing.T) {
	ctx := context.TODO()
	remote := NewMemoryRemote()

	var events []Event
	unsubscribe, err := remote.Subscribe(ctx, "users/1/entries", func(event Event) {
		events = append(events, event)
	})

	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}
	defer unsubscribe()

	// Absence is reported explicitly so subscribers can settle immediately.
	if len(events) != 1 || !events[0].Deleted || events[0].Path != "users/1/entries" {
		t.Fatalf("unexpected absence marker: %+v", events)
	}
}
