package tracker

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/internal/stores"
)

const goalLocalKey = "quran-tracker-goal"

// Goal is the one cross-day setting: the Quran daily page goal. It lives in
// the per-user profile document when authenticated and under a dedicated
// local key when anonymous. Changing it never rewrites already-created daily
// records; it only seeds records created afterwards.
type Goal struct {
	local  stores.LocalStore
	remote stores.RemoteStore

	mu       sync.Mutex
	identity Identity
	pages    int
	ready    bool
	migrated bool
}

func NewGoal(local stores.LocalStore, remote stores.RemoteStore) *Goal {
	return &Goal{local: local, remote: remote}
}

func (g *Goal) profilePath(uid string) string {
	return "users/" + uid
}

func (g *Goal) readLocal() int {
	data, err := g.local.Read(goalLocalKey)
	if err != nil {
		return 0
	}

	pages, err := strconv.Atoi(string(data))
	if err != nil || pages < 0 {
		return 0
	}

	return pages
}

// Resolve loads the goal for the given identity, migrating a non-zero
// anonymous goal into an empty profile exactly once.
func (g *Goal) Resolve(ctx context.Context, identity Identity) {
	g.mu.Lock()
	if identity.Loading {
		g.mu.Unlock()
		return
	}

	if g.ready && g.identity.UID == identity.UID {
		g.mu.Unlock()
		return
	}

	g.identity = identity
	g.ready = false
	g.mu.Unlock()

	if !identity.Present() {
		pages := g.readLocal()
		g.mu.Lock()
		g.pages = pages
		g.ready = true
		g.mu.Unlock()
		return
	}

	pages := 0
	data, err := g.remote.Get(ctx, g.profilePath(identity.UID))
	if err == nil {
		var profile struct {
			QuranGoal int `json:"quranGoal"`
		}

		if err := json.Unmarshal(data, &profile); err == nil {
			pages = profile.QuranGoal
		}
	}

	g.mu.Lock()
	migrated := g.migrated
	g.migrated = true
	g.mu.Unlock()

	if !migrated && pages == 0 {
		if localPages := g.readLocal(); localPages > 0 {
			if err := g.writeProfile(ctx, identity.UID, localPages); err != nil {
				log.Error().Err(err).Msg("failed to migrate local quran goal")
			} else {
				pages = localPages
				g.local.Remove(goalLocalKey)
			}
		}
	}

	g.mu.Lock()
	g.pages = pages
	g.ready = true
	g.mu.Unlock()
}

func (g *Goal) writeProfile(ctx context.Context, uid string, pages int) error {
	doc, err := json.Marshal(map[string]int{"quranGoal": pages})
	if err != nil {
		return fmt.Errorf("failed to marshal profile goal: %w", err)
	}

	return g.remote.Upsert(ctx, g.profilePath(uid), doc)
}

// Pages returns the current goal. The boolean is false until Resolve has
// settled.
func (g *Goal) Pages() (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.pages, g.ready
}

// Set writes a new goal through to the authoritative location.
func (g *Goal) Set(ctx context.Context, pages int) error {
	g.mu.Lock()
	if !g.ready {
		g.mu.Unlock()
		return ErrNotReady
	}

	uid := g.identity.UID
	g.pages = pages
	g.mu.Unlock()

	if uid != "" {
		return g.writeProfile(ctx, uid, pages)
	}

	return g.local.Write(goalLocalKey, []byte(strconv.Itoa(pages)))
}
