package tracker

import (
	"context"
	"sync"

	"github.com/afdhal/swalath-backend-service/internal/dtos"
	"github.com/afdhal/swalath-backend-service/internal/stores"
)

// Session bundles one identity's controllers, one per feature, over a shared
// pair of stores.
type Session struct {
	Prayers *DayController[dtos.PrayerDay]
	Duas    *DayController[dtos.DuaDay]
	Quran   *DayController[dtos.QuranDay]
	Goal    *Goal
	Swalath *LogController[dtos.SwalathEntry]
}

func NewSession(local stores.LocalStore, remote stores.RemoteStore) *Session {
	normalizePrayers := func(p *dtos.PrayerDay) { p.Normalize() }

	return &Session{
		Prayers: NewDayController(DayFeature[dtos.PrayerDay]{
			Key:         "prayers",
			LocalPrefix: "prayer-tracker-data-",
			Default:     dtos.DefaultPrayerDay,
			Normalize:   normalizePrayers,
		}, local, remote),
		Duas: NewDayController(DayFeature[dtos.DuaDay]{
			Key:         "duas",
			LocalPrefix: "dua-tracker-data-",
			Default:     dtos.DefaultDuaDay,
		}, local, remote),
		Quran: NewDayController(DayFeature[dtos.QuranDay]{
			Key:         "quran",
			LocalPrefix: "quran-tracker-daily-",
			Default:     dtos.DefaultQuranDay,
		}, local, remote),
		Goal: NewGoal(local, remote),
		Swalath: NewLogController(LogFeature[dtos.SwalathEntry]{
			Key:      "entries",
			LocalKey: "swalath-tracker-data",
			ID:       func(e dtos.SwalathEntry) string { return e.Id },
		}, local, remote),
	}
}

// Resolve fans the identity out to every controller.
func (s *Session) Resolve(ctx context.Context, identity Identity) {
	s.Prayers.Resolve(ctx, identity)
	s.Duas.Resolve(ctx, identity)
	s.Quran.Resolve(ctx, identity)
	s.Goal.Resolve(ctx, identity)
	s.Swalath.Resolve(ctx, identity)
}

// Ready reports whether every controller has settled into a backing store.
func (s *Session) Ready() bool {
	_, goalReady := s.Goal.Pages()
	return s.Prayers.Ready() && s.Duas.Ready() && s.Quran.Ready() && goalReady && s.Swalath.Ready()
}

// OnChange registers one callback across every controller and returns a func
// that removes all registrations.
func (s *Session) OnChange(fn func()) func() {
	removals := []func(){
		s.Prayers.OnChange(fn),
		s.Duas.OnChange(fn),
		s.Quran.OnChange(fn),
		s.Swalath.OnChange(fn),
	}

	return func() {
		for _, remove := range removals {
			remove()
		}
	}
}

func (s *Session) Close() {
	s.Prayers.Close()
	s.Duas.Close()
	s.Quran.Close()
	s.Swalath.Close()
}

// Registry hands out one session per identity, constructing and resolving it
// on first use. The anonymous session is keyed by the empty uid.
type Registry struct {
	local  stores.LocalStore
	remote stores.RemoteStore

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(local stores.LocalStore, remote stores.RemoteStore) *Registry {
	return &Registry{
		local:    local,
		remote:   remote,
		sessions: make(map[string]*Session),
	}
}

// Resolve returns the session for the identity, creating it if needed. A
// loading identity returns nil: store selection is gated until identity
// resolution settles.
func (r *Registry) Resolve(ctx context.Context, identity Identity) *Session {
	if identity.Loading {
		return nil
	}

	r.mu.Lock()
	session, exists := r.sessions[identity.UID]
	if !exists {
		session = NewSession(r.local, r.remote)
		r.sessions[identity.UID] = session
	}
	r.mu.Unlock()

	session.Resolve(ctx, identity)
	return session
}

func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, session := range r.sessions {
		session.Close()
	}

	r.sessions = make(map[string]*Session)
}
