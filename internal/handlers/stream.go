package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/aggregate"
	"github.com/afdhal/swalath-backend-service/internal/dtos"
	"github.com/afdhal/swalath-backend-service/internal/tracker"
)

type StreamHandler interface {
	Stream(res http.ResponseWriter, req *http.Request)
}

type stream struct {
	configs  configs.Configs
	registry *tracker.Registry
	upgrader websocket.Upgrader
}

func NewStreamHandler(configs configs.Configs, registry *tracker.Registry) StreamHandler {
	return &stream{
		configs:  configs,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(req *http.Request) bool {
				origin := req.Header.Get("Origin")
				if origin == "" || origin == configs.Env.OriginURL {
					return true
				}

				for _, allowed := range strings.Split(configs.Env.AllowedOrigins, ",") {
					if origin == allowed {
						return true
					}
				}

				return false
			},
		},
	}
}

// trackerSnapshot is the full read model pushed on connect and after every
// change. Clients re-render from the whole snapshot instead of patching.
type trackerSnapshot struct {
	Prayers  *dtos.PrayerDay      `json:"prayers,omitempty"`
	Duas     *dtos.DuaDay         `json:"duas,omitempty"`
	Quran    *dtos.QuranDay       `json:"quran,omitempty"`
	Swalath  []dtos.SwalathEntry  `json:"swalath"`
	Selected string               `json:"selected"`
	Ready    bool                 `json:"ready"`
}

func buildSnapshot(session *tracker.Session) trackerSnapshot {
	snapshot := trackerSnapshot{
		Swalath:  aggregate.Descending(session.Swalath.Entries()),
		Selected: session.Swalath.SelectedID(),
		Ready:    session.Ready(),
	}

	if record, ready := session.Prayers.Current(); ready {
		snapshot.Prayers = &record
	}

	if record, ready := session.Duas.Current(); ready {
		snapshot.Duas = &record
	}

	if record, ready := session.Quran.Current(); ready {
		if goal, goalReady := session.Goal.Pages(); goalReady {
			record.DailyGoalPages = goal
		}
		snapshot.Quran = &record
	}

	return snapshot
}

func (s *stream) Stream(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	session := s.registry.Resolve(ctx, identityFromContext(ctx))

	conn, err := s.upgrader.Upgrade(res, req, nil)
	if err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("failed to upgrade connection")
		return
	}
	defer conn.Close()

	// Change notifications only nudge the writer; the writer always sends a
	// fresh snapshot, so dropped nudges while one is pending are harmless.
	changed := make(chan struct{}, 1)
	removeWatcher := session.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer removeWatcher()

	// Reads are discarded; the socket is push-only. The read loop still runs
	// to surface the close frame.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	logger.Info().Msg("stream connected")

	if err := conn.WriteJSON(buildSnapshot(session)); err != nil {
		logger.Error().Err(err).Caller().Msg("failed to write initial snapshot")
		return
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-changed:
			if err := conn.WriteJSON(buildSnapshot(session)); err != nil {
				logger.Error().Err(err).Caller().Msg("failed to write snapshot")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-closed:
			logger.Info().Msg("stream disconnected")
			return
		case <-ctx.Done():
			return
		}
	}
}
