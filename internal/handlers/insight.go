package handlers

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/aggregate"
	"github.com/afdhal/swalath-backend-service/internal/dtos"
	"github.com/afdhal/swalath-backend-service/internal/httputil"
	"github.com/afdhal/swalath-backend-service/internal/services"
	"github.com/afdhal/swalath-backend-service/internal/stores"
	"github.com/afdhal/swalath-backend-service/internal/tracker"
)

type InsightHandler interface {
	GetDaily(res http.ResponseWriter, req *http.Request)
}

type insight struct {
	configs  configs.Configs
	service  services.InsightServicer
	registry *tracker.Registry
	remote   stores.RemoteStore
}

func NewInsightHandler(configs configs.Configs, service services.InsightServicer, registry *tracker.Registry, remote stores.RemoteStore) InsightHandler {
	return &insight{
		configs:  configs,
		service:  service,
		registry: registry,
		remote:   remote,
	}
}

func (i insight) profileName(req *http.Request, identity tracker.Identity) string {
	if !identity.Present() {
		return ""
	}

	data, err := i.remote.Get(req.Context(), "users/"+identity.UID)
	if err != nil {
		return ""
	}

	var profile struct {
		Name string `json:"name"`
	}

	if err := json.Unmarshal(data, &profile); err != nil {
		return ""
	}

	return profile.Name
}

func (i insight) GetDaily(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	identity := identityFromContext(ctx)
	session := i.registry.Resolve(ctx, identity)
	if !session.Swalath.Ready() {
		logger.Error().Caller().Int("status_code", http.StatusServiceUnavailable).Msg("swalath tracker not ready")
		http.Error(res, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	now := time.Now()
	summary := aggregate.Summarize(session.Swalath.Entries(), aggregate.RangeWeek, now)

	resBody := dtos.DailyInsightResponse{
		Hadith:        i.service.DailyHadith(now),
		Encouragement: i.service.Encouragement(i.profileName(req, identity), summary),
	}

	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody:    resBody,
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully got daily insight")
}
