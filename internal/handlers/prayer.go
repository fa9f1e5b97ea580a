package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/dtos"
	"github.com/afdhal/swalath-backend-service/internal/httputil"
	"github.com/afdhal/swalath-backend-service/internal/tracker"
)

type PrayerHandler interface {
	GetToday(res http.ResponseWriter, req *http.Request)
	UpdateToday(res http.ResponseWriter, req *http.Request)
}

type prayer struct {
	configs  configs.Configs
	registry *tracker.Registry
}

func NewPrayerHandler(configs configs.Configs, registry *tracker.Registry) PrayerHandler {
	return &prayer{
		configs:  configs,
		registry: registry,
	}
}

func (p prayer) GetToday(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	session := p.registry.Resolve(ctx, identityFromContext(ctx))
	record, ready := session.Prayers.Current()
	if !ready {
		logger.Error().Caller().Int("status_code", http.StatusServiceUnavailable).Msg("prayer tracker not ready")
		http.Error(res, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody:    record,
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully got today's prayers")
}

func (p prayer) UpdateToday(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody dtos.PrayerDay
	if err := httputil.DecodeAndValidate(req, p.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session := p.registry.Resolve(ctx, identityFromContext(ctx))
	if err := session.Prayers.Update(ctx, reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to update today's prayers")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	record, _ := session.Prayers.Current()
	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody:    record,
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully updated today's prayers")
}
