package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/dtos"
	"github.com/afdhal/swalath-backend-service/internal/httputil"
	"github.com/afdhal/swalath-backend-service/internal/tracker"
)

type DuaHandler interface {
	GetToday(res http.ResponseWriter, req *http.Request)
	UpdateToday(res http.ResponseWriter, req *http.Request)
}

type dua struct {
	configs  configs.Configs
	registry *tracker.Registry
}

func NewDuaHandler(configs configs.Configs, registry *tracker.Registry) DuaHandler {
	return &dua{
		configs:  configs,
		registry: registry,
	}
}

func (d dua) GetToday(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	session := d.registry.Resolve(ctx, identityFromContext(ctx))
	record, ready := session.Duas.Current()
	if !ready {
		logger.Error().Caller().Int("status_code", http.StatusServiceUnavailable).Msg("dua tracker not ready")
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

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully got today's duas")
}

func (d dua) UpdateToday(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody dtos.DuaDay
	if err := httputil.DecodeAndValidate(req, d.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session := d.registry.Resolve(ctx, identityFromContext(ctx))
	if err := session.Duas.Update(ctx, reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to update today's duas")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	record, _ := session.Duas.Current()
	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody:    record,
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully updated today's duas")
}
