package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/dtos"
	"github.com/afdhal/swalath-backend-service/internal/httputil"
	"github.com/afdhal/swalath-backend-service/internal/tracker"
)

type QuranHandler interface {
	GetToday(res http.ResponseWriter, req *http.Request)
	UpdateToday(res http.ResponseWriter, req *http.Request)
	SetGoal(res http.ResponseWriter, req *http.Request)
}

type quran struct {
	configs  configs.Configs
	registry *tracker.Registry
}

func NewQuranHandler(configs configs.Configs, registry *tracker.Registry) QuranHandler {
	return &quran{
		configs:  configs,
		registry: registry,
	}
}

// todayRecord returns today's reading record with the cross-day goal copied
// in: a day without a stored record reports the current goal and zero pages.
func (q quran) todayRecord(session *tracker.Session) (dtos.QuranDay, bool) {
	record, ready := session.Quran.Current()
	goal, goalReady := session.Goal.Pages()
	if !ready || !goalReady {
		return dtos.QuranDay{}, false
	}

	record.DailyGoalPages = goal
	return record, true
}

func (q quran) GetToday(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	session := q.registry.Resolve(ctx, identityFromContext(ctx))
	record, ready := q.todayRecord(session)
	if !ready {
		logger.Error().Caller().Int("status_code", http.StatusServiceUnavailable).Msg("quran tracker not ready")
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

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully got today's quran record")
}

func (q quran) UpdateToday(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody dtos.QuranDayRequest
	if err := httputil.DecodeAndValidate(req, q.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session := q.registry.Resolve(ctx, identityFromContext(ctx))
	record, ready := q.todayRecord(session)
	if !ready {
		logger.Error().Caller().Int("status_code", http.StatusServiceUnavailable).Msg("quran tracker not ready")
		http.Error(res, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	if reqBody.PagesRead != nil {
		record.PagesRead = dtos.Count(*reqBody.PagesRead)
	}

	if reqBody.Surahs != nil {
		record.Surahs = *reqBody.Surahs
	}

	if err := session.Quran.Update(ctx, record); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to update today's quran record")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
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

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully updated today's quran record")
}

func (q quran) SetGoal(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody dtos.QuranGoalRequest
	if err := httputil.DecodeAndValidate(req, q.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session := q.registry.Resolve(ctx, identityFromContext(ctx))
	if err := session.Goal.Set(ctx, *reqBody.DailyGoalPages); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to set quran goal")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	record, _ := q.todayRecord(session)
	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody:    record,
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully set quran goal")
}
