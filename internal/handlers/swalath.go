package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/aggregate"
	"github.com/afdhal/swalath-backend-service/internal/dateutil"
	"github.com/afdhal/swalath-backend-service/internal/dtos"
	"github.com/afdhal/swalath-backend-service/internal/httputil"
	"github.com/afdhal/swalath-backend-service/internal/tracker"
)

type SwalathHandler interface {
	ListEntries(res http.ResponseWriter, req *http.Request)
	UpsertEntry(res http.ResponseWriter, req *http.Request)
	DeleteEntry(res http.ResponseWriter, req *http.Request)
	GetHistory(res http.ResponseWriter, req *http.Request)
	GetSelection(res http.ResponseWriter, req *http.Request)
	SetSelection(res http.ResponseWriter, req *http.Request)
}

type swalath struct {
	configs  configs.Configs
	registry *tracker.Registry
}

func NewSwalathHandler(configs configs.Configs, registry *tracker.Registry) SwalathHandler {
	return &swalath{
		configs:  configs,
		registry: registry,
	}
}

func (s swalath) ListEntries(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	session := s.registry.Resolve(ctx, identityFromContext(ctx))
	if !session.Swalath.Ready() {
		logger.Error().Caller().Int("status_code", http.StatusServiceUnavailable).Msg("swalath tracker not ready")
		http.Error(res, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	entries := aggregate.Descending(session.Swalath.Entries())
	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody:    entries,
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully listed swalath entries")
}

func (s swalath) UpsertEntry(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	dateId := chi.URLParam(req, "dateId")
	if !dateutil.IsDayID(dateId) {
		logger.Error().Caller().Int("status_code", http.StatusBadRequest).Msg("invalid date id")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var reqBody dtos.SwalathEntryRequest
	if err := httputil.DecodeAndValidate(req, s.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	entry := dtos.SwalathEntry{
		Id:          dateId,
		FajrDuhr:    reqBody.FajrDuhr,
		DuhrAsr:     reqBody.DuhrAsr,
		AsrMaghrib:  reqBody.AsrMaghrib,
		MaghribIsha: reqBody.MaghribIsha,
		IshaFajr:    reqBody.IshaFajr,
		Notes:       reqBody.Notes,
	}
	entry.Total = entry.Sum()

	session := s.registry.Resolve(ctx, identityFromContext(ctx))
	if err := session.Swalath.Upsert(ctx, entry); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to upsert swalath entry")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody:    entry,
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Str("date_id", dateId).Int("status_code", http.StatusOK).Msg("successfully upserted swalath entry")
}

func (s swalath) DeleteEntry(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	dateId := chi.URLParam(req, "dateId")
	if !dateutil.IsDayID(dateId) {
		logger.Error().Caller().Int("status_code", http.StatusBadRequest).Msg("invalid date id")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session := s.registry.Resolve(ctx, identityFromContext(ctx))
	if _, exists := session.Swalath.Entry(dateId); !exists {
		logger.Error().Caller().Int("status_code", http.StatusNotFound).Msg("swalath entry not found")
		http.Error(res, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	if err := session.Swalath.Delete(ctx, dateId); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to delete swalath entry")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusNoContent)
	logger.Info().Str("date_id", dateId).Int("status_code", http.StatusNoContent).Msg("successfully deleted swalath entry")
}

func (s swalath) GetHistory(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	r := aggregate.Range(req.URL.Query().Get("range"))
	switch r {
	case aggregate.RangeWeek, aggregate.RangeMonth, aggregate.RangeYear:
	case "":
		r = aggregate.RangeWeek
	default:
		logger.Error().Caller().Int("status_code", http.StatusBadRequest).Msg("invalid history range")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session := s.registry.Resolve(ctx, identityFromContext(ctx))
	if !session.Swalath.Ready() {
		logger.Error().Caller().Int("status_code", http.StatusServiceUnavailable).Msg("swalath tracker not ready")
		http.Error(res, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	summary := aggregate.Summarize(session.Swalath.Entries(), r, time.Now())
	resBody := dtos.SwalathHistoryResponse{
		Range:         string(summary.Range),
		Total:         summary.Total,
		DaysTracked:   summary.DaysTracked,
		DaysInRange:   summary.DaysInRange,
		AveragePerDay: summary.AveragePerDay,
		Buckets:       make([]dtos.SwalathHistoryBucket, 0, len(summary.Buckets)),
	}

	for _, bucket := range summary.Buckets {
		resBody.Buckets = append(resBody.Buckets, dtos.SwalathHistoryBucket{
			Label:     bucket.Label,
			Total:     bucket.Total,
			IsCurrent: bucket.IsCurrent,
		})
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

	logger.Info().Str("range", string(r)).Int("status_code", http.StatusOK).Msg("successfully got swalath history")
}

func (s swalath) GetSelection(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	session := s.registry.Resolve(ctx, identityFromContext(ctx))
	if !session.Swalath.Ready() {
		logger.Error().Caller().Int("status_code", http.StatusServiceUnavailable).Msg("swalath tracker not ready")
		http.Error(res, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	resBody := dtos.SwalathSelectionResponse{Id: session.Swalath.SelectedID()}
	if entry, exists := session.Swalath.Selected(); exists {
		resBody.Entry = &entry
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

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully got swalath selection")
}

func (s swalath) SetSelection(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody dtos.SwalathSelectionRequest
	if err := httputil.DecodeAndValidate(req, s.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session := s.registry.Resolve(ctx, identityFromContext(ctx))
	session.Swalath.Select(reqBody.Id)

	resBody := dtos.SwalathSelectionResponse{Id: session.Swalath.SelectedID()}
	if entry, exists := session.Swalath.Selected(); exists {
		resBody.Entry = &entry
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

	logger.Info().Str("selection", resBody.Id).Int("status_code", http.StatusOK).Msg("successfully set swalath selection")
}
