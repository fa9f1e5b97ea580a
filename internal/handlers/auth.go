package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/dtos"
	"github.com/afdhal/swalath-backend-service/internal/httputil"
	"github.com/afdhal/swalath-backend-service/internal/services"
	"github.com/afdhal/swalath-backend-service/internal/tracker"
)

type AuthHandler interface {
	Register(res http.ResponseWriter, req *http.Request)
	Login(res http.ResponseWriter, req *http.Request)
	GoogleLogin(res http.ResponseWriter, req *http.Request)
	Refresh(res http.ResponseWriter, req *http.Request)
	Logout(res http.ResponseWriter, req *http.Request)
}

type auth struct {
	configs  configs.Configs
	service  services.AuthServicer
	registry *tracker.Registry
}

func NewAuthHandler(configs configs.Configs, service services.AuthServicer, registry *tracker.Registry) AuthHandler {
	return &auth{
		configs:  configs,
		service:  service,
		registry: registry,
	}
}

func (a auth) sendAuthResult(res http.ResponseWriter, req *http.Request, result services.AuthResult, statusCode int) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	// Resolving the freshly authenticated session here is what triggers the
	// one-time local-to-remote migration of any anonymous data.
	a.registry.Resolve(ctx, tracker.Identity{UID: result.UserId})

	resBody := dtos.AuthResponse{
		UserId:       result.UserId,
		Name:         result.Name,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}

	params := httputil.SendSuccessResponseParams{
		StatusCode: statusCode,
		ResBody:    resBody,
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", statusCode).Msg("successfully authenticated user")
}

func (a auth) Register(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody dtos.RegisterRequest
	if err := httputil.DecodeAndValidate(req, a.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	result, err := a.service.RegisterUser(ctx, services.RegisterUserParams{
		Email:    reqBody.Email,
		Password: reqBody.Password,
		Name:     reqBody.Name,
	})

	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			logger.Error().Err(err).Caller().Int("status_code", http.StatusConflict).Msg("email is already registered")
			http.Error(res, http.StatusText(http.StatusConflict), http.StatusConflict)
		} else {
			logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to register user")
			http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	a.sendAuthResult(res, req, result, http.StatusCreated)
}

func (a auth) Login(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody dtos.LoginRequest
	if err := httputil.DecodeAndValidate(req, a.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	result, err := a.service.AuthenticateUser(ctx, services.AuthenticateUserParams{
		Email:    reqBody.Email,
		Password: reqBody.Password,
	})

	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			logger.Error().Err(err).Caller().Int("status_code", http.StatusUnauthorized).Msg("invalid credentials")
			http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		} else {
			logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to authenticate user")
			http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	a.sendAuthResult(res, req, result, http.StatusOK)
}

func (a auth) GoogleLogin(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody dtos.GoogleLoginRequest
	if err := httputil.DecodeAndValidate(req, a.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	result, err := a.service.AuthenticateGoogleUser(ctx, reqBody.IdToken)
	if err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusUnauthorized).Msg("failed to authenticate google user")
		http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	a.sendAuthResult(res, req, result, http.StatusOK)
}

func (a auth) Refresh(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody dtos.RefreshRequest
	if err := httputil.DecodeAndValidate(req, a.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	result, err := a.service.RotateRefreshToken(ctx, reqBody.RefreshToken)
	if err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusUnauthorized).Msg("failed to rotate refresh token")
		http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	a.sendAuthResult(res, req, result, http.StatusOK)
}

func (a auth) Logout(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody dtos.RefreshRequest
	if err := httputil.DecodeAndValidate(req, a.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := a.service.RevokeRefreshToken(ctx, reqBody.RefreshToken); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusUnauthorized).Msg("failed to revoke refresh token")
		http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	res.WriteHeader(http.StatusNoContent)
	logger.Info().Int("status_code", http.StatusNoContent).Msg("successfully logged out")
}
