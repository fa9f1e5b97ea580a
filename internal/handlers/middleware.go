package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/services"
	"github.com/afdhal/swalath-backend-service/internal/tracker"
)

// Authenticator resolves a bearer token to a user id. The production
// implementation validates the access token; tests swap in a static one.
type Authenticator interface {
	AuthenticateUser(tokenString string) (string, error)
}

type prodAuthenticator struct {
	authService services.AuthServicer
}

func NewProdAuthenticator(authService services.AuthServicer) Authenticator {
	return prodAuthenticator{authService: authService}
}

func (p prodAuthenticator) AuthenticateUser(tokenString string) (string, error) {
	claims, err := p.authService.ValidateAccessToken(tokenString)
	if err != nil {
		return "", err
	}

	return claims.Subject, nil
}

type staticAuthenticator struct {
	userId string
}

// NewStaticAuthenticator accepts any bearer token as the given user. Test
// servers use it to skip real token issuance.
func NewStaticAuthenticator(userId string) Authenticator {
	return staticAuthenticator{userId: userId}
}

func (s staticAuthenticator) AuthenticateUser(_ string) (string, error) {
	return s.userId, nil
}

type MiddlewareHandler interface {
	Logger(next http.Handler) http.Handler
	ResolveIdentity(next http.Handler) http.Handler
}

type middleware struct {
	configs       configs.Configs
	authenticator Authenticator
}

func NewMiddlewareHandler(configs configs.Configs, authenticator Authenticator) MiddlewareHandler {
	return &middleware{
		configs:       configs,
		authenticator: authenticator,
	}
}

func (m middleware) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		subLogger := log.
			With().
			Str("request_id", uuid.New().String()).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("client_ip", req.RemoteAddr).
			Logger()

		req = req.WithContext(subLogger.WithContext(req.Context()))
		next.ServeHTTP(res, req)
	})
}

type identityKey struct{}

// ResolveIdentity settles the request identity before any tracker is
// touched: a valid bearer token yields that user, no header yields the
// anonymous identity, and a malformed or invalid token is rejected rather
// than silently downgraded to anonymous.
func (m middleware) ResolveIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		logger := log.Ctx(ctx).With().Logger()

		identity := tracker.Anonymous
		if bearerToken := req.Header.Get("Authorization"); bearerToken != "" {
			if !strings.HasPrefix(bearerToken, "Bearer ") {
				logger.Error().Err(errors.New("invalid authorization header")).Caller().Int("status_code", http.StatusUnauthorized).Send()
				http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			accessToken := strings.TrimPrefix(bearerToken, "Bearer ")
			userId, err := m.authenticator.AuthenticateUser(accessToken)
			if err != nil {
				logger.Error().Err(err).Caller().Int("status_code", http.StatusUnauthorized).Msg("invalid access token")
				http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			identity = tracker.Identity{UID: userId}
		}

		req = req.WithContext(context.WithValue(req.Context(), identityKey{}, identity))
		next.ServeHTTP(res, req)
	})
}

func identityFromContext(ctx context.Context) tracker.Identity {
	identity, ok := ctx.Value(identityKey{}).(tracker.Identity)
	if !ok {
		return tracker.Anonymous
	}

	return identity
}
