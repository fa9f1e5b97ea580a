package services

import (
	"context"
	"errors"
	"testing"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/stores"
)

func newTestAuthService() AuthServicer {
	config := configs.Configs{
		Env: configs.Env{
			SecretKey: "test-secret-key",
			OriginURL: "http://localhost:8080",
		},
		Validate: configs.NewValidate(),
	}

	return NewAuthService(config, stores.NewMemoryRemote())
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.TODO()
	authService := newTestAuthService()

	result, err := authService.RegisterUser(ctx, RegisterUserParams{
		Email:    "user@example.com",
		Password: "password",
		Name:     "User",
	})

	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	if result.UserId == "" || result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("incomplete auth result: %+v", result)
	}

	_, err = authService.RegisterUser(ctx, RegisterUserParams{
		Email:    "user@example.com",
		Password: "other",
		Name:     "Other",
	})

	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got: %v", err)
	}

	authenticated, err := authService.AuthenticateUser(ctx, AuthenticateUserParams{
		Email:    "user@example.com",
		Password: "password",
	})

	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	if authenticated.UserId != result.UserId {
		t.Fatalf("expected user id %s, got %s", result.UserId, authenticated.UserId)
	}

	if authenticated.Name != "User" {
		t.Fatalf("expected name User, got %s", authenticated.Name)
	}

	_, err = authService.AuthenticateUser(ctx, AuthenticateUserParams{
		Email:    "user@example.com",
		Password: "wrong",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}

	_, err = authService.AuthenticateUser(ctx, AuthenticateUserParams{
		Email:    "unknown@example.com",
		Password: "password",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestValidateAccessToken(t *testing.T) {
	ctx := context.TODO()
	authService := newTestAuthService()

	result, err := authService.RegisterUser(ctx, RegisterUserParams{
		Email:    "user@example.com",
		Password: "password",
		Name:     "User",
	})

	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	claims, err := authService.ValidateAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	if claims.Subject != result.UserId {
		t.Fatalf("expected subject %s, got %s", result.UserId, claims.Subject)
	}

	// A refresh token is not accepted where an access token is expected.
	if _, err := authService.ValidateAccessToken(result.RefreshToken); err == nil {
		t.Fatal("expected error for refresh token, got nil")
	}

	if _, err := authService.ValidateAccessToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token, got nil")
	}
}

func TestRotateRefreshToken(t *testing.T) {
	ctx := context.TODO()
	authService := newTestAuthService()

	result, err := authService.RegisterUser(ctx, RegisterUserParams{
		Email:    "user@example.com",
		Password: "password",
		Name:     "User",
	})

	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	rotated, err := authService.RotateRefreshToken(ctx, result.RefreshToken)
	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	if rotated.UserId != result.UserId {
		t.Fatalf("expected user id %s, got %s", result.UserId, rotated.UserId)
	}

	// The old refresh token was revoked by the rotation.
	if _, err := authService.RotateRefreshToken(ctx, result.RefreshToken); err == nil {
		t.Fatal("expected error for revoked token, got nil")
	}

	if _, err := authService.RotateRefreshToken(ctx, rotated.RefreshToken); err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}
}

func TestRevokeRefreshToken(t *testing.T) {
	ctx := context.TODO()
	authService := newTestAuthService()

	result, err := authService.RegisterUser(ctx, RegisterUserParams{
		Email:    "user@example.com",
		Password: "password",
		Name:     "User",
	})

	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	if err := authService.RevokeRefreshToken(ctx, result.RefreshToken); err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	if _, err := authService.RotateRefreshToken(ctx, result.RefreshToken); err == nil {
		t.Fatal("expected error for revoked token, got nil")
	}
}
