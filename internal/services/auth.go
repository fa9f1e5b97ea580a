package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"google.golang.org/api/idtoken"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/stores"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthServicer interface {
	RegisterUser(ctx context.Context, arg RegisterUserParams) (AuthResult, error)
	AuthenticateUser(ctx context.Context, arg AuthenticateUserParams) (AuthResult, error)
	AuthenticateGoogleUser(ctx context.Context, idToken string) (AuthResult, error)
	RotateRefreshToken(ctx context.Context, tokenString string) (AuthResult, error)
	RevokeRefreshToken(ctx context.Context, tokenString string) error
	ValidateAccessToken(tokenString string) (*AccessTokenClaims, error)
}

type auth struct {
	configs configs.Configs
	remote  stores.RemoteStore
}

func NewAuthService(configs configs.Configs, remote stores.RemoteStore) AuthServicer {
	return &auth{
		configs: configs,
		remote:  remote,
	}
}

type TokenType int

const (
	Refresh TokenType = iota
	Access
)

type RefreshTokenClaims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

type AccessTokenClaims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

type AuthResult struct {
	UserId       string
	Name         string
	RefreshToken string
	AccessToken  string
}

type userProfile struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

type emailIndex struct {
	UserId string `json:"userId"`
}

type refreshTokenDoc struct {
	ExpiresAt int64 `json:"expiresAt"`
	Revoked   bool  `json:"revoked"`
}

func profilePath(userId string) string {
	return "users/" + userId
}

func emailPath(email string) string {
	return "emails/" + email
}

func tokenPath(userId, jti string) string {
	return fmt.Sprintf("users/%s/tokens/%s", userId, jti)
}

type RegisterUserParams struct {
	Email    string
	Password string
	Name     string
}

func (a auth) RegisterUser(ctx context.Context, arg RegisterUserParams) (AuthResult, error) {
	passwordHash, err := argon2id.CreateHash(arg.Password, argon2id.DefaultParams)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	userId := uuid.NewString()
	indexDoc, err := json.Marshal(emailIndex{UserId: userId})
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to marshal email index: %w", err)
	}

	if err := a.remote.Insert(ctx, emailPath(arg.Email), indexDoc); err != nil {
		if errors.Is(err, stores.ErrAlreadyExists) {
			return AuthResult{}, ErrEmailTaken
		}

		return AuthResult{}, fmt.Errorf("failed to insert email index: %w", err)
	}

	profileDoc, err := json.Marshal(userProfile{
		Email:        arg.Email,
		Name:         arg.Name,
		PasswordHash: passwordHash,
	})

	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to marshal user profile: %w", err)
	}

	if err := a.remote.Upsert(ctx, profilePath(userId), profileDoc); err != nil {
		return AuthResult{}, fmt.Errorf("failed to insert user profile: %w", err)
	}

	return a.issueTokenPair(ctx, userId, arg.Name)
}

type AuthenticateUserParams struct {
	Email    string
	Password string
}

func (a auth) AuthenticateUser(ctx context.Context, arg AuthenticateUserParams) (AuthResult, error) {
	indexData, err := a.remote.Get(ctx, emailPath(arg.Email))
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}

		return AuthResult{}, fmt.Errorf("failed to get email index: %w", err)
	}

	var index emailIndex
	if err := json.Unmarshal(indexData, &index); err != nil {
		return AuthResult{}, fmt.Errorf("failed to unmarshal email index: %w", err)
	}

	profileData, err := a.remote.Get(ctx, profilePath(index.UserId))
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to get user profile: %w", err)
	}

	var profile userProfile
	if err := json.Unmarshal(profileData, &profile); err != nil {
		return AuthResult{}, fmt.Errorf("failed to unmarshal user profile: %w", err)
	}

	match, err := argon2id.ComparePasswordAndHash(arg.Password, profile.PasswordHash)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to compare password and hash: %w", err)
	}

	if !match {
		return AuthResult{}, ErrInvalidCredentials
	}

	return a.issueTokenPair(ctx, index.UserId, profile.Name)
}

func (a auth) AuthenticateGoogleUser(ctx context.Context, idTokenString string) (AuthResult, error) {
	validator, err := idtoken.NewValidator(ctx)
	if err != nil {
		return AuthResult{}, err
	}

	payload, err := validator.Validate(ctx, idTokenString, a.configs.Env.ClientId)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to validate Id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" || name == "" {
		return AuthResult{}, errors.New("email or name claim is missing")
	}

	userId := payload.Subject
	profileDoc, err := json.Marshal(userProfile{Email: email, Name: name})
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to marshal user profile: %w", err)
	}

	if err := a.remote.Upsert(ctx, profilePath(userId), profileDoc); err != nil {
		return AuthResult{}, fmt.Errorf("failed to upsert user profile: %w", err)
	}

	return a.issueTokenPair(ctx, userId, name)
}

func (a auth) issueTokenPair(ctx context.Context, userId, name string) (AuthResult, error) {
	now := time.Now()
	refreshTokenClaims := RefreshTokenClaims{
		Type: Refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(30 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    a.configs.Env.OriginURL,
			Subject:   userId,
		},
	}

	refreshToken, err := a.createToken(refreshTokenClaims)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	accessTokenClaims := AccessTokenClaims{
		Type: Access,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    a.configs.Env.OriginURL,
			Subject:   userId,
		},
	}

	accessToken, err := a.createToken(accessTokenClaims)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to create access token: %w", err)
	}

	tokenDoc, err := json.Marshal(refreshTokenDoc{ExpiresAt: refreshTokenClaims.ExpiresAt.Unix()})
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to marshal refresh token doc: %w", err)
	}

	if err := a.remote.Upsert(ctx, tokenPath(userId, refreshTokenClaims.ID), tokenDoc); err != nil {
		return AuthResult{}, fmt.Errorf("failed to insert refresh token: %w", err)
	}

	return AuthResult{
		UserId:       userId,
		Name:         name,
		RefreshToken: refreshToken,
		AccessToken:  accessToken,
	}, nil
}

func (a auth) createToken(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.configs.Env.SecretKey))
}

func (a auth) parseOptions() []jwt.ParserOption {
	return []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(a.configs.Env.OriginURL),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
}

func (a auth) keyFunc(_ *jwt.Token) (interface{}, error) {
	return []byte(a.configs.Env.SecretKey), nil
}

func (a auth) validateRefreshToken(tokenString string) (*RefreshTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshTokenClaims{}, a.keyFunc, a.parseOptions()...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := token.Claims.(*RefreshTokenClaims)
	if !ok || claims.Type != Refresh {
		return nil, errors.New("invalid refresh token claims")
	}

	return claims, nil
}

func (a auth) ValidateAccessToken(tokenString string) (*AccessTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, a.keyFunc, a.parseOptions()...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || claims.Type != Access {
		return nil, errors.New("invalid access token claims")
	}

	return claims, nil
}

// RotateRefreshToken revokes the presented refresh token and issues a new
// refresh/access pair for its subject.
func (a auth) RotateRefreshToken(ctx context.Context, tokenString string) (AuthResult, error) {
	claims, err := a.validateRefreshToken(tokenString)
	if err != nil {
		return AuthResult{}, err
	}

	path := tokenPath(claims.Subject, claims.ID)
	tokenData, err := a.remote.Get(ctx, path)
	if err != nil {
		return AuthResult{}, fmt.Errorf("unknown refresh token: %w", err)
	}

	var doc refreshTokenDoc
	if err := json.Unmarshal(tokenData, &doc); err != nil {
		return AuthResult{}, fmt.Errorf("failed to unmarshal refresh token doc: %w", err)
	}

	if doc.Revoked {
		return AuthResult{}, errors.New("refresh token is revoked")
	}

	revoked, err := json.Marshal(refreshTokenDoc{ExpiresAt: doc.ExpiresAt, Revoked: true})
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to marshal refresh token doc: %w", err)
	}

	if err := a.remote.Upsert(ctx, path, revoked); err != nil {
		return AuthResult{}, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	profileData, err := a.remote.Get(ctx, profilePath(claims.Subject))
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to get user profile: %w", err)
	}

	var profile userProfile
	if err := json.Unmarshal(profileData, &profile); err != nil {
		return AuthResult{}, fmt.Errorf("failed to unmarshal user profile: %w", err)
	}

	return a.issueTokenPair(ctx, claims.Subject, profile.Name)
}

// RevokeRefreshToken marks the presented refresh token as revoked (logout).
func (a auth) RevokeRefreshToken(ctx context.Context, tokenString string) error {
	claims, err := a.validateRefreshToken(tokenString)
	if err != nil {
		return err
	}

	revoked, err := json.Marshal(refreshTokenDoc{ExpiresAt: claims.ExpiresAt.Unix(), Revoked: true})
	if err != nil {
		return fmt.Errorf("failed to marshal refresh token doc: %w", err)
	}

	return a.remote.Upsert(ctx, tokenPath(claims.Subject, claims.ID), revoked)
}
