package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tair/catalog-console/internal/apperror"
	"github.com/tair/catalog-console/internal/auth/domain"
	"github.com/tair/catalog-console/internal/remote"
	"github.com/tair/catalog-console/internal/session"
	"github.com/tair/catalog-console/pkg/logger"
)

// TokenStore is the part of the session store the auth gateway writes
type TokenStore interface {
	SaveToken(ctx context.Context, sid, token string) error
	ClearToken(ctx context.Context, sid string) error
}

// AuthServiceClient exchanges credentials for a bearer token at the remote auth endpoint
type AuthServiceClient struct {
	remote        *remote.Client
	tokens        TokenStore
	expiresInMins int
}

// NewAuthServiceClient creates the auth gateway; expiresInMins is sent with every login
func NewAuthServiceClient(rc *remote.Client, tokens TokenStore, expiresInMins int) *AuthServiceClient {
	return &AuthServiceClient{
		remote:        rc,
		tokens:        tokens,
		expiresInMins: expiresInMins,
	}
}

type loginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins,omitempty"`
}

type loginResponse struct {
	domain.User
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	// older deployments of the service return "token" instead of "accessToken"
	Token string `json:"token"`
}

// Login trims both credentials, authenticates against the remote service and
// persists the access token for sid
func (c *AuthServiceClient) Login(ctx context.Context, sid, username, password string) (*domain.LoginResult, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, &apperror.AuthenticationError{Message: "username and password are required"}
	}

	var resp loginResponse
	err := c.remote.Do(ctx, remote.Request{
		Op:     "login",
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body: loginRequest{
			Username:      username,
			Password:      password,
			ExpiresInMins: c.expiresInMins,
		},
	}, &resp)
	if err != nil {
		var reqErr *apperror.RequestError
		if errors.As(err, &reqErr) && reqErr.Status != 0 && reqErr.Err == nil {
			logger.Warn(ctx).
				Str("username", username).
				Int("status", reqErr.Status).
				Msg("Login rejected")
			return nil, &apperror.AuthenticationError{}
		}
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	token := resp.AccessToken
	if token == "" {
		token = resp.Token
	}
	if token == "" {
		return nil, &apperror.RequestError{Op: "login", Status: http.StatusOK, Err: errors.New("response carries no access token")}
	}

	if err := c.tokens.SaveToken(ctx, sid, token); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	result := &domain.LoginResult{
		User:         resp.User,
		AccessToken:  token,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    tokenExpiry(token),
	}

	logger.Info(ctx).
		Int("user_id", result.User.ID).
		Str("username", result.User.Username).
		Msg("User authenticated")

	return result, nil
}

// Logout clears the persisted token; the profile is left to the session owner
func (c *AuthServiceClient) Logout(ctx context.Context, sid string) error {
	if err := c.tokens.ClearToken(ctx, sid); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature. The value is
// informational; expiry is never enforced locally.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

var _ session.Authenticator = (*AuthServiceClient)(nil)
