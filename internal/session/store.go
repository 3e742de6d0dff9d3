package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tair/catalog-console/internal/apperror"
	"github.com/tair/catalog-console/internal/auth/domain"
	"github.com/tair/catalog-console/pkg/logger"
)

// ErrNoSession is returned by Load when no complete session is persisted
var ErrNoSession = errors.New("session: no session")

// flashTTL bounds how long an unread flash message is kept
const flashTTL = 10 * time.Minute

// Store persists the bearer token and the last authenticated profile of a
// browser session. Token and profile live under independent keys.
type Store struct {
	backend Backend
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

func tokenKey(sid string) string { return fmt.Sprintf("session:%s:token", sid) }
func userKey(sid string) string  { return fmt.Sprintf("session:%s:user", sid) }
func flashKey(sid string) string { return fmt.Sprintf("session:%s:flash", sid) }

// Save persists both profile and token, overwriting any prior session
func (s *Store) Save(ctx context.Context, sid string, user domain.User, token string) error {
	if err := s.SaveProfile(ctx, sid, user); err != nil {
		return err
	}
	return s.SaveToken(ctx, sid, token)
}

// Load returns the saved profile when both a token and a parseable profile exist.
// A malformed profile is discarded and reported as ErrNoSession joined with the
// underlying *apperror.ParseError.
func (s *Store) Load(ctx context.Context, sid string) (*domain.User, error) {
	token, err := s.Token(ctx, sid)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNoSession
	}

	raw, err := s.backend.Get(ctx, userKey(sid))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		parseErr := &apperror.ParseError{What: "session profile", Err: err}

		logger.Warn(ctx).
			Err(parseErr).
			Msg("Discarding malformed session profile")

		if clearErr := s.Clear(ctx, sid); clearErr != nil {
			logger.Error(ctx).Err(clearErr).Msg("Failed to clear malformed session")
		}
		return nil, fmt.Errorf("%w: %w", ErrNoSession, parseErr)
	}

	return &user, nil
}

// Clear removes both token and profile
func (s *Store) Clear(ctx context.Context, sid string) error {
	if err := s.backend.Del(ctx, tokenKey(sid), userKey(sid)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Store) SaveToken(ctx context.Context, sid, token string) error {
	if err := s.backend.Set(ctx, tokenKey(sid), token, 0); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Token returns the persisted bearer token, or ErrNoSession when absent
func (s *Store) Token(ctx context.Context, sid string) (string, error) {
	token, err := s.backend.Get(ctx, tokenKey(sid))
	if errors.Is(err, ErrKeyNotFound) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

func (s *Store) ClearToken(ctx context.Context, sid string) error {
	if err := s.backend.Del(ctx, tokenKey(sid)); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

func (s *Store) SaveProfile(ctx context.Context, sid string, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.backend.Set(ctx, userKey(sid), string(raw), 0); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *Store) ClearProfile(ctx context.Context, sid string) error {
	if err := s.backend.Del(ctx, userKey(sid)); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	return nil
}
