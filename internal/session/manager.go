package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tair/catalog-console/internal/auth/domain"
	"github.com/tair/catalog-console/pkg/logger"
)

// Authenticator exchanges credentials for a token and revokes it again.
// The auth gateway client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, sid, username, password string) (*domain.LoginResult, error)
	Logout(ctx context.Context, sid string) error
}

// Context is the session state of one request, restored once at request start
type Context struct {
	SID  string
	User *domain.User
}

// Authenticated reports whether a complete session was restored
func (c *Context) Authenticated() bool {
	return c != nil && c.User != nil
}

// Manager owns the session lifecycle: restore on request start,
// begin on login, end on logout
type Manager struct {
	store *Store
	auth  Authenticator
}

func NewManager(store *Store, auth Authenticator) *Manager {
	return &Manager{store: store, auth: auth}
}

// Store exposes the underlying store for token and flash access
func (m *Manager) Store() *Store {
	return m.store
}

// Restore loads the session for sid. Any failure yields an unauthenticated context.
func (m *Manager) Restore(ctx context.Context, sid string) *Context {
	sc := &Context{SID: sid}

	user, err := m.store.Load(ctx, sid)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			logger.Error(ctx).Err(err).Msg("Failed to restore session")
		}
		return sc
	}

	sc.User = user
	return sc
}

// Begin authenticates and persists the resulting profile
func (m *Manager) Begin(ctx context.Context, sid, username, password string) (*Context, error) {
	result, err := m.auth.Login(ctx, sid, username, password)
	if err != nil {
		return nil, err
	}

	if err := m.store.Save(ctx, sid, result.User, result.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	logger.Info(ctx).
		Int("user_id", result.User.ID).
		Str("username", result.User.Username).
		Time("token_expires_at", result.ExpiresAt).
		Msg("Session started")

	user := result.User
	return &Context{SID: sid, User: &user}, nil
}

// End revokes the token and clears the profile
func (m *Manager) End(ctx context.Context, sid string) error {
	if err := m.auth.Logout(ctx, sid); err != nil {
		return err
	}
	if err := m.store.ClearProfile(ctx, sid); err != nil {
		return err
	}

	logger.Info(ctx).Msg("Session ended")
	return nil
}

type contextKey struct{}

// WithContext attaches the session context to ctx
func WithContext(ctx context.Context, sc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, sc)
}

// FromContext returns the session context attached to ctx, or an
// unauthenticated one
func FromContext(ctx context.Context) *Context {
	if sc, ok := ctx.Value(contextKey{}).(*Context); ok && sc != nil {
		return sc
	}
	return &Context{}
}

// NewID generates a browser session id
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id produced by NewID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
