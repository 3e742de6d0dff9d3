package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-console/internal/apperror"
	"github.com/tair/catalog-console/internal/auth/domain"
)

// --- Mock implementations ---

type mockAuthenticator struct {
	store     *Store
	loginErr  error
	logoutErr error
	logins    int
	logouts   int
}

func (m *mockAuthenticator) Login(ctx context.Context, sid, username, password string) (*domain.LoginResult, error) {
	m.logins++
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	if err := m.store.SaveToken(ctx, sid, "access-token"); err != nil {
		return nil, err
	}
	return &domain.LoginResult{User: emily(), AccessToken: "access-token"}, nil
}

func (m *mockAuthenticator) Logout(ctx context.Context, sid string) error {
	m.logouts++
	if m.logoutErr != nil {
		return m.logoutErr
	}
	return m.store.ClearToken(ctx, sid)
}

// --- Tests ---

func TestManager_BeginThenRestore(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend())
	auth := &mockAuthenticator{store: store}
	m := NewManager(store, auth)

	sc, err := m.Begin(ctx, testSID, "emilys", "emilyspass")
	require.NoError(t, err)
	assert.True(t, sc.Authenticated())

	// a later request restores the session without credentials
	restored := m.Restore(ctx, testSID)
	require.True(t, restored.Authenticated())
	assert.Equal(t, "Emily Johnson", restored.User.FullName())
	assert.Equal(t, 1, auth.logins)
}

func TestManager_BeginFailure(t *testing.T) {
	store := NewStore(NewMemoryBackend())
	m := NewManager(store, &mockAuthenticator{store: store, loginErr: &apperror.AuthenticationError{}})

	sc, err := m.Begin(context.Background(), testSID, "emilys", "wrong")
	assert.Nil(t, sc)
	assert.True(t, apperror.IsAuthentication(err))
	assert.False(t, m.Restore(context.Background(), testSID).Authenticated())
}

func TestManager_End(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewStore(backend)
	auth := &mockAuthenticator{store: store}
	m := NewManager(store, auth)

	_, err := m.Begin(ctx, testSID, "emilys", "emilyspass")
	require.NoError(t, err)

	require.NoError(t, m.End(ctx, testSID))
	assert.Equal(t, 1, auth.logouts)
	assert.False(t, m.Restore(ctx, testSID).Authenticated())

	_, err = backend.Get(ctx, userKey(testSID))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestManager_RestoreMalformedProfile(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewStore(backend)
	m := NewManager(store, &mockAuthenticator{store: store})

	require.NoError(t, store.SaveToken(ctx, testSID, "token"))
	require.NoError(t, backend.Set(ctx, userKey(testSID), "not-json", 0))

	sc := m.Restore(ctx, testSID)
	assert.False(t, sc.Authenticated())
	assert.Equal(t, testSID, sc.SID)
}

func TestContext_RoundTrip(t *testing.T) {
	u := emily()
	ctx := WithContext(context.Background(), &Context{SID: testSID, User: &u})

	assert.True(t, FromContext(ctx).Authenticated())
	assert.False(t, FromContext(context.Background()).Authenticated())
}

func TestIDs(t *testing.T) {
	id := NewID()
	assert.True(t, ValidID(id))
	assert.False(t, ValidID("../../etc"))
	assert.False(t, ValidID(""))
}
