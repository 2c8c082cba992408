package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haguru/gatekeeper/internal/apperrors"
	"github.com/haguru/gatekeeper/internal/interfaces"
	"github.com/haguru/gatekeeper/internal/interfaces/mocks"
	"github.com/haguru/gatekeeper/internal/models"
	"github.com/haguru/gatekeeper/pkg/zerolog"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestManager(t *testing.T, store interfaces.SessionStore, clock *testClock) *Manager {
	t.Helper()
	m := NewManager(store, time.Hour, zerolog.NewLoggerWithWriter(io.Discard, "test", "debug"))
	m.now = clock.Now
	n := 0
	m.newToken = func() string {
		n++
		return fmt.Sprintf("token-%d", n)
	}
	return m
}

func newTestMemoryStore(t *testing.T, clock *testClock) *MemoryStore {
	t.Helper()
	store := NewMemoryStore(time.Hour)
	store.now = clock.Now
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestManager_Load(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := newTestMemoryStore(t, clock)
	m := newTestManager(t, store, clock)

	first, err := m.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "token-1", first.Token)
	assert.False(t, first.Authenticated())
	assert.Equal(t, clock.now.Add(time.Hour), first.ExpiresAt)

	again, err := m.Load(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, first.Token, again.Token)

	unknown, err := m.Load(ctx, "never-issued")
	require.NoError(t, err)
	assert.Equal(t, "token-2", unknown.Token)
	assert.False(t, unknown.Authenticated())

	clock.now = clock.now.Add(2 * time.Hour)
	expired, err := m.Load(ctx, first.Token)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, expired.Token)
}

func TestManager_LoginRotatesToken(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Now()}
	store := newTestMemoryStore(t, clock)
	m := newTestManager(t, store, clock)

	anon, err := m.Load(ctx, "")
	require.NoError(t, err)

	authed, err := m.Login(ctx, anon, "alice")
	require.NoError(t, err)

	assert.NotEqual(t, anon.Token, authed.Token)
	assert.True(t, authed.Authenticated())
	assert.False(t, anon.Authenticated())

	user, ok := m.CurrentIdentity(authed)
	assert.True(t, ok)
	assert.Equal(t, "alice", user)

	// the pre-login token no longer resolves
	old, err := m.Load(ctx, anon.Token)
	require.NoError(t, err)
	assert.NotEqual(t, anon.Token, old.Token)
	assert.False(t, old.Authenticated())

	reloaded, err := m.Load(ctx, authed.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", reloaded.Username)
}

func TestManager_Logout(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Now()}
	store := newTestMemoryStore(t, clock)
	m := newTestManager(t, store, clock)

	anon, err := m.Load(ctx, "")
	require.NoError(t, err)
	authed, err := m.Login(ctx, anon, "alice")
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx, authed))
	_, ok := m.CurrentIdentity(authed)
	assert.False(t, ok)

	next, err := m.Load(ctx, authed.Token)
	require.NoError(t, err)
	assert.NotEqual(t, authed.Token, next.Token)
	assert.False(t, next.Authenticated())

	// idempotent
	require.NoError(t, m.Logout(ctx, authed))
	require.NoError(t, m.Logout(ctx, nil))
}

func TestManager_CurrentIdentity(t *testing.T) {
	m := newTestManager(t, nil, &testClock{now: time.Now()})

	tests := []struct {
		name     string
		session  *models.Session
		wantUser string
		wantOK   bool
	}{
		{name: "nil session", session: nil},
		{name: "anonymous", session: &models.Session{Token: "t"}},
		{name: "authenticated", session: &models.Session{Token: "t", Username: "bob"}, wantUser: "bob", wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, ok := m.CurrentIdentity(tt.session)
			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestManager_StoreFailures(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Now()}
	storeErr := errors.New("connection reset")

	t.Run("get fails", func(t *testing.T) {
		store := mocks.NewMockSessionStore(t)
		store.On("Get", mock.Anything, "abc").Return(nil, storeErr)

		_, err := newTestManager(t, store, clock).Load(ctx, "abc")
		assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("save fails", func(t *testing.T) {
		store := mocks.NewMockSessionStore(t)
		store.On("Save", mock.Anything, mock.AnythingOfType("*models.Session")).Return(storeErr)

		_, err := newTestManager(t, store, clock).Load(ctx, "")
		assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	})

	t.Run("login keeps going when old token cannot be deleted", func(t *testing.T) {
		store := mocks.NewMockSessionStore(t)
		store.On("Save", mock.Anything, mock.AnythingOfType("*models.Session")).Return(nil)
		store.On("Delete", mock.Anything, "old").Return(storeErr)

		sess, err := newTestManager(t, store, clock).Login(ctx, &models.Session{Token: "old"}, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", sess.Username)
	})

	t.Run("logout fails", func(t *testing.T) {
		store := mocks.NewMockSessionStore(t)
		store.On("Delete", mock.Anything, "abc").Return(storeErr)

		err := newTestManager(t, store, clock).Logout(ctx, &models.Session{Token: "abc", Username: "alice"})
		assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	})

	t.Run("login without session", func(t *testing.T) {
		_, err := newTestManager(t, nil, clock).Login(ctx, nil, "alice")
		assert.Error(t, err)
	})
}
