// Package session tracks whether each client session is anonymous or bound to
// a username. Sessions are created implicitly the first time a token is seen.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/haguru/gatekeeper/internal/apperrors"
	"github.com/haguru/gatekeeper/internal/interfaces"
	"github.com/haguru/gatekeeper/internal/models"
	"github.com/haguru/gatekeeper/pkg/helper"
)

// Manager implements interfaces.SessionManager over a SessionStore.
type Manager struct {
	store    interfaces.SessionStore
	lifetime time.Duration
	logger   interfaces.Logger

	now      func() time.Time
	newToken func() string
}

var _ interfaces.SessionManager = (*Manager)(nil)

// NewManager returns a manager issuing sessions that live for lifetime.
func NewManager(store interfaces.SessionStore, lifetime time.Duration, logger interfaces.Logger) *Manager {
	return &Manager{
		store:    store,
		lifetime: lifetime,
		logger:   logger,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Load returns the live session for token. An empty, unknown or expired token
// yields a fresh anonymous session under a new token.
func (m *Manager) Load(ctx context.Context, token string) (*models.Session, error) {
	m.logger.Debug("Entering function", "func", helper.GetFuncName())
	defer m.logger.Debug("Exiting function", "func", helper.GetFuncName())

	if token != "" {
		sess, err := m.store.Get(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrLoadSession, err)
		}
		if sess != nil && !sess.Expired(m.now()) {
			return sess, nil
		}
	}

	return m.create(ctx, "")
}

// Login binds username to the session. The session is reissued under a new
// token and the old token is discarded.
func (m *Manager) Login(ctx context.Context, sess *models.Session, username string) (*models.Session, error) {
	m.logger.Debug("Entering function", "func", helper.GetFuncName())
	defer m.logger.Debug("Exiting function", "func", helper.GetFuncName())

	if sess == nil {
		return nil, errors.New(ErrNilSession)
	}

	next, err := m.create(ctx, username)
	if err != nil {
		return nil, err
	}

	if sess.Token != "" {
		if err := m.store.Delete(ctx, sess.Token); err != nil {
			m.logger.Warn("failed to discard pre-login session", "error", err)
		}
	}
	sess.Username = ""

	return next, nil
}

// Logout clears the identity and forgets the token. Logging out an anonymous
// or already destroyed session succeeds.
func (m *Manager) Logout(ctx context.Context, sess *models.Session) error {
	m.logger.Debug("Entering function", "func", helper.GetFuncName())
	defer m.logger.Debug("Exiting function", "func", helper.GetFuncName())

	if sess == nil {
		return nil
	}
	sess.Username = ""
	if sess.Token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, sess.Token); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrDeleteSession, err)
	}
	return nil
}

// CurrentIdentity returns the bound username, if any.
func (m *Manager) CurrentIdentity(sess *models.Session) (string, bool) {
	if !sess.Authenticated() {
		return "", false
	}
	return sess.Username, true
}

func (m *Manager) create(ctx context.Context, username string) (*models.Session, error) {
	sess := models.NewSession(m.newToken(), m.now(), m.lifetime)
	sess.Username = username
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrSaveSession, err)
	}
	return sess, nil
}
