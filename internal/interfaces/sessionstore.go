package interfaces

import (
	"context"

	"github.com/haguru/gatekeeper/internal/models"
)

// SessionStore persists session state keyed by token. Get returns (nil, nil)
// for an unknown or expired token.
type SessionStore interface {
	Get(ctx context.Context, token string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, token string) error
	Close() error
}

// SessionManager owns the Anonymous/Authenticated state of every session.
type SessionManager interface {
	Load(ctx context.Context, token string) (*models.Session, error)
	Login(ctx context.Context, session *models.Session, username string) (*models.Session, error)
	Logout(ctx context.Context, session *models.Session) error
	CurrentIdentity(session *models.Session) (string, bool)
}
