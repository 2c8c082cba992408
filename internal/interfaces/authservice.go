package interfaces

import (
	"context"

	"github.com/haguru/gatekeeper/internal/models"
)

// AuthService dispatches the sign-up, login, logout and identity operations.
type AuthService interface {
	// Session resolves the session for a client token, creating an anonymous
	// one when the token is empty or unknown.
	Session(ctx context.Context, token string) (*models.Session, error)
	Signup(ctx context.Context, username, password, passwordConfirm string) (string, error)
	Login(ctx context.Context, session *models.Session, username, password string) (*models.Session, error)
	Logout(ctx context.Context, session *models.Session) error
	CurrentIdentity(session *models.Session) (string, bool)
}

// TokenCodec turns a session token into the signed cookie value and back.
type TokenCodec interface {
	Encode(sessionToken string) (string, error)
	Decode(cookieValue string) (string, error)
}
