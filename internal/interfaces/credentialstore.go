package interfaces

import (
	"context"

	"github.com/haguru/gatekeeper/internal/models"
)

// CredentialStore is the durable username -> password hash mapping.
// Implementations must serialize AppendUser and reject a username that is
// already present with apperrors.ErrUsernameTaken.
type CredentialStore interface {
	// ListUsers returns every stored record keyed by username. A store that
	// does not exist yet is empty, not an error.
	ListUsers(ctx context.Context) (map[string]string, error)
	// AppendUser durably adds one record.
	AppendUser(ctx context.Context, user models.User) error
	Close(ctx context.Context) error
}
