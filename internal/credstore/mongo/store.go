// Package mongo implements the credential store on a MongoDB collection with a
// unique index on username.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/haguru/gatekeeper/internal/apperrors"
	"github.com/haguru/gatekeeper/internal/interfaces"
	"github.com/haguru/gatekeeper/internal/models"
	mongoclient "github.com/haguru/gatekeeper/pkg/databases/mongo"
	"github.com/haguru/gatekeeper/pkg/helper"
)

const (
	usernameField = "username"

	// Error messages for mongo store operations
	ErrEnsureIndex = "failed to ensure username index"
	ErrListUsers   = "failed to list users from MongoDB"
	ErrDecodeUser  = "failed to decode user document"
	ErrInsertUser  = "failed to add user to MongoDB"
)

// Store is a MongoDB-backed CredentialStore.
type Store struct {
	coll   *mongo.Collection
	client interfaces.DBClient
	logger interfaces.Logger
}

// NewStore wraps coll. client, when non-nil, is disconnected by Close.
func NewStore(coll *mongo.Collection, client interfaces.DBClient, logger interfaces.Logger) *Store {
	return &Store{coll: coll, client: client, logger: logger}
}

// EnsureIndexes creates the unique username index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := mongoclient.EnsureUniqueIndex(ctx, s.coll, usernameField); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrEnsureIndex, err)
	}
	return nil
}

// ListUsers reads every user document.
func (s *Store) ListUsers(ctx context.Context) (map[string]string, error) {
	s.logger.Debug("Entering function", "func", helper.GetFuncName())
	defer s.logger.Debug("Exiting function", "func", helper.GetFuncName())

	projection := options.Find().SetProjection(bson.D{
		{Key: "_id", Value: 0},
		{Key: usernameField, Value: 1},
		{Key: "password_hash", Value: 1},
	})
	cursor, err := s.coll.Find(ctx, bson.D{}, projection)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrListUsers, err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			s.logger.Warn("failed to close cursor", "error", err)
		}
	}()

	users := make(map[string]string)
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrDecodeUser, err)
		}
		if user.Username == "" {
			continue
		}
		users[user.Username] = user.PasswordHash
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrListUsers, err)
	}

	return users, nil
}

// AppendUser inserts one document. A duplicate key on the username index is
// reported as apperrors.ErrUsernameTaken.
func (s *Store) AppendUser(ctx context.Context, user models.User) error {
	s.logger.Debug("Entering function", "func", helper.GetFuncName())
	defer s.logger.Debug("Exiting function", "func", helper.GetFuncName())

	_, err := s.coll.InsertOne(ctx, bson.D{
		{Key: usernameField, Value: user.Username},
		{Key: "password_hash", Value: user.PasswordHash},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrInsertUser, err)
	}
	return nil
}

// Close disconnects the owning client.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}
