// Package postgres implements the credential store on a PostgreSQL table whose
// primary key is the username.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/haguru/gatekeeper/internal/apperrors"
	"github.com/haguru/gatekeeper/internal/interfaces"
	"github.com/haguru/gatekeeper/internal/models"
	"github.com/haguru/gatekeeper/pkg/databases/postgres"
	"github.com/haguru/gatekeeper/pkg/helper"
)

// tableClient is the part of postgres.PostgresDatabaseClient the store uses.
type tableClient interface {
	InsertOne(ctx context.Context, tableName string, document map[string]interface{}) error
	FindAll(ctx context.Context, tableName string, columns []string, scan func(*sql.Rows) error) error
	EnsureSchema(ctx context.Context, createStmt string) error
	Disconnect(ctx context.Context) error
}

var _ tableClient = (*postgres.PostgresDatabaseClient)(nil)

// Store is a PostgreSQL-backed CredentialStore.
type Store struct {
	client tableClient
	table  string
	logger interfaces.Logger
}

// NewStore creates the store over a connected client and makes sure the users
// table exists.
func NewStore(ctx context.Context, client *postgres.PostgresDatabaseClient, table string, logger interfaces.Logger) (*Store, error) {
	return newStore(ctx, client, table, logger)
}

func newStore(ctx context.Context, client tableClient, table string, logger interfaces.Logger) (*Store, error) {
	if err := postgres.ValidateIdentifier(table); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrEnsureTable, err)
	}

	s := &Store{client: client, table: table, logger: logger}
	if err := client.EnsureSchema(ctx, fmt.Sprintf(createTableStmt, table)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrEnsureTable, err)
	}
	return s, nil
}

// ListUsers reads every row of the users table.
func (s *Store) ListUsers(ctx context.Context) (map[string]string, error) {
	s.logger.Debug("Entering function", "func", helper.GetFuncName())
	defer s.logger.Debug("Exiting function", "func", helper.GetFuncName())

	users := make(map[string]string)
	err := s.client.FindAll(ctx, s.table, []string{usernameColumn, passwordHashColumn}, func(rows *sql.Rows) error {
		var username, hash string
		if err := rows.Scan(&username, &hash); err != nil {
			return fmt.Errorf("%s: %w", ErrScanUser, err)
		}
		users[username] = hash
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrListUsers, err)
	}
	return users, nil
}

// AppendUser inserts one row. The primary key makes a concurrent duplicate
// fail with a unique violation, reported as apperrors.ErrUsernameTaken.
func (s *Store) AppendUser(ctx context.Context, user models.User) error {
	s.logger.Debug("Entering function", "func", helper.GetFuncName())
	defer s.logger.Debug("Exiting function", "func", helper.GetFuncName())

	doc := map[string]interface{}{
		usernameColumn:     user.Username,
		passwordHashColumn: user.PasswordHash,
	}
	if err := s.client.InsertOne(ctx, s.table, doc); err != nil {
		return mapInsertError(err)
	}
	return nil
}

// Close closes the PostgreSQL database connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func mapInsertError(err error) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && string(pgErr.Code) == uniqueViolation {
		return apperrors.ErrUsernameTaken
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrInsertUser, err)
}
