// Package authservice orchestrates sign-up, login, logout and identity
// queries over the validator, password hasher, credential store and session
// manager.
package authservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/gatekeeper/internal/apperrors"
	"github.com/haguru/gatekeeper/internal/interfaces"
	"github.com/haguru/gatekeeper/internal/models"
	"github.com/haguru/gatekeeper/internal/validation"
	"github.com/haguru/gatekeeper/pkg/helper"
)

type AuthService struct {
	Store     interfaces.CredentialStore
	Hasher    interfaces.PasswordHasher
	Validator *validation.Validator
	Sessions  interfaces.SessionManager
	Logger    interfaces.Logger

	dummyHash string
}

var _ interfaces.AuthService = (*AuthService)(nil)

// NewAuthService creates a new AuthService instance.
func NewAuthService(store interfaces.CredentialStore, hasher interfaces.PasswordHasher, validator *validation.Validator, sessions interfaces.SessionManager, logger interfaces.Logger) (*AuthService, error) {
	if store == nil || hasher == nil || validator == nil || sessions == nil || logger == nil {
		return nil, errors.New(ErrNilDependency)
	}

	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		Store:     store,
		Hasher:    hasher,
		Validator: validator,
		Sessions:  sessions,
		Logger:    logger,
		dummyHash: dummyHash,
	}, nil
}

// Session resolves the client's session, creating an anonymous one when needed.
func (s *AuthService) Session(ctx context.Context, token string) (*models.Session, error) {
	sess, err := s.Sessions.Load(ctx, token)
	if err != nil {
		s.Logger.Error(ErrCreatingSession, "func", helper.GetFuncName(), "error", err)
		return nil, storeUnavailable(err)
	}
	return sess, nil
}

// Signup validates the request, hashes the password and appends the record.
// Nothing is written unless every check passes.
func (s *AuthService) Signup(ctx context.Context, username, password, passwordConfirm string) (string, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", username)

	users, err := s.Store.ListUsers(ctx)
	if err != nil {
		s.Logger.Error(ErrRetrievingUsers, "func", funcName, "error", err)
		return "", storeUnavailable(err)
	}

	name, pw, err := s.Validator.ValidateSignup(username, password, passwordConfirm, users)
	if err != nil {
		s.Logger.Debug("sign-up rejected", "func", funcName, "user", username, "reason", err)
		return "", err
	}

	hashedPassword, err := s.Hasher.Hash(pw)
	if err != nil {
		s.Logger.Error(ErrFailedToHashPassword, "func", funcName, "user", name, "error", err)
		return "", err
	}

	if err := s.Store.AppendUser(ctx, *models.NewUser(name, hashedPassword)); err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			s.Logger.Info("sign-up lost race for username", "func", funcName, "user", name)
			return "", apperrors.ErrUsernameTaken
		}
		s.Logger.Error(ErrFailedToRegisterUser, "func", funcName, "user", name, "error", err)
		return "", storeUnavailable(err)
	}

	s.Logger.Info("User registered successfully", "func", funcName, "user", name)
	return name, nil
}

// Login verifies the credentials and binds the username to the session. The
// returned session replaces sess. Unknown users and wrong passwords yield the
// same error.
func (s *AuthService) Login(ctx context.Context, sess *models.Session, username, password string) (*models.Session, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", username)

	name, pw, err := s.Validator.ValidateLogin(username, password)
	if err != nil {
		s.Logger.Debug("login rejected", "func", funcName, "reason", err)
		return nil, err
	}

	users, err := s.Store.ListUsers(ctx)
	if err != nil {
		s.Logger.Error(ErrRetrievingUsers, "func", funcName, "error", err)
		return nil, storeUnavailable(err)
	}

	hash, found := users[name]
	if !found {
		s.Hasher.Verify(pw, s.dummyHash)
		s.Logger.Info("login failed", "func", funcName, "user", name)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !s.Hasher.Verify(pw, hash) {
		s.Logger.Info("login failed", "func", funcName, "user", name)
		return nil, apperrors.ErrInvalidCredentials
	}

	next, err := s.Sessions.Login(ctx, sess, name)
	if err != nil {
		s.Logger.Error(ErrCreatingSession, "func", funcName, "user", name, "error", err)
		return nil, storeUnavailable(err)
	}

	s.Logger.Info("User authenticated successfully", "func", funcName, "user", name)
	return next, nil
}

// Logout ends the session. It succeeds for anonymous sessions too.
func (s *AuthService) Logout(ctx context.Context, sess *models.Session) error {
	funcName := helper.GetFuncName()
	user, _ := s.Sessions.CurrentIdentity(sess)

	if err := s.Sessions.Logout(ctx, sess); err != nil {
		s.Logger.Error("logout failed", "func", funcName, "user", user, "error", err)
		return storeUnavailable(err)
	}
	if user != "" {
		s.Logger.Info("User logged out", "func", funcName, "user", user)
	}
	return nil
}

// CurrentIdentity reports the username bound to the session, if any.
func (s *AuthService) CurrentIdentity(sess *models.Session) (string, bool) {
	return s.Sessions.CurrentIdentity(sess)
}

func storeUnavailable(err error) error {
	if errors.Is(err, apperrors.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
}
