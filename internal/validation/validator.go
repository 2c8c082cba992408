// Package validation checks sign-up and login input before any credential
// lookup happens. All functions are pure.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	structValidator "github.com/go-playground/validator/v10"

	"github.com/haguru/gatekeeper/internal/apperrors"
)

const (
	// UsernameTag is the validator tag for the username format.
	UsernameTag = "username"

	tagRequired = "required"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// Validator wraps a go-playground validator with the username rule registered.
// It is safe for concurrent use.
type Validator struct {
	validate *structValidator.Validate
}

// New registers the username rule on v, or on a fresh validator when v is nil.
func New(v *structValidator.Validate) (*Validator, error) {
	if v == nil {
		v = structValidator.New()
	}
	if err := v.RegisterValidation(UsernameTag, validUsername); err != nil {
		return nil, fmt.Errorf("failed to register %s validation: %w", UsernameTag, err)
	}
	return &Validator{validate: v}, nil
}

func validUsername(fl structValidator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// ValidateSignup runs the sign-up checks in order and stops at the first
// failure: missing field, username format, password confirmation, then
// username availability. It returns the trimmed username and the raw password.
func (v *Validator) ValidateSignup(username, password, passwordConfirm string, existing map[string]string) (string, string, error) {
	username = strings.TrimSpace(username)

	if !v.present(username) || !v.present(strings.TrimSpace(password)) || !v.present(strings.TrimSpace(passwordConfirm)) {
		return "", "", apperrors.ErrMissingField
	}

	if err := v.validate.Var(username, UsernameTag); err != nil {
		return "", "", apperrors.ErrInvalidUsername
	}

	if password != passwordConfirm {
		return "", "", apperrors.ErrPasswordMismatch
	}

	if _, taken := existing[username]; taken {
		return "", "", apperrors.ErrUsernameTaken
	}

	return username, password, nil
}

// ValidateLogin only checks presence; matching credentials is the caller's job.
func (v *Validator) ValidateLogin(username, password string) (string, string, error) {
	username = strings.TrimSpace(username)

	if !v.present(username) || !v.present(strings.TrimSpace(password)) {
		return "", "", apperrors.ErrMissingField
	}

	return username, password, nil
}

func (v *Validator) present(value string) bool {
	return v.validate.Var(value, tagRequired) == nil
}
