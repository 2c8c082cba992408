package routes

import (
	"errors"
	"net/http"

	"github.com/haguru/gatekeeper/internal/apperrors"
)

type operation int

const (
	opSignup operation = iota
	opLogin
)

// outcome is how a service error is presented: HTTP status, user-facing text
// and the metric reason label.
type outcome struct {
	status  int
	message string
	reason  string
}

func outcomeFor(op operation, err error) outcome {
	switch {
	case errors.Is(err, apperrors.ErrMissingField):
		msg := MsgSignupMissingField
		if op == opLogin {
			msg = MsgLoginMissingField
		}
		return outcome{http.StatusBadRequest, msg, ReasonMissingField}
	case errors.Is(err, apperrors.ErrInvalidUsername):
		return outcome{http.StatusBadRequest, MsgInvalidUsername, ReasonInvalidUsername}
	case errors.Is(err, apperrors.ErrPasswordMismatch):
		return outcome{http.StatusBadRequest, MsgPasswordMismatch, ReasonPasswordMismatch}
	case errors.Is(err, apperrors.ErrUsernameTaken):
		return outcome{http.StatusConflict, MsgUsernameTaken, ReasonUsernameTaken}
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return outcome{http.StatusUnauthorized, MsgInvalidCredentials, ReasonInvalidCredentials}
	default:
		return outcome{http.StatusInternalServerError, MsgSomethingWentWrong, ReasonInternal}
	}
}
