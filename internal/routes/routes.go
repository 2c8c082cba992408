package routes

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/haguru/gatekeeper/config"
	"github.com/haguru/gatekeeper/internal/interfaces"
	"github.com/haguru/gatekeeper/internal/metrics"
	"github.com/haguru/gatekeeper/internal/models"
	"github.com/haguru/gatekeeper/internal/models/dto"
	"github.com/haguru/gatekeeper/pkg/helper"
)

type Route struct {
	Metrics     interfaces.Metrics
	AuthService interfaces.AuthService
	Tokens      interfaces.TokenCodec
	Logger      interfaces.Logger
	cookie      config.Session
}

// NewRoute creates a new Route instance. metrics may be nil.
func NewRoute(metrics interfaces.Metrics, authService interfaces.AuthService,
	tokens interfaces.TokenCodec, logger interfaces.Logger, cookie config.Session,
) *Route {
	return &Route{
		Metrics:     metrics,
		AuthService: authService,
		Tokens:      tokens,
		Logger:      logger,
		cookie:      cookie,
	}
}

// Signup handles sign-up form submissions.
func (r *Route) Signup(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w, http.MethodPost)
		return
	}

	r.incCounter(metrics.SignupRequestsTotal)
	startTime := time.Now()

	signupRequest := &dto.SignupRequestDTO{}
	if err := decodeRequest(req, signupRequest); err != nil {
		r.Logger.Debug(ErrFailedToDecodeRequest, "func", helper.GetFuncName(), "error", err)
		r.incCounterVec(metrics.SignupErrorsTotal, ReasonBadRequest)
		r.writeErrors(w, http.StatusBadRequest, MsgInvalidRequestBody)
		return
	}

	_, err := r.AuthService.Signup(req.Context(), signupRequest.Username, signupRequest.Password, signupRequest.PasswordConfirm)
	r.observe(metrics.SignupDurationSeconds, startTime)
	if err != nil {
		out := outcomeFor(opSignup, err)
		r.incCounterVec(metrics.SignupErrorsTotal, out.reason)
		r.writeErrors(w, out.status, out.message)
		return
	}

	r.incCounter(metrics.SignupSuccessTotal)
	r.writeJSON(w, http.StatusCreated, &dto.MessagesResponseDTO{Messages: []string{MsgSignupSuccessful}})
}

// Login handles login form submissions. On success the session cookie is
// replaced and the client is sent to the landing page.
func (r *Route) Login(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w, http.MethodPost)
		return
	}

	r.incCounter(metrics.LoginRequestsTotal)
	startTime := time.Now()

	sess, created, err := r.resolveSession(req)
	if err != nil {
		r.incCounterVec(metrics.LoginErrorsTotal, ReasonInternal)
		r.writeErrors(w, http.StatusInternalServerError, MsgSomethingWentWrong)
		return
	}

	loginRequest := &dto.LoginRequestDTO{}
	if err := decodeRequest(req, loginRequest); err != nil {
		r.Logger.Debug(ErrFailedToDecodeRequest, "func", helper.GetFuncName(), "error", err)
		r.keepSession(w, sess, created)
		r.incCounterVec(metrics.LoginErrorsTotal, ReasonBadRequest)
		r.writeErrors(w, http.StatusBadRequest, MsgInvalidRequestBody)
		return
	}

	next, err := r.AuthService.Login(req.Context(), sess, loginRequest.Username, loginRequest.Password)
	r.observe(metrics.LoginDurationSeconds, startTime)
	if err != nil {
		out := outcomeFor(opLogin, err)
		r.keepSession(w, sess, created)
		r.incCounterVec(metrics.LoginErrorsTotal, out.reason)
		r.writeErrors(w, out.status, out.message)
		return
	}

	if err := r.setSessionCookie(w, next); err != nil {
		r.incCounterVec(metrics.LoginErrorsTotal, ReasonInternal)
		r.writeErrors(w, http.StatusInternalServerError, MsgSomethingWentWrong)
		return
	}

	r.incCounter(metrics.LoginSuccessTotal)

	if isFormPost(req) {
		http.Redirect(w, req, LandingPath, http.StatusSeeOther)
		return
	}
	r.writeJSON(w, http.StatusOK, &dto.LoginResponseDTO{Message: MsgLoginSuccessful, Redirect: LandingPath})
}

// Logout destroys the session, expires the cookie and redirects to the landing page.
func (r *Route) Logout(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodPost {
		r.methodNotAllowed(w, http.MethodGet+", "+http.MethodPost)
		return
	}

	r.incCounter(metrics.LogoutTotal)

	sess, _, err := r.resolveSession(req)
	if err != nil {
		r.writeErrors(w, http.StatusInternalServerError, MsgSomethingWentWrong)
		return
	}

	if err := r.AuthService.Logout(req.Context(), sess); err != nil {
		r.writeErrors(w, http.StatusInternalServerError, MsgSomethingWentWrong)
		return
	}

	r.clearSessionCookie(w)
	http.Redirect(w, req, LandingPath, http.StatusSeeOther)
}

// Current reports whether the caller's session is authenticated and as whom.
func (r *Route) Current(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w, http.MethodGet)
		return
	}

	sess, created, err := r.resolveSession(req)
	if err != nil {
		r.writeErrors(w, http.StatusInternalServerError, MsgSomethingWentWrong)
		return
	}
	r.keepSession(w, sess, created)

	username, ok := r.AuthService.CurrentIdentity(sess)
	r.writeJSON(w, http.StatusOK, &dto.IdentityResponseDTO{Authenticated: ok, Username: username})
}

// resolveSession maps the session cookie to a session. A missing cookie or one
// that fails verification counts as no cookie; created reports whether a new
// anonymous session was issued.
func (r *Route) resolveSession(req *http.Request) (*models.Session, bool, error) {
	token := ""
	if c, err := req.Cookie(r.cookie.CookieName); err == nil && c.Value != "" {
		decoded, err := r.Tokens.Decode(c.Value)
		if err != nil {
			r.Logger.Debug("ignoring invalid session cookie", "func", helper.GetFuncName(), "error", err)
		} else {
			token = decoded
		}
	}

	sess, err := r.AuthService.Session(req.Context(), token)
	if err != nil {
		r.Logger.Error(ErrFailedToResolveSession, "func", helper.GetFuncName(), "error", err)
		return nil, false, err
	}

	created := sess.Token != token
	if created {
		r.incCounter(metrics.SessionCreatedTotal)
	}
	return sess, created, nil
}

// keepSession sends the cookie for a session that was just created so the
// client keeps it.
func (r *Route) keepSession(w http.ResponseWriter, sess *models.Session, created bool) {
	if !created {
		return
	}
	if err := r.setSessionCookie(w, sess); err != nil {
		r.Logger.Warn(ErrFailedToEncodeCookie, "func", helper.GetFuncName(), "error", err)
	}
}

func (r *Route) setSessionCookie(w http.ResponseWriter, sess *models.Session) error {
	value, err := r.Tokens.Encode(sess.Token)
	if err != nil {
		r.Logger.Error(ErrFailedToEncodeCookie, "func", helper.GetFuncName(), "error", err)
		return fmt.Errorf("%s: %w", ErrFailedToEncodeCookie, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     r.cookie.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   r.cookie.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (r *Route) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     r.cookie.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.cookie.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// decodeRequest fills dst from a JSON body or an urlencoded form, decoding
// the form through its mapstructure tags.
func decodeRequest(req *http.Request, dst interface{}) error {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get(ContentType))
	if err != nil {
		return fmt.Errorf(ErrInvalidContentTypeFormat, req.Header.Get(ContentType))
	}

	req.Body = http.MaxBytesReader(nil, req.Body, maxBodyBytes)

	switch mediaType {
	case ContentTypeJson:
		return json.NewDecoder(req.Body).Decode(dst)
	case ContentTypeForm:
		if err := req.ParseForm(); err != nil {
			return err
		}
		fields := make(map[string]interface{}, len(req.PostForm))
		for key := range req.PostForm {
			fields[key] = req.PostForm.Get(key)
		}
		return mapstructure.Decode(fields, dst)
	default:
		return fmt.Errorf(ErrInvalidContentTypeFormat, mediaType)
	}
}

func isFormPost(req *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get(ContentType))
	return err == nil && mediaType == ContentTypeForm
}

func (r *Route) methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	r.writeErrors(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}

func (r *Route) writeErrors(w http.ResponseWriter, status int, messages ...string) {
	r.writeJSON(w, status, &dto.MessagesResponseDTO{Errors: messages})
}

func (r *Route) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "func", helper.GetFuncName(), "error", err)
	}
}

func (r *Route) incCounter(name string) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(name)
	}
}

func (r *Route) incCounterVec(name string, labels ...string) {
	if r.Metrics != nil {
		r.Metrics.IncCounterVec(name, labels...)
	}
}

func (r *Route) observe(name string, start time.Time) {
	if r.Metrics != nil {
		r.Metrics.ObserveHistogram(name, time.Since(start).Seconds())
	}
}
