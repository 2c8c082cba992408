package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/gatekeeper/config"
	"github.com/haguru/gatekeeper/internal/authservice"
	"github.com/haguru/gatekeeper/internal/credstore/file"
	"github.com/haguru/gatekeeper/internal/hasher"
	"github.com/haguru/gatekeeper/internal/metrics"
	"github.com/haguru/gatekeeper/internal/models/dto"
	"github.com/haguru/gatekeeper/internal/session"
	"github.com/haguru/gatekeeper/internal/validation"
	"github.com/haguru/gatekeeper/pkg/zerolog"
)

func newFlowServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zerolog.NewLoggerWithWriter(io.Discard, "test", "info")

	h, err := hasher.New(config.Hasher{Algorithm: config.HasherBcrypt, BcryptCost: 4})
	require.NoError(t, err)
	v, err := validation.New(nil)
	require.NoError(t, err)

	sessionStore := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = sessionStore.Close() })
	manager := session.NewManager(sessionStore, time.Hour, logger)

	store := file.NewStore(filepath.Join(t.TempDir(), "users.txt"), logger)
	svc, err := authservice.NewAuthService(store, h, v, manager, logger)
	require.NoError(t, err)

	route := NewRoute(metrics.NewMetrics("flow"), svc, newTestCodec(t), logger, testCookieConfig)

	mux := http.NewServeMux()
	mux.HandleFunc(SignupRouteAPI, route.Signup)
	mux.HandleFunc(LoginRouteAPI, route.Login)
	mux.HandleFunc(LogoutRouteAPI, route.Logout)
	mux.HandleFunc(CurrentRouteAPI, route.Current)
	mux.HandleFunc(IndexRouteAPI, route.Current)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newFlowClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.Post(target, ContentTypeForm, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func currentIdentity(t *testing.T, client *http.Client, base string) dto.IdentityResponseDTO {
	t.Helper()
	resp, err := client.Get(base + CurrentRouteAPI)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var identity dto.IdentityResponseDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&identity))
	return identity
}

func TestFlow_SignupLoginLogout(t *testing.T) {
	srv := newFlowServer(t)
	client := newFlowClient(t)

	assert.False(t, currentIdentity(t, client, srv.URL).Authenticated)

	resp := postForm(t, client, srv.URL+SignupRouteAPI, url.Values{
		"username": {"alice"}, "password": {"s3cret"}, "password_confirm": {"s3cret"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postForm(t, client, srv.URL+SignupRouteAPI, url.Values{
		"username": {"alice"}, "password": {"other"}, "password_confirm": {"other"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postForm(t, client, srv.URL+LoginRouteAPI, url.Values{
		"username": {"alice"}, "password": {"wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, currentIdentity(t, client, srv.URL).Authenticated)

	resp = postForm(t, client, srv.URL+LoginRouteAPI, url.Values{
		"username": {"alice"}, "password": {"s3cret"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, LandingPath, resp.Header.Get("Location"))

	identity := currentIdentity(t, client, srv.URL)
	assert.True(t, identity.Authenticated)
	assert.Equal(t, "alice", identity.Username)

	logout, err := client.Get(srv.URL + LogoutRouteAPI)
	require.NoError(t, err)
	logout.Body.Close()
	assert.Equal(t, http.StatusSeeOther, logout.StatusCode)

	assert.False(t, currentIdentity(t, client, srv.URL).Authenticated)
}

func TestFlow_SessionsAreIsolated(t *testing.T) {
	srv := newFlowServer(t)
	alice := newFlowClient(t)
	other := newFlowClient(t)

	resp := postForm(t, alice, srv.URL+SignupRouteAPI, url.Values{
		"username": {"alice"}, "password": {"pw"}, "password_confirm": {"pw"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = postForm(t, alice, srv.URL+LoginRouteAPI, url.Values{
		"username": {"alice"}, "password": {"pw"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	assert.True(t, currentIdentity(t, alice, srv.URL).Authenticated)
	assert.False(t, currentIdentity(t, other, srv.URL).Authenticated)
}
