package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/gatekeeper/config"
	"github.com/haguru/gatekeeper/internal/routes"
	"github.com/haguru/gatekeeper/pkg/zerolog"
)

func testConfig(t *testing.T) *config.ServiceConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.ServiceConfig{
		ServiceName: "gatekeeper_test",
		LogLevel:    "info",
		Host:        "127.0.0.1",
		Port:        "0",
		Hasher:      config.Hasher{Algorithm: config.HasherBcrypt, BcryptCost: 4},
		CredentialStore: config.CredentialStore{
			Type: config.StoreTypeFile,
			File: config.FileConfig{Path: filepath.Join(dir, "users.txt")},
		},
		Session: config.Session{Lifetime: time.Hour},
	}
	cfg.ApplyDefaults()
	return cfg
}

func newTestApp(t *testing.T, cfg *config.ServiceConfig) *App {
	t.Helper()
	app, err := NewAppWithConfig(context.Background(), cfg, zerolog.NewLoggerWithWriter(io.Discard, "test", "info"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	return app
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name: "minimal file store",
			content: `service_name: gatekeeper
loglevel: info
host: localhost
port: "8080"
credential_store:
  type: file
`,
		},
		{
			name: "unknown store type",
			content: `service_name: gatekeeper
loglevel: info
host: localhost
port: "8080"
credential_store:
  type: csv
`,
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			content: "service_name: [",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			cfg, err := LoadConfig(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, config.DefaultUsersFile, cfg.CredentialStore.File.Path)
			assert.Equal(t, config.DefaultSessionLifetime, cfg.Session.Lifetime)
		})
	}
}

func TestNewAppWithConfig_Routes(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	handler := app.Server.Handler()

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, routes.CurrentRouteAPI, "", http.StatusOK},
		{http.MethodGet, routes.MetricsRouteAPI, "", http.StatusOK},
		{http.MethodPost, routes.SignupRouteAPI, `{"username":"alice","password":"pw","password_confirm":"pw"}`, http.StatusCreated},
		{http.MethodPost, routes.LoginRouteAPI, `{"username":"alice","password":"pw"}`, http.StatusOK},
		{http.MethodGet, routes.LogoutRouteAPI, "", http.StatusSeeOther},
		{http.MethodGet, "/unknown", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set(routes.ContentType, routes.ContentTypeJson)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestNewAppWithConfig_LoadsKeyFromFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.PrivateKeyPath = filepath.Join(t.TempDir(), "missing.pem")

	app := newTestApp(t, cfg)
	assert.NotNil(t, app.Server)
	_, err := os.Stat(cfg.PrivateKeyPath)
	assert.True(t, os.IsNotExist(err), "an ephemeral key is never written to disk")
}

func TestNewAppWithConfig_RedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Session.Store = config.SessionStore{
		Type:  config.SessionStoreRedis,
		Redis: config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "test:"},
	}

	app := newTestApp(t, cfg)

	rr := httptest.NewRecorder()
	app.Server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routes.CurrentRouteAPI, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, mr.Keys(), 1)
}

func TestNewAppWithConfig_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.ServiceConfig)
	}{
		{
			name:   "unsupported hasher",
			mutate: func(cfg *config.ServiceConfig) { cfg.Hasher.Algorithm = "md5" },
		},
		{
			name:   "unsupported credential store",
			mutate: func(cfg *config.ServiceConfig) { cfg.CredentialStore.Type = "csv" },
		},
		{
			name: "unreachable redis",
			mutate: func(cfg *config.ServiceConfig) {
				cfg.Session.Store = config.SessionStore{
					Type:  config.SessionStoreRedis,
					Redis: config.RedisConfig{Addr: "127.0.0.1:1"},
				}
			},
		},
		{
			name: "invalid mongo dsn",
			mutate: func(cfg *config.ServiceConfig) {
				cfg.CredentialStore.Type = config.StoreTypeMongo
				cfg.CredentialStore.MongoDB.DSN = "localhost:27017"
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			_, err := NewAppWithConfig(context.Background(), cfg, zerolog.NewLoggerWithWriter(io.Discard, "test", "info"))
			assert.Error(t, err)
		})
	}
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
