package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/gatekeeper/pkg/zerolog"
)

func newTestServer(middlewares ...Middleware) *Server {
	return NewServer("127.0.0.1", "0", zerolog.NewLoggerWithWriter(io.Discard, "test", "debug"), middlewares...)
}

func TestServer_AddRoute(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name    string
		setup   func(s *Server)
		route   string
		handler http.Handler
		wantErr bool
	}{
		{
			name:    "adds route",
			route:   "/ping",
			handler: ok,
		},
		{
			name:    "nil handler",
			route:   "/ping",
			handler: nil,
			wantErr: true,
		},
		{
			name:    "duplicate pattern",
			setup:   func(s *Server) { require.NoError(t, s.AddRoute("/ping", ok)) },
			route:   "/ping",
			handler: ok,
			wantErr: true,
		},
		{
			name:    "invalid pattern",
			route:   "/{",
			handler: ok,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			if tt.setup != nil {
				tt.setup(s)
			}
			err := s.AddRoute(tt.route, tt.handler)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.route, nil))
			assert.Equal(t, http.StatusNoContent, rr.Code)
		})
	}
}

func TestServer_MiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	s := newTestServer(mark("outer"), mark("inner"))
	require.NoError(t, s.AddRoute("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})))

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestServer_ShutdownStopsListenAndServe(t *testing.T) {
	s := newTestServer()
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe() }()

	// Shutdown may race with startup; either way ListenAndServe returns nil.
	require.NoError(t, s.Shutdown(context.Background()))
	assert.NoError(t, <-done)
}
