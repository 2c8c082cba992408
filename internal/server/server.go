package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/haguru/gatekeeper/internal/interfaces"
)

var (
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 10 * time.Second
	IdleTimeout  = 30 * time.Second
)

// Middleware wraps the whole route table.
type Middleware func(http.Handler) http.Handler

type Server struct {
	Port   string
	Host   string
	server *http.Server
	mux    *http.ServeMux
	Logger interfaces.Logger
}

var _ interfaces.Server = (*Server)(nil)

// NewServer creates a new Server instance with the specified host and port.
// Middlewares are applied in order, the first one being outermost.
func NewServer(host, port string, logger interfaces.Logger, middlewares ...Middleware) *Server {
	mux := http.NewServeMux()

	var handler http.Handler = mux
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	server := &http.Server{
		Addr:         net.JoinHostPort(host, port),
		Handler:      handler,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	return &Server{
		Host:   host,
		Port:   port,
		server: server,
		mux:    mux,
		Logger: logger,
	}
}

// AddRoute registers handler for the given ServeMux pattern. It returns an
// error instead of panicking when the pattern is invalid or already taken.
func (s *Server) AddRoute(route string, handler http.Handler) (err error) {
	if handler == nil {
		return fmt.Errorf("%s: %s", ErrNilHandler, route)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s %q: %v", ErrFailedToAddRoute, route, r)
		}
	}()
	s.mux.Handle(route, handler)
	s.Logger.Info("Route added", "route", route)
	return nil
}

// Handler returns the server's root handler including its middlewares.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe starts the HTTP server and blocks until it stops. A stop
// caused by Shutdown is not an error.
func (s *Server) ListenAndServe() error {
	s.Logger.Info("Starting server", "host", s.Host, "port", s.Port)
	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.Logger.Error(ErrFailedToStartServer, "error", err)
		return fmt.Errorf("%s: %w", ErrFailedToStartServer, err)
	}

	return nil
}

// Shutdown stops accepting connections and waits for active requests until
// ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("Shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrFailedToShutdown, err)
	}
	return nil
}
