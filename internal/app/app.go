// Package app wires the configured stores, hasher, session manager and HTTP
// routes into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/haguru/gatekeeper/config"
	"github.com/haguru/gatekeeper/internal/auth"
	"github.com/haguru/gatekeeper/internal/authservice"
	fileStore "github.com/haguru/gatekeeper/internal/credstore/file"
	mongoStore "github.com/haguru/gatekeeper/internal/credstore/mongo"
	postgresStore "github.com/haguru/gatekeeper/internal/credstore/postgres"
	"github.com/haguru/gatekeeper/internal/hasher"
	"github.com/haguru/gatekeeper/internal/interfaces"
	"github.com/haguru/gatekeeper/internal/metrics"
	"github.com/haguru/gatekeeper/internal/middleware"
	"github.com/haguru/gatekeeper/internal/routes"
	"github.com/haguru/gatekeeper/internal/server"
	"github.com/haguru/gatekeeper/internal/session"
	"github.com/haguru/gatekeeper/internal/validation"
	"github.com/haguru/gatekeeper/pkg/databases/mongo"
	"github.com/haguru/gatekeeper/pkg/databases/postgres"
	"github.com/haguru/gatekeeper/pkg/zerolog"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
var ShutdownTimeout = 10 * time.Second

// App represents the main application, containing server and configuration.
type App struct {
	Server  *server.Server
	Config  *config.ServiceConfig
	Logger  interfaces.Logger
	Metrics interfaces.Metrics

	credentials interfaces.CredentialStore
	sessions    interfaces.SessionStore
}

// LoadConfig reads, defaults and validates the configuration at configPath.
func LoadConfig(configPath string) (*config.ServiceConfig, error) {
	cfg, err := config.ReadLocalConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrReadConfig, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(structValidator.New()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewApp creates and configures a new App instance from a config file.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := zerolog.NewZerologLogger(cfg.ServiceName, cfg.LogLevel)
	return NewAppWithConfig(ctx, cfg, logger)
}

// NewAppWithConfig builds the App from an already validated configuration.
// Resources opened before a failure are released.
func NewAppWithConfig(ctx context.Context, cfg *config.ServiceConfig, logger interfaces.Logger) (_ *App, err error) {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewMetrics(cfg.ServiceName),
	}
	defer func() {
		if err != nil {
			app.Close(context.Background())
		}
	}()

	passwordHasher, err := hasher.New(cfg.Hasher)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInitHasher, err)
	}

	validator, err := validation.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInitValidator, err)
	}

	app.credentials, err = app.initializeCredentialStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInitCredentialStore, err)
	}

	app.sessions, err = app.initializeSessionStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInitSessionStore, err)
	}
	manager := session.NewManager(app.sessions, cfg.Session.Lifetime, logger)

	tokens, err := app.initializeTokenCodec()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInitPrivateKey, err)
	}

	authService, err := authservice.NewAuthService(app.credentials, passwordHasher, validator, manager, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInitAuthService, err)
	}

	route := routes.NewRoute(app.Metrics, authService, tokens, logger, cfg.Session)

	app.Server = server.NewServer(cfg.Host, cfg.Port, logger, middleware.RequestLogger(logger, app.Metrics))
	if err := app.addRoutes(route); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *App) addRoutes(route *routes.Route) error {
	metricsHandler := promhttp.HandlerFor(app.Metrics.GetRegistry(), promhttp.HandlerOpts{})
	tracedMetricsHandler := otelhttp.NewHandler(metricsHandler, routes.MetricsRouteAPI)

	table := []struct {
		pattern string
		handler http.Handler
	}{
		{routes.MetricsRouteAPI, tracedMetricsHandler},
		{routes.SignupRouteAPI, http.HandlerFunc(route.Signup)},
		{routes.LoginRouteAPI, http.HandlerFunc(route.Login)},
		{routes.LogoutRouteAPI, http.HandlerFunc(route.Logout)},
		{routes.CurrentRouteAPI, http.HandlerFunc(route.Current)},
		{routes.IndexRouteAPI, http.HandlerFunc(route.Current)},
	}
	for _, r := range table {
		if err := app.Server.AddRoute(r.pattern, r.handler); err != nil {
			return fmt.Errorf("%s %s: %w", ErrAddRoute, r.pattern, err)
		}
	}
	return nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts the
// server down gracefully and closes the stores.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Server.ListenAndServe()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		app.Logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			serveErr = err
		}
		if err := <-errCh; err != nil {
			serveErr = errors.Join(serveErr, err)
		}
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return errors.Join(serveErr, app.Close(closeCtx))
}

// Close releases the credential and session stores.
func (app *App) Close(ctx context.Context) error {
	var errs []error
	if app.credentials != nil {
		if err := app.credentials.Close(ctx); err != nil {
			errs = append(errs, err)
		}
		app.credentials = nil
	}
	if app.sessions != nil {
		if err := app.sessions.Close(); err != nil {
			errs = append(errs, err)
		}
		app.sessions = nil
	}
	return errors.Join(errs...)
}

func (app *App) initializeCredentialStore(ctx context.Context) (interfaces.CredentialStore, error) {
	storeCfg := app.Config.CredentialStore

	switch storeCfg.Type {
	case config.StoreTypeFile:
		return fileStore.NewStore(storeCfg.File.Path, app.Logger), nil

	case config.StoreTypePostgres:
		client := postgres.NewPostgresDatabaseClient(storeCfg.Postgres.Options)
		if err := client.Connect(ctx, storeCfg.Postgres.DSN); err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		store, err := postgresStore.NewStore(ctx, client, storeCfg.Postgres.TableName, app.Logger)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return store, nil

	case config.StoreTypeMongo:
		client := mongo.NewMongoDB(&storeCfg.MongoDB, app.Logger)
		if err := client.Connect(ctx, storeCfg.MongoDB.DSN); err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		coll, err := client.Collection(storeCfg.MongoDB.CollectionName)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		store := mongoStore.NewStore(coll, client, app.Logger)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%s: %s", ErrUnsupportedStoreType, storeCfg.Type)
	}
}

func (app *App) initializeSessionStore(ctx context.Context) (interfaces.SessionStore, error) {
	storeCfg := app.Config.Session.Store

	switch storeCfg.Type {
	case config.SessionStoreMemory:
		return session.NewMemoryStore(session.DefaultCleanupInterval), nil

	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     storeCfg.Redis.Addr,
			Password: storeCfg.Redis.Password,
			DB:       storeCfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return session.NewRedisStore(client, storeCfg.Redis.KeyPrefix), nil

	default:
		return nil, fmt.Errorf("%s: %s", ErrUnsupportedSessionStore, storeCfg.Type)
	}
}

// initializeTokenCodec loads the cookie signing key, falling back to an
// ephemeral one when none is configured or the file is missing.
func (app *App) initializeTokenCodec() (*auth.TokenCodec, error) {
	key, generated, err := auth.LoadOrGenerateKey(app.Config.PrivateKeyPath)
	if err != nil {
		return nil, err
	}
	if generated {
		app.Logger.Warn("using an ephemeral signing key, sessions will not survive a restart",
			"private_key_path", app.Config.PrivateKeyPath)
	}

	return auth.NewTokenCodec(key, app.Config.Session.Lifetime)
}
