package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/directory/drivers/httpdir"
	"github.com/aussiebroadwan/passport/internal/auth/discovery"
	httpapi "github.com/aussiebroadwan/passport/internal/auth/http"
	"github.com/aussiebroadwan/passport/internal/auth/service"
	"github.com/aussiebroadwan/passport/internal/auth/store"
	"github.com/aussiebroadwan/passport/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/passport/pkg/httpx"
	"github.com/aussiebroadwan/passport/pkg/jwtx"
	"github.com/aussiebroadwan/passport/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the credential service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db        store.Store
	signer    *jwtx.HMACSigner
	redis     *redis.Client // nil in static discovery mode
	directory *httpdir.Client

	// Services
	engine              *service.CredentialEngine
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "passport",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	signer, err := jwtx.NewHMACSigner(jwtx.HMACSignerOptions{
		Secret:     []byte(cfg.JWTSecret),
		Algorithm:  cfg.JWTAlgorithm,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initDirectory(); err != nil {
		app.closeAll()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		app.closeAll()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("passport starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"algorithm", app.signer.Alg(),
		"discovery", app.cfg.DiscoveryMode,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down passport...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	if err := app.closeAll(); err != nil {
		return err
	}

	app.logger.Info("passport stopped")
	return nil
}

// closeAll releases the registry connection and the audit database.
func (app *Application) closeAll() error {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initDatabase initializes the audit database and applies migrations
func (app *Application) initDatabase() error {
	dsn := app.cfg.DatabaseFile
	if dsn != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	}

	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "schema_version", db.SchemaVersion())
	return nil
}

// initDirectory builds the service resolver and the user directory client
func (app *Application) initDirectory() error {
	var resolver discovery.Resolver

	switch app.cfg.DiscoveryMode {
	case DiscoveryRedis:
		app.redis = redis.NewClient(&redis.Options{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
		})
		rr := discovery.NewRedisResolver(app.redis, "")

		// Endpoints are resolved per request, so an unreachable registry
		// only degrades readiness.
		ctx, cancel := context.WithTimeout(context.Background(), app.cfg.DirectoryTimeout)
		defer cancel()
		if err := rr.Ping(ctx); err != nil {
			app.logger.Warn("service registry unreachable at startup", "addr", app.cfg.RedisAddr, "error", err)
		}
		resolver = rr

	default:
		sr, err := discovery.NewStaticResolver(map[string][]string{
			app.cfg.DirectoryService: app.cfg.DirectoryURLs,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize static discovery: %w", err)
		}
		resolver = sr
	}

	dir, err := httpdir.New(resolver, httpdir.Options{
		Service: app.cfg.DirectoryService,
		Timeout: app.cfg.DirectoryTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize directory client: %w", err)
	}
	app.directory = dir

	app.logger.Info("user directory configured",
		"service", app.cfg.DirectoryService,
		"discovery", app.cfg.DiscoveryMode,
		"timeout", app.cfg.DirectoryTimeout,
	)
	return nil
}

// initServices initializes the credential engine and background workers
func (app *Application) initServices() error {
	engine, err := service.NewCredentialEngine(service.EngineOptions{
		Signer:    app.signer,
		Directory: app.directory,
		Audit: service.MultiAuditSink{
			service.StoreAuditSink{Events: app.db.AuditEvents()},
			service.LogAuditSink{Logger: app.logger},
		},
		AllowedProviders: app.cfg.AllowedProviders,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize credential engine: %w", err)
	}
	app.engine = engine

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.AuditRetention,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.directory,
		app.logger,
	)

	// Wire services to router
	router.Engine = app.engine
	overrideLimit(&router.LoginLimit, app.cfg.LoginLimit)
	overrideLimit(&router.TokensLimit, app.cfg.TokensLimit)
	overrideLimit(&router.HealthLimit, app.cfg.HealthLimit)
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// overrideLimit replaces dst with a fully specified limit. Zero values keep
// the router default.
func overrideLimit(dst *httpx.RateLimitConfig, limit httpx.RateLimitConfig) {
	if limit.RequestsPerWindow > 0 && limit.Window > 0 && limit.Burst > 0 {
		*dst = limit
	}
}
