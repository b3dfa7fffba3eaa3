// Package server initializes and runs the chat backend: storage, the auth
// gateway, the broadcast relay, and graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lg0ma/MessagesVS/internal/logging"
	"github.com/Lg0ma/MessagesVS/internal/server/config"
	"github.com/Lg0ma/MessagesVS/internal/server/httpapi"
	"github.com/Lg0ma/MessagesVS/internal/server/relay"
	"github.com/Lg0ma/MessagesVS/internal/server/repositories/repomanager"
	"github.com/Lg0ma/MessagesVS/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	hub     *relay.Hub
	handler *httpapi.Handler
}

// NewApp wires the application together. An empty DatabaseDSN selects the
// in-memory user registry; otherwise a PostgreSQL pool is opened and the
// embedded migrations are applied.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewJSONLogger()

	var db *sql.DB
	var rm repomanager.RepositoryManager

	if cfg.DatabaseDSN == "" {
		rm = repomanager.NewMemoryRepositoryManager()
		logger.Info(ctx, "using in-memory user registry")
	} else {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		pm := repomanager.NewPostgresRepositoryManager()
		if err := pm.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
		rm = pm
	}

	users := services.NewUserService(db, rm, cfg)
	hub := relay.NewHub(logger)
	handler := httpapi.NewHandler(users, hub, cfg.SecretKey, cfg.AllowedOrigins, logger)

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		hub:     hub,
		handler: handler,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the relay hub and the HTTP server and blocks until the context
// is cancelled or the server fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	go app.hub.Run()

	// No WriteTimeout: long-lived WebSocket connections write far apart.
	srv := &http.Server{
		Addr:              app.config.Addr,
		Handler:           app.handler.Router(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	return app.shutdown(srv)
}

func (app *App) shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	app.logger.Info(ctx, "shutting down")

	if err := srv.Shutdown(ctx); err != nil {
		app.logger.Error(ctx, "http shutdown error", "error", err)
	}
	if err := app.hub.Shutdown(shutdownTimeout); err != nil {
		app.logger.Error(ctx, "relay shutdown error", "error", err)
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			return err
		}
	}

	app.logger.Info(ctx, "shutdown complete")
	return nil
}
