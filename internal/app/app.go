// Package app wires configuration, storage, services, and the HTTP server
// into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/osanchezal/sgc-backend/internal/adapter/postgres"
	recordpg "github.com/osanchezal/sgc-backend/internal/adapter/postgres/record"
	userpg "github.com/osanchezal/sgc-backend/internal/adapter/postgres/user"
	"github.com/osanchezal/sgc-backend/internal/auth"
	"github.com/osanchezal/sgc-backend/internal/config"
	"github.com/osanchezal/sgc-backend/internal/domain"
	"github.com/osanchezal/sgc-backend/internal/list"
	"github.com/osanchezal/sgc-backend/internal/notify"
	"github.com/osanchezal/sgc-backend/internal/service/records"
	"github.com/osanchezal/sgc-backend/internal/service/user"
	"github.com/osanchezal/sgc-backend/internal/store"
	"github.com/osanchezal/sgc-backend/internal/store/local"
	"github.com/osanchezal/sgc-backend/internal/transport/middleware"
	"github.com/osanchezal/sgc-backend/internal/transport/rest"
)

// userStore is the account repository surface the app needs, satisfied by
// both storage drivers.
type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	CreateIfAbsent(ctx context.Context, u *domain.User) (bool, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// pinger is the health check surface of a storage backend.
type pinger interface {
	Ping(ctx context.Context) error
}

// Run is the application entry point. It loads configuration, opens the
// configured storage driver, builds the services and HTTP router, and
// serves until the context is cancelled; then it drains in-flight requests
// within the shutdown timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("log_level", cfg.Log.Level),
	)

	recordStore, users, health, cleanup, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer cleanup()

	notifier := notify.New(
		notify.WithLimit(cfg.UI.ToastLimit),
		notify.WithDefaultDuration(cfg.UI.ToastDuration),
	)
	defer notifier.Close()

	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	userSvc := user.NewService(logger, users, jwt)
	recordSvc := records.NewService(logger, domain.DefaultRegistry(), recordStore, notifier,
		list.WithPageSize(cfg.UI.DefaultPageSize))

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handler := rest.NewRouter(
		logger,
		*cfg,
		rest.NewRecordsHandler(recordSvc, logger),
		rest.NewAuthHandler(userSvc, logger),
		rest.NewHealthHandler(health, BuildVersion()),
		userSvc,
		limiter,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStorage builds the record store, user store, and health pinger for
// the configured driver.
func openStorage(ctx context.Context, cfg config.StorageConfig) (store.Store, userStore, pinger, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		tx := postgres.NewTxManager(pool)
		recordStore := recordpg.NewStore(recordpg.New(pool), tx)
		return recordStore, userpg.New(pool), pool, pool.Close, nil

	case config.DriverLocal:
		st, err := local.New(cfg.LocalDir)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		users, err := local.NewUserStore(cfg.LocalDir)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return st, users, st, func() {}, nil

	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
