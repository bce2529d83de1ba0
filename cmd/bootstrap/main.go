// Command bootstrap prepares a deployment: it applies the embedded schema
// migrations (postgres driver only) and creates the administrator account
// if it does not exist yet. Safe to run repeatedly.
//
// Flags:
//
//	--skip-migrations  only ensure the admin account
//	--skip-admin       only apply migrations
//
// The admin credentials come from AUTH_ADMIN_EMAIL and AUTH_ADMIN_PASSWORD.
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/osanchezal/sgc-backend/internal/adapter/postgres"
	userpg "github.com/osanchezal/sgc-backend/internal/adapter/postgres/user"
	"github.com/osanchezal/sgc-backend/internal/app"
	"github.com/osanchezal/sgc-backend/internal/auth"
	"github.com/osanchezal/sgc-backend/internal/config"
	"github.com/osanchezal/sgc-backend/internal/domain"
	"github.com/osanchezal/sgc-backend/internal/service/user"
	"github.com/osanchezal/sgc-backend/internal/store/local"
	"github.com/osanchezal/sgc-backend/migrations"
)

func main() {
	skipMigrations := flag.Bool("skip-migrations", false, "only ensure the admin account")
	skipAdmin := flag.Bool("skip-admin", false, "only apply migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, logger, cfg, *skipMigrations, *skipAdmin); err != nil {
		logger.Error("bootstrap failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("bootstrap completed")
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, skipMigrations, skipAdmin bool) error {
	if cfg.Storage.Driver == config.DriverPostgres && !skipMigrations {
		if err := migrate(ctx, logger, cfg.Storage.Database.DSN); err != nil {
			return err
		}
	}

	if skipAdmin {
		return nil
	}

	if cfg.Auth.AdminPassword == "" {
		return fmt.Errorf("AUTH_ADMIN_PASSWORD is required to create the admin account")
	}

	users, cleanup, err := openUserStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer cleanup()

	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	svc := user.NewService(logger, users, jwt)

	created, err := svc.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		logger.Info("admin account created", slog.String("email", cfg.Auth.AdminEmail))
	} else {
		logger.Info("admin account already exists", slog.String("email", cfg.Auth.AdminEmail))
	}
	return nil
}

// migrate applies the embedded goose migrations. goose requires a *sql.DB,
// so it connects through the pgx stdlib driver.
func migrate(ctx context.Context, logger *slog.Logger, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	logger.Info("migrations applied", slog.Int("count", len(results)))
	return nil
}

// userStore is the account repository surface needed by the user service,
// satisfied by both storage drivers.
type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	CreateIfAbsent(ctx context.Context, u *domain.User) (bool, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

func openUserStore(ctx context.Context, cfg config.StorageConfig) (userStore, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return userpg.New(pool), pool.Close, nil
	case config.DriverLocal:
		users, err := local.NewUserStore(cfg.LocalDir)
		if err != nil {
			return nil, nil, err
		}
		return users, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
