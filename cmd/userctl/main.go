// Command userctl manages operator accounts from the command line.
// There is no self-registration; every account is provisioned here or by
// the bootstrap command.
//
// Usage:
//
//	userctl create -email ana@example.com -name "Ana" -role admin -password secreto
//	userctl reset-password -email ana@example.com -password nuevo-secreto
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/osanchezal/sgc-backend/internal/adapter/postgres"
	userpg "github.com/osanchezal/sgc-backend/internal/adapter/postgres/user"
	"github.com/osanchezal/sgc-backend/internal/app"
	"github.com/osanchezal/sgc-backend/internal/auth"
	"github.com/osanchezal/sgc-backend/internal/config"
	"github.com/osanchezal/sgc-backend/internal/domain"
	"github.com/osanchezal/sgc-backend/internal/service/user"
	"github.com/osanchezal/sgc-backend/internal/store/local"
)

// userStore is the account repository surface needed by the user service,
// satisfied by both storage drivers.
type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	CreateIfAbsent(ctx context.Context, u *domain.User) (bool, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	command := os.Args[1]

	createFlags := flag.NewFlagSet("create", flag.ExitOnError)
	createEmail := createFlags.String("email", "", "account email")
	createName := createFlags.String("name", "", "display name")
	createRole := createFlags.String("role", "user", "role: user or admin")
	createPassword := createFlags.String("password", "", "initial password")

	resetFlags := flag.NewFlagSet("reset-password", flag.ExitOnError)
	resetEmail := resetFlags.String("email", "", "account email")
	resetPassword := resetFlags.String("password", "", "new password")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users, cleanup, err := openUserStore(ctx, cfg.Storage)
	if err != nil {
		logger.Error("open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	svc := user.NewService(logger, users, jwt)

	switch command {
	case "create":
		createFlags.Parse(os.Args[2:]) //nolint:errcheck
		u, err := svc.CreateUser(ctx, user.CreateUserInput{
			Email:    *createEmail,
			Name:     *createName,
			Role:     domain.Role(*createRole),
			Password: *createPassword,
		})
		if err != nil {
			logger.Error("create user", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("created %s (%s)\n", u.Email, u.Role)

	case "reset-password":
		resetFlags.Parse(os.Args[2:]) //nolint:errcheck
		if err := svc.ResetPassword(ctx, *resetEmail, *resetPassword); err != nil {
			logger.Error("reset password", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("password updated for %s\n", *resetEmail)

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: userctl <create|reset-password> [flags]")
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
