package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/student-manager/config"
	"github.com/oksasatya/student-manager/internal/application"
	"github.com/oksasatya/student-manager/internal/domain/entity"
	pginfra "github.com/oksasatya/student-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/student-manager/pkg/apperror"
	"github.com/oksasatya/student-manager/pkg/helpers"
)

// seed creates the first administrator from SEED_ADMIN_* so a fresh
// deployment does not need ADMIN_SECRET_CODE to bootstrap.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		logger.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	creds := application.NewCredentialStore(pginfra.NewIdentityRepository(pool))
	i, err := creds.Create(ctx, application.NewIdentity{
		Name:     cfg.SeedAdminName,
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
		Role:     entity.RolePrivileged,
	})
	switch {
	case errors.Is(err, apperror.ErrConflict):
		logger.WithField("email", cfg.SeedAdminEmail).Info("admin already exists, nothing to do")
	case err != nil:
		if e, ok := apperror.As(err); ok && len(e.Fields) > 0 {
			logger.WithField("fields", e.Fields).Fatal("invalid seed admin")
		}
		logger.WithError(err).Fatal("failed to seed admin")
	default:
		logger.WithField("identity_id", i.ID).WithField("email", i.Email).Info("seeded admin")
	}
}
