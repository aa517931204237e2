package db

import (
	"context"
	"errors"

	"github.com/arkodev/learnhub/internal/config"
	"github.com/arkodev/learnhub/internal/domain/user"
	"github.com/arkodev/learnhub/internal/repo/postgres"
	"github.com/arkodev/learnhub/internal/security"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureAdminUser creates the configured instructor account on first boot.
// A no-op when the env vars are unset or the account already exists.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	repo := postgres.NewUsersRepo(pool)

	_, err := repo.GetByEmail(ctx, cfg.AdminEmail)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	_, err = repo.Create(ctx, cfg.AdminName, cfg.AdminEmail, hash, user.RoleInstructor)

	if errors.Is(err, user.ErrEmailInUse) {
		// lost a race with another instance; fine
		return nil
	}

	return err
}
