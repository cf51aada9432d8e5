package db

import (
	"context"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/auth"
	"hrms/internal/platform/config"
)

// Seed ensures the configured admin account exists. It never downgrades or
// overwrites an existing user.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" || cfg.SeedAdminPassword == "" {
		log.Println("seed skipped: SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set")
		return nil
	}

	var existing int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE lower(email) = $1", email).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (name, email, password_hash, role, department, position, is_active)
    VALUES ($1,$2,$3,$4,'Management','Administrator',true)
  `, cfg.SeedAdminName, email, hash, auth.RoleAdmin)
	return err
}
