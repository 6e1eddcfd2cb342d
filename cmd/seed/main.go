// Package main provides a CLI tool for seeding the database with initial data:
// report statuses, roles and permissions, and the first admin user.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"davrcash/internal/core/id"
	"davrcash/internal/domain/cashreport"
	"davrcash/internal/infrastructure/storage/postgres"
	"davrcash/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedStatuses(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed report statuses", "error", err)
	}
	if err := seedRoles(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed roles", "error", err)
	}
	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	log.Info("seeding completed successfully")
}

// seedStatuses inserts the lifecycle statuses the engine keys on.
func seedStatuses(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	statuses := []struct {
		code  cashreport.StatusCode
		label string
		color string
		order int
	}{
		{cashreport.StatusSent, "Отправлен", "#2196F3", 10},
		{cashreport.StatusChecking, "На проверке", "#FF9800", 20},
		{cashreport.StatusConfirmed, "Подтвержден", "#4CAF50", 30},
		{cashreport.StatusCancelled, "Отменен", "#9E9E9E", 40},
	}

	for _, st := range statuses {
		_, err := pool.Exec(ctx, `
			INSERT INTO report_statuses (id, code, label, color, sort_order, active, created_at, updated_at, version)
			VALUES ($1, $2, $3, $4, $5, true, now(), now(), 1)
			ON CONFLICT (code) DO NOTHING`,
			id.New(), string(st.code), st.label, st.color, st.order,
		)
		if err != nil {
			return fmt.Errorf("insert status %s: %w", st.code, err)
		}
	}
	log.Info("report statuses seeded")
	return nil
}

// seedRoles creates the manager and accountant roles with their permissions.
func seedRoles(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	perms := []string{
		"reports:submit", "reports:read", "reports:status",
		"catalog:read", "catalog:write", "users:manage",
	}
	for _, p := range perms {
		if _, err := pool.Exec(ctx, `
			INSERT INTO permissions (id, name, created_at)
			VALUES ($1, $2, now())
			ON CONFLICT (name) DO NOTHING`, id.New(), p); err != nil {
			return fmt.Errorf("insert permission %s: %w", p, err)
		}
	}

	roles := map[string][]string{
		"manager":    {"reports:submit", "reports:read", "catalog:read"},
		"accountant": {"reports:read", "reports:status", "catalog:read"},
	}
	for role, rolePerms := range roles {
		roleID := id.New()
		if _, err := pool.Exec(ctx, `
			INSERT INTO roles (id, name, created_at)
			VALUES ($1, $2, now())
			ON CONFLICT (name) DO NOTHING`, roleID, role); err != nil {
			return fmt.Errorf("insert role %s: %w", role, err)
		}
		for _, p := range rolePerms {
			if _, err := pool.Exec(ctx, `
				INSERT INTO role_permissions (role_id, permission_id)
				SELECT r.id, p.id FROM roles r, permissions p
				WHERE r.name = $1 AND p.name = $2
				ON CONFLICT DO NOTHING`, role, p); err != nil {
				return fmt.Errorf("link role %s to %s: %w", role, p, err)
			}
		}
	}
	log.Info("roles and permissions seeded")
	return nil
}

// seedAdminUser creates the first admin account if none exists.
func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@davrcash.local"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`, adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check existing admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, is_active, is_admin, created_at, updated_at, version)
		VALUES ($1, $2, $3, 'Admin', '', true, true, now(), now(), 1)`,
		id.New(), adminEmail, string(hash),
	)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail)
	return nil
}
