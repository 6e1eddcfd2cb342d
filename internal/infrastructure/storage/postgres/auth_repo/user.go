// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"davrcash/internal/core/id"
	"davrcash/internal/domain/auth"
	"davrcash/internal/infrastructure/storage/postgres"
)

const usersTable = "users"

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
	cols      []string
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		cols:      postgres.ExtractDBColumns[auth.User](),
	}
}

// GetByEmail loads a user with roles, permissions and terminal assignments.
// Returns (nil, nil) when no such user exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

// GetByID loads a user with relations, (nil, nil) when not found.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": userID})
}

func (r *UserRepo) getBy(ctx context.Context, pred squirrel.Eq) (*auth.User, error) {
	sql, args, err := r.builder.Select(r.cols...).From(usersTable).Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	var user auth.User
	if err := pgxscan.Get(ctx, querier, &user, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := r.loadRelations(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) loadRelations(ctx context.Context, user *auth.User) error {
	querier := r.txManager.GetQuerier(ctx)

	rolesSQL := `
		SELECT ro.name
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ro.name`
	if err := pgxscan.Select(ctx, querier, &user.Roles, rolesSQL, user.ID); err != nil {
		return fmt.Errorf("load user roles: %w", err)
	}

	permsSQL := `
		SELECT DISTINCT p.name
		FROM user_roles ur
		JOIN role_permissions rp ON rp.role_id = ur.role_id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.user_id = $1
		ORDER BY p.name`
	if err := pgxscan.Select(ctx, querier, &user.Permissions, permsSQL, user.ID); err != nil {
		return fmt.Errorf("load user permissions: %w", err)
	}

	termsSQL := `
		SELECT terminal_id::text
		FROM user_terminals
		WHERE user_id = $1
		ORDER BY terminal_id`
	if err := pgxscan.Select(ctx, querier, &user.TerminalIDs, termsSQL, user.ID); err != nil {
		return fmt.Errorf("load user terminals: %w", err)
	}

	return nil
}

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	data := postgres.StructToMap(*user)
	filtered := make(map[string]any, len(r.cols))
	for _, col := range r.cols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder.Insert(usersTable).SetMap(filtered).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdateLastLogin records the login timestamp.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID id.ID) error {
	sql, args, err := r.builder.Update(usersTable).
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
