// Package catalog_repo provides PostgreSQL implementations for the
// reference catalogs (organizations, terminals, report statuses).
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"davrcash/internal/core/apperror"
	"davrcash/internal/core/id"
	"davrcash/internal/infrastructure/storage/postgres"
)

// baseRepo provides common CRUD for catalog entities keyed by "db" tags.
type baseRepo[T any] struct {
	txManager  *postgres.TxManager
	tableName  string
	selectCols []string
}

func newBaseRepo[T any](txManager *postgres.TxManager, tableName string) baseRepo[T] {
	return baseRepo[T]{
		txManager:  txManager,
		tableName:  tableName,
		selectCols: postgres.ExtractDBColumns[T](),
	}
}

func (r *baseRepo[T]) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *baseRepo[T]) create(ctx context.Context, entity T) error {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().Insert(r.tableName).SetMap(filtered).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// update modifies an entity with optimistic locking on version.
func (r *baseRepo[T]) update(ctx context.Context, entity T) error {
	data := postgres.StructToMap(entity)
	entityID, ok := data["id"]
	if !ok {
		return fmt.Errorf("entity has no 'id' field with db tag")
	}
	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("entity has no 'version' field or it is not an int")
	}

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "version" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Update(r.tableName).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.tableName, entityID)
	}
	return nil
}

func (r *baseRepo[T]) getBy(ctx context.Context, pred squirrel.Eq) (*T, error) {
	sql, args, err := r.builder().Select(r.selectCols...).From(r.tableName).Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var entity T
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &entity, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.tableName, err)
	}
	return &entity, nil
}

func (r *baseRepo[T]) list(ctx context.Context, pred any, orderBy string) ([]T, error) {
	q := r.builder().Select(r.selectCols...).From(r.tableName)
	if pred != nil {
		q = q.Where(pred)
	}
	if orderBy != "" {
		q = q.OrderBy(orderBy)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var entities []T
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entities, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return entities, nil
}

func (r *baseRepo[T]) delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.builder().Delete(r.tableName).Where(squirrel.Eq{"id": entityID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, entityID.String())
	}
	return nil
}
