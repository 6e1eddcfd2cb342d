package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"davrcash/internal/core/id"
	"davrcash/internal/domain/catalogs/status"
	"davrcash/internal/infrastructure/storage/postgres"
)

// StatusRepo implements status.Repository.
type StatusRepo struct {
	baseRepo[status.Status]
}

// NewStatusRepo creates a new status repository.
func NewStatusRepo(txManager *postgres.TxManager) *StatusRepo {
	return &StatusRepo{newBaseRepo[status.Status](txManager, "report_statuses")}
}

func (r *StatusRepo) Create(ctx context.Context, st *status.Status) error {
	return r.create(ctx, *st)
}

func (r *StatusRepo) Update(ctx context.Context, st *status.Status) error {
	return r.update(ctx, *st)
}

func (r *StatusRepo) GetByID(ctx context.Context, stID id.ID) (*status.Status, error) {
	return r.getBy(ctx, squirrel.Eq{"id": stID})
}

func (r *StatusRepo) GetByCode(ctx context.Context, code string) (*status.Status, error) {
	return r.getBy(ctx, squirrel.Eq{"code": code})
}

func (r *StatusRepo) List(ctx context.Context, activeOnly bool) ([]status.Status, error) {
	var pred any
	if activeOnly {
		pred = squirrel.Eq{"active": true}
	}
	return r.list(ctx, pred, "sort_order")
}
