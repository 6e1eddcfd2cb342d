package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"davrcash/internal/core/id"
	"davrcash/internal/domain/catalogs/terminal"
	"davrcash/internal/infrastructure/storage/postgres"
)

// TerminalRepo implements terminal.Repository.
type TerminalRepo struct {
	baseRepo[terminal.Terminal]
}

// NewTerminalRepo creates a new terminal repository.
func NewTerminalRepo(txManager *postgres.TxManager) *TerminalRepo {
	return &TerminalRepo{newBaseRepo[terminal.Terminal](txManager, "terminals")}
}

func (r *TerminalRepo) Create(ctx context.Context, term *terminal.Terminal) error {
	return r.create(ctx, *term)
}

func (r *TerminalRepo) Update(ctx context.Context, term *terminal.Terminal) error {
	return r.update(ctx, *term)
}

func (r *TerminalRepo) GetByID(ctx context.Context, termID id.ID) (*terminal.Terminal, error) {
	return r.getBy(ctx, squirrel.Eq{"id": termID})
}

func (r *TerminalRepo) List(ctx context.Context, orgID *id.ID, activeOnly bool) ([]terminal.Terminal, error) {
	pred := squirrel.Eq{}
	if orgID != nil {
		pred["organization_id"] = *orgID
	}
	if activeOnly {
		pred["active"] = true
	}
	var wherePred any
	if len(pred) > 0 {
		wherePred = pred
	}
	return r.list(ctx, wherePred, "name")
}

func (r *TerminalRepo) Delete(ctx context.Context, termID id.ID) error {
	return r.delete(ctx, termID)
}
