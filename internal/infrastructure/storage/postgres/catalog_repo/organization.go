package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"davrcash/internal/core/id"
	"davrcash/internal/domain/catalogs/organization"
	"davrcash/internal/infrastructure/storage/postgres"
)

// OrganizationRepo implements organization.Repository.
type OrganizationRepo struct {
	baseRepo[organization.Organization]
}

// NewOrganizationRepo creates a new organization repository.
func NewOrganizationRepo(txManager *postgres.TxManager) *OrganizationRepo {
	return &OrganizationRepo{newBaseRepo[organization.Organization](txManager, "organizations")}
}

func (r *OrganizationRepo) Create(ctx context.Context, org *organization.Organization) error {
	return r.create(ctx, *org)
}

func (r *OrganizationRepo) Update(ctx context.Context, org *organization.Organization) error {
	return r.update(ctx, *org)
}

func (r *OrganizationRepo) GetByID(ctx context.Context, orgID id.ID) (*organization.Organization, error) {
	return r.getBy(ctx, squirrel.Eq{"id": orgID})
}

func (r *OrganizationRepo) List(ctx context.Context, activeOnly bool) ([]organization.Organization, error) {
	var pred any
	if activeOnly {
		pred = squirrel.Eq{"active": true}
	}
	return r.list(ctx, pred, "name")
}

func (r *OrganizationRepo) Delete(ctx context.Context, orgID id.ID) error {
	return r.delete(ctx, orgID)
}
