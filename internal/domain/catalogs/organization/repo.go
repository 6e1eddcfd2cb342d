package organization

import (
	"context"

	"davrcash/internal/core/id"
)

// Repository defines the interface for organization storage.
type Repository interface {
	Create(ctx context.Context, org *Organization) error
	Update(ctx context.Context, org *Organization) error
	GetByID(ctx context.Context, orgID id.ID) (*Organization, error)
	List(ctx context.Context, activeOnly bool) ([]Organization, error)
	Delete(ctx context.Context, orgID id.ID) error
}
