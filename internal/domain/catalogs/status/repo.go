package status

import (
	"context"

	"davrcash/internal/core/id"
)

// Repository defines the interface for status storage.
type Repository interface {
	Create(ctx context.Context, st *Status) error
	Update(ctx context.Context, st *Status) error
	GetByID(ctx context.Context, stID id.ID) (*Status, error)
	GetByCode(ctx context.Context, code string) (*Status, error)
	List(ctx context.Context, activeOnly bool) ([]Status, error)
}
