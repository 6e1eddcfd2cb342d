package terminal

import (
	"context"

	"davrcash/internal/core/id"
)

// Repository defines the interface for terminal storage.
type Repository interface {
	Create(ctx context.Context, term *Terminal) error
	Update(ctx context.Context, term *Terminal) error
	GetByID(ctx context.Context, termID id.ID) (*Terminal, error)
	List(ctx context.Context, orgID *id.ID, activeOnly bool) ([]Terminal, error)
	Delete(ctx context.Context, termID id.ID) error
}
