package status

import (
	"context"
	"fmt"
	"time"

	"davrcash/internal/core/id"
)

// Invalidator is notified after every mutation so the cached status list
// can be dropped.
type Invalidator interface {
	InvalidateStatuses(ctx context.Context)
}

// Service provides business logic for the report-status catalog.
type Service struct {
	repo  Repository
	cache Invalidator
}

// NewService creates a new Status service.
func NewService(repo Repository, cache Invalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

// Create validates and stores a new status.
func (s *Service) Create(ctx context.Context, st *Status) error {
	if err := st.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return fmt.Errorf("create status: %w", err)
	}
	if s.cache != nil {
		s.cache.InvalidateStatuses(ctx)
	}
	return nil
}

// Update stores changes and invalidates the cached status list.
func (s *Service) Update(ctx context.Context, st *Status) error {
	if err := st.Validate(ctx); err != nil {
		return err
	}
	st.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, st); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if s.cache != nil {
		s.cache.InvalidateStatuses(ctx)
	}
	return nil
}

// Get returns one status by id, nil when absent.
func (s *Service) Get(ctx context.Context, stID id.ID) (*Status, error) {
	return s.repo.GetByID(ctx, stID)
}

// List returns statuses, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Status, error) {
	return s.repo.List(ctx, activeOnly)
}
