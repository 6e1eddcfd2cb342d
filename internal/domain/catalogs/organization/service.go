package organization

import (
	"context"
	"fmt"
	"time"

	"davrcash/internal/core/id"
)

// Invalidator is notified after every mutation so cached reference data
// can be dropped.
type Invalidator interface {
	InvalidateOrganization(ctx context.Context, orgID id.ID)
}

// Service provides business logic for the Organization catalog.
type Service struct {
	repo  Repository
	cache Invalidator
}

// NewService creates a new Organization service.
// cache may be nil when no reference cache is wired (tests).
func NewService(repo Repository, cache Invalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

// Create validates and stores a new organization.
func (s *Service) Create(ctx context.Context, org *Organization) error {
	if err := org.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, org); err != nil {
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

// Update stores changes and invalidates cached reference data.
func (s *Service) Update(ctx context.Context, org *Organization) error {
	if err := org.Validate(ctx); err != nil {
		return err
	}
	org.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, org); err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	if s.cache != nil {
		s.cache.InvalidateOrganization(ctx, org.ID)
	}
	return nil
}

// Get retrieves an organization by ID.
func (s *Service) Get(ctx context.Context, orgID id.ID) (*Organization, error) {
	return s.repo.GetByID(ctx, orgID)
}

// List returns organizations, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Organization, error) {
	return s.repo.List(ctx, activeOnly)
}

// Delete removes an organization.
func (s *Service) Delete(ctx context.Context, orgID id.ID) error {
	if err := s.repo.Delete(ctx, orgID); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	if s.cache != nil {
		s.cache.InvalidateOrganization(ctx, orgID)
	}
	return nil
}
