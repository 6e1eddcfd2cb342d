package terminal

import (
	"context"
	"fmt"
	"time"

	"davrcash/internal/core/id"
)

// Invalidator is notified after every mutation so cached reference data
// can be dropped.
type Invalidator interface {
	InvalidateTerminal(ctx context.Context, termID id.ID)
}

// Service provides business logic for the Terminal catalog.
type Service struct {
	repo  Repository
	cache Invalidator
}

// NewService creates a new Terminal service.
func NewService(repo Repository, cache Invalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

// Create validates and stores a new terminal.
func (s *Service) Create(ctx context.Context, term *Terminal) error {
	if err := term.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, term); err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}
	return nil
}

// Update stores changes and invalidates cached reference data.
func (s *Service) Update(ctx context.Context, term *Terminal) error {
	if err := term.Validate(ctx); err != nil {
		return err
	}
	term.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, term); err != nil {
		return fmt.Errorf("update terminal: %w", err)
	}
	if s.cache != nil {
		s.cache.InvalidateTerminal(ctx, term.ID)
	}
	return nil
}

// Get retrieves a terminal by ID.
func (s *Service) Get(ctx context.Context, termID id.ID) (*Terminal, error) {
	return s.repo.GetByID(ctx, termID)
}

// List returns terminals, optionally scoped to one organization.
func (s *Service) List(ctx context.Context, orgID *id.ID, activeOnly bool) ([]Terminal, error) {
	return s.repo.List(ctx, orgID, activeOnly)
}

// Delete removes a terminal.
func (s *Service) Delete(ctx context.Context, termID id.ID) error {
	if err := s.repo.Delete(ctx, termID); err != nil {
		return fmt.Errorf("delete terminal: %w", err)
	}
	if s.cache != nil {
		s.cache.InvalidateTerminal(ctx, termID)
	}
	return nil
}
