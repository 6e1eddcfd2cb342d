// Package status provides the report-status reference catalog.
// Codes are stable identifiers the reconciliation engine keys on;
// label and color exist purely for dashboard display.
package status

import (
	"context"
	"time"

	"davrcash/internal/core/apperror"
	"davrcash/internal/core/id"
)

// Status is a reference entity describing one report lifecycle state.
type Status struct {
	ID        id.ID     `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Label     string    `db:"label" json:"label"`
	Color     string    `db:"color" json:"color"`
	SortOrder int       `db:"sort_order" json:"sortOrder"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	Version   int       `db:"version" json:"version"`
}

// New creates a new Status.
func New(code, label, color string) *Status {
	now := time.Now()
	return &Status{
		ID:        id.New(),
		Code:      code,
		Label:     label,
		Color:     color,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// Validate checks required fields.
func (s *Status) Validate(ctx context.Context) error {
	if s.Code == "" {
		return apperror.NewValidation("code is required").WithDetail("field", "code")
	}
	if s.Label == "" {
		return apperror.NewValidation("label is required").WithDetail("field", "label")
	}
	return nil
}
