package cashreport

import (
	"context"
	"time"

	"davrcash/internal/core/id"
)

// ItemFilter narrows line-item reads by type and source.
type ItemFilter struct {
	Types          []LineItemType
	Sources        []string
	ExcludeSources []string
}

// ListFilter narrows report list reads.
type ListFilter struct {
	TerminalIDs []id.ID
	UserID      *id.ID
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// Repository defines storage for reports and their line items.
// Reads that feed the lifecycle gate join the status code onto the report.
type Repository interface {
	// GetByTerminalAndDate returns the report for a terminal-day, or
	// (nil, nil) when none exists yet.
	GetByTerminalAndDate(ctx context.Context, terminalID id.ID, date time.Time) (*Report, error)

	GetByID(ctx context.Context, reportID id.ID) (*Report, error)

	List(ctx context.Context, filter ListFilter) ([]Report, int64, error)

	// CreateWithItems inserts the report and bulk-inserts its line items.
	// Must be called inside a transaction.
	CreateWithItems(ctx context.Context, report *Report, items []LineItem) error

	// ReplaceWithItems updates the report's numeric fields in place (status
	// untouched), deletes every existing line item and bulk-inserts the new
	// set. Must be called inside a transaction.
	ReplaceWithItems(ctx context.Context, report *Report, items []LineItem) error

	SetStatus(ctx context.Context, reportID, statusID id.ID) error

	ListItems(ctx context.Context, reportID id.ID, filter ItemFilter) ([]LineItem, error)
}
