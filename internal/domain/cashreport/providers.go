package cashreport

import (
	"context"
	"time"

	"davrcash/internal/core/types"
)

// TotalQuery is the common shape of a provider question: which day, within
// which work window, optionally cut off at a time-of-day for partial-day
// "as of now" previews.
type TotalQuery struct {
	Date      time.Time
	WorkStart string // "HH:MM" local
	WorkEnd   string
	Cutoff    *string // "HH:MM", restricts to transactions up to that time
}

// ClickProvider returns the day's Click acquiring total.
type ClickProvider interface {
	Total(ctx context.Context, q TotalQuery, serviceIDs []string) (types.Money, error)
}

// PaymeProvider returns the day's Payme acquiring total.
type PaymeProvider interface {
	Total(ctx context.Context, q TotalQuery, merchantIDs []string, businessID string) (types.Money, error)
}

// IikoProvider exposes the register: the day's reported total and the raw
// register session ids it was accumulated over.
type IikoProvider interface {
	RegisterTotal(ctx context.Context, q TotalQuery, iikoID string) (types.Money, error)
	RegisterSessions(ctx context.Context, q TotalQuery, iikoID string) ([]string, error)
}

// ExpressProvider returns the express bundle breakdown.
type ExpressProvider interface {
	Breakdown(ctx context.Context, q TotalQuery, restaurantID string) (ExpressBreakdown, error)
}

// ArrytProvider returns delivery income and per-courier register withdrawals.
type ArrytProvider interface {
	Deliveries(ctx context.Context, q TotalQuery, token string) (ArrytBundle, error)
}

// Providers bundles every channel data source the engine fans out to.
type Providers struct {
	Click   ClickProvider
	Payme   PaymeProvider
	Iiko    IikoProvider
	Express ExpressProvider
	Arryt   ArrytProvider
}
