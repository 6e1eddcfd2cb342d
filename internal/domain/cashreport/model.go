// Package cashreport implements the daily cash-report reconciliation engine:
// per-channel money aggregation for a terminal-day, manager-vs-register
// variance, and the status-gated approval workflow.
package cashreport

import (
	"strings"
	"time"

	"davrcash/internal/core/id"
	"davrcash/internal/core/types"
)

// LineItemType separates money received from money paid out.
type LineItemType string

const (
	ItemIncome  LineItemType = "income"
	ItemOutcome LineItemType = "outcome"
)

// Channel source tags. Channel-sourced income items are fully regenerated
// on every submit; manual entries keep the free-form key the caller supplied.
const (
	SourceClick         = "click"
	SourcePayme         = "payme"
	SourceYandexEats    = "yandex_eats"
	SourceMyUzcard      = "my_uzcard"
	SourceWolt          = "wolt"
	SourceArryt         = "arryt"
	SourceOtherExpenses = "other_expenses"
)

// expressSources are the sources covered by the express bundle preview.
var expressSources = []string{SourceYandexEats, SourceMyUzcard, SourceWolt}

// channelIncomeSources are the regenerated channel rows. Income items with
// any other source are manual entries.
var channelIncomeSources = []string{
	SourceClick, SourcePayme, SourceYandexEats, SourceMyUzcard, SourceWolt,
}

// DefaultManualIncomeKeys are offered when no report exists yet for a day.
var DefaultManualIncomeKeys = []string{"cash", "uzcard", "humo", "uzum"}

// DefaultExpenseLabel is the single default expense row for a fresh day.
const DefaultExpenseLabel = "Основание"

// Report is the daily cash report for one (terminal, calendar day).
type Report struct {
	ID         id.ID     `db:"id" json:"id"`
	Date       time.Time `db:"date" json:"date"` // normalized to local midnight
	TerminalID id.ID     `db:"terminal_id" json:"terminalId"`
	StatusID   id.ID     `db:"status_id" json:"statusId"`
	UserID     id.ID     `db:"user_id" json:"userId"`

	// CashIDs are the opaque register session ids the report covers.
	CashIDs []string `db:"cash_ids" json:"cashIds"`

	// TotalAmount is what the register reported for the day.
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// TotalManagerPrice is the sum of all line-item amounts.
	TotalManagerPrice types.Money `db:"total_manager_price" json:"totalManagerPrice"`

	// Difference is TotalManagerPrice - TotalAmount, zero when the register
	// reported nothing.
	Difference types.Money `db:"difference" json:"difference"`

	// ArrytIncome is the gross customer-paid delivery amount, tracked apart
	// from courier withdrawals.
	ArrytIncome types.Money `db:"arryt_income" json:"arrytIncome"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	Version   int       `db:"version" json:"version"`

	// StatusCode is joined in on read paths that need the lifecycle gate.
	StatusCode StatusCode `db:"status_code" json:"statusCode,omitempty"`
}

// LineItem is one ledger row of a report.
type LineItem struct {
	ID       id.ID        `db:"id" json:"id"`
	ReportID id.ID        `db:"report_id" json:"reportId"`
	Label    string       `db:"label" json:"label"`
	Type     LineItemType `db:"type" json:"type"`
	Source   string       `db:"source" json:"source"`
	Amount   types.Money  `db:"amount" json:"amount"`
	GroupID  *id.ID       `db:"group_id" json:"groupId,omitempty"`

	// ReportDate denormalizes the parent date for per-day queries.
	ReportDate time.Time `db:"report_date" json:"reportDate"`
}

// --- Channel results (tagged by channel identity, never by runtime shape) ---

// ExpressBreakdown is the express bundle: the three delivery/acquiring
// sub-channels fetched together.
type ExpressBreakdown struct {
	YandexEats types.Money `json:"yandexEats"`
	MyUzcard   types.Money `json:"myUzcard"`
	Wolt       types.Money `json:"wolt"`
}

// CourierWithdraw is money a courier took from the register.
type CourierWithdraw struct {
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Amount    types.Money `json:"amount"`
}

// FullName renders the courier name the way withdraw line items label it.
func (w CourierWithdraw) FullName() string {
	return strings.TrimSpace(w.FirstName + " " + w.LastName)
}

// splitCourierLabel reverses FullName: the part after the last space is the
// last name. Single-word labels map to a first name only.
func splitCourierLabel(label string) (first, last string) {
	label = strings.TrimSpace(label)
	i := strings.LastIndex(label, " ")
	if i < 0 {
		return label, ""
	}
	return label[:i], label[i+1:]
}

// ArrytBundle is the delivery provider's answer for one terminal-day.
type ArrytBundle struct {
	CustomerPrice types.Money       `json:"customerPrice"`
	Withdraws     []CourierWithdraw `json:"withdraws"`
}

// CashierResult is the register channel's answer.
type CashierResult struct {
	Total   types.Money `json:"total"`
	CashIDs []string    `json:"cashIds,omitempty"`
}

// EditableEntry is one income or expense row the dashboard renders as an
// input field; readonly mirrors the report's lock state.
type EditableEntry struct {
	Key      string      `json:"key"`
	Label    string      `json:"label"`
	Value    types.Money `json:"value"`
	Readonly bool        `json:"readonly"`
}

// ManualEntry is one caller-supplied income or expense on submission.
type ManualEntry struct {
	Key    string      `json:"key"`
	Label  string      `json:"label"`
	Amount types.Money `json:"amount"`
}

// NormalizeDate strips time-of-day, keying the report on local midnight.
func NormalizeDate(unixSeconds int64, loc *time.Location) time.Time {
	t := time.Unix(unixSeconds, 0).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
