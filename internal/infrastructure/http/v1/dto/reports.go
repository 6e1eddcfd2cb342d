package dto

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// DateUnix is a unix-seconds timestamp. Clients send it as a JSON number
// or as a numeric string; both decode to the same value.
type DateUnix int64

// UnmarshalJSON accepts 1717027200 and "1717027200".
func (d *DateUnix) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		return fmt.Errorf("date is required")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("date must be a unix timestamp: %w", err)
	}
	*d = DateUnix(v)
	return nil
}

// Unix returns the raw unix-seconds value.
func (d DateUnix) Unix() int64 {
	return int64(d)
}

// ChannelQueryRequest is the body of every per-channel preview endpoint.
// Time optionally cuts the query off at HH:MM for partial-day previews.
type ChannelQueryRequest struct {
	Date       DateUnix `json:"date" binding:"required"`
	TerminalID string   `json:"terminal_id" binding:"required,uuid"`
	Time       *string  `json:"time,omitempty"`
}

// ManualEntryRequest is one caller-supplied income or expense row.
type ManualEntryRequest struct {
	Key    string          `json:"key"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// SubmitReportRequest is the end-of-day close payload.
type SubmitReportRequest struct {
	Date       DateUnix             `json:"date" binding:"required"`
	TerminalID string               `json:"terminal_id" binding:"required,uuid"`
	Incomes    []ManualEntryRequest `json:"incomes"`
	Expenses   []ManualEntryRequest `json:"expenses"`
}

// SetStatusRequest moves a report to another lifecycle status. The update
// payload is wrapped in a data envelope.
type SetStatusRequest struct {
	Data SetStatusData `json:"data" binding:"required"`
}

// SetStatusData is the envelope body of a status update.
type SetStatusData struct {
	StatusID string `json:"status_id" binding:"required,uuid"`
}

// ListReportsRequest filters the report list.
type ListReportsRequest struct {
	PaginationRequest
	TerminalID string `form:"terminal_id" binding:"omitempty,uuid"`
	From       *int64 `form:"from"` // unix seconds
	To         *int64 `form:"to"`
}

// ScalarChannelResponse wraps a single-number channel preview.
type ScalarChannelResponse struct {
	Total decimal.Decimal `json:"total"`
}

// ExpressResponse is the express bundle preview. Express is the historical
// combined field and is always zero; clients read the sub-channels.
type ExpressResponse struct {
	Express    decimal.Decimal `json:"express"`
	YandexEats decimal.Decimal `json:"yandexEats"`
	MyUzcard   decimal.Decimal `json:"myUzcard"`
	Wolt       decimal.Decimal `json:"wolt"`
}

// EditableQueryRequest asks the mutability gate about a terminal-day.
type EditableQueryRequest struct {
	Date       int64  `form:"date" binding:"required"`
	TerminalID string `form:"terminal_id" binding:"required,uuid"`
}

// EditableStateResponse reports the mutability gate for a terminal-day.
type EditableStateResponse struct {
	Editable bool `json:"editable"`
}
