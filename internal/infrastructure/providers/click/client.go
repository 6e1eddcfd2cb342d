// Package click fetches daily acquiring totals from the Click merchant API.
package click

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"davrcash/internal/core/apperror"
	"davrcash/internal/core/types"
	"davrcash/internal/domain/cashreport"
)

const providerName = "click"

// Config holds the Click merchant API connection settings.
type Config struct {
	BaseURL    string
	AuthHeader string
	Timeout    time.Duration
}

// Client implements cashreport.ClickProvider.
type Client struct {
	http *resty.Client
}

// NewClient creates a Click API client.
func NewClient(cfg Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Auth", cfg.AuthHeader).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && resp.StatusCode() >= http.StatusInternalServerError
		})
	return &Client{http: httpClient}
}

type paymentsResponse struct {
	PaymentsTotal decimal.Decimal `json:"payments_total"`
}

// Total sums the day's confirmed payments across the terminal's service ids.
// The optional cutoff bounds the query to transactions before HH:MM.
func (c *Client) Total(ctx context.Context, q cashreport.TotalQuery, serviceIDs []string) (types.Money, error) {
	total := types.ZeroMoney()
	day := q.Date.Format("2006-01-02")

	for _, serviceID := range serviceIDs {
		req := c.http.R().
			SetContext(ctx).
			SetQueryParam("date", day).
			SetQueryParam("time_from", q.WorkStart).
			SetQueryParam("time_to", q.WorkEnd)
		if q.Cutoff != nil {
			req.SetQueryParam("time_to", *q.Cutoff)
		}

		var result paymentsResponse
		resp, err := req.SetResult(&result).
			Get(fmt.Sprintf("/v2/merchant/payments/total/%s", serviceID))
		if err != nil {
			return types.ZeroMoney(), apperror.NewUpstream(providerName, err)
		}
		if resp.IsError() {
			return types.ZeroMoney(), apperror.NewUpstream(providerName,
				fmt.Errorf("service %s: %s", serviceID, resp.Status()))
		}
		total = total.Add(result.PaymentsTotal)
	}

	return total, nil
}
