// Package payme fetches daily acquiring totals from the Payme business API.
package payme

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

const providerName = "payme"

// tiyinPerSoum converts Payme amounts, which arrive in tiyin.
var tiyinPerSoum = decimal.NewFromInt(100)

// Config holds the Payme business API connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements cashreport.PaymeProvider.
type Client struct {
	http *resty.Client
}

// NewClient creates a Payme API client.
func NewClient(cfg Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
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

type receiptsRequest struct {
	MerchantIDs []string `json:"merchant_ids"`
	Date        string   `json:"date"`
	TimeFrom    string   `json:"time_from"`
	TimeTo      string   `json:"time_to"`
}

type receiptsResponse struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Total sums the day's paid receipts for the terminal's merchant ids.
// Payme reports in tiyin, the result is converted to soums.
func (c *Client) Total(ctx context.Context, q cashreport.TotalQuery, merchantIDs []string, businessID string) (types.Money, error) {
	body := receiptsRequest{
		MerchantIDs: merchantIDs,
		Date:        q.Date.Format("2006-01-02"),
		TimeFrom:    q.WorkStart,
		TimeTo:      q.WorkEnd,
	}
	if q.Cutoff != nil {
		body.TimeTo = *q.Cutoff
	}

	var result receiptsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Auth", businessID).
		SetBody(body).
		SetResult(&result).
		Post("/api/receipts/total")
	if err != nil {
		return types.ZeroMoney(), apperror.NewUpstream(providerName, err)
	}
	if resp.IsError() {
		return types.ZeroMoney(), apperror.NewUpstream(providerName,
			fmt.Errorf("receipts total: %s", resp.Status()))
	}

	return result.TotalAmount.Div(tiyinPerSoum), nil
}
