// Package arryt fetches courier delivery totals and per-courier register
// withdrawals from the Arryt delivery platform.
package arryt

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"davrcash/internal/core/apperror"
	"davrcash/internal/domain/cashreport"
)

const providerName = "arryt"

// Config holds the Arryt API connection settings. The per-organization
// token is resolved at call time, not here.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements cashreport.ArrytProvider.
type Client struct {
	http *resty.Client
}

// NewClient creates an Arryt API client.
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

type withdraw struct {
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Amount    decimal.Decimal `json:"amount"`
}

type deliveriesResponse struct {
	CustomerPrice decimal.Decimal `json:"customer_price"`
	Withdraws     []withdraw      `json:"withdraws"`
}

// Deliveries returns the day's gross customer-paid amount and the
// per-courier register withdrawals for the organization behind token.
func (c *Client) Deliveries(ctx context.Context, q cashreport.TotalQuery, token string) (cashreport.ArrytBundle, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetQueryParam("date", q.Date.Format("2006-01-02")).
		SetQueryParam("time_from", q.WorkStart).
		SetQueryParam("time_to", q.WorkEnd)
	if q.Cutoff != nil {
		req.SetQueryParam("time_to", *q.Cutoff)
	}

	var result deliveriesResponse
	resp, err := req.SetResult(&result).Get("/api/couriers/terminal-day")
	if err != nil {
		return cashreport.ArrytBundle{}, apperror.NewUpstream(providerName, err)
	}
	if resp.IsError() {
		return cashreport.ArrytBundle{}, apperror.NewUpstream(providerName,
			fmt.Errorf("terminal-day: %s", resp.Status()))
	}

	bundle := cashreport.ArrytBundle{CustomerPrice: result.CustomerPrice}
	for _, w := range result.Withdraws {
		bundle.Withdraws = append(bundle.Withdraws, cashreport.CourierWithdraw{
			FirstName: w.FirstName,
			LastName:  w.LastName,
			Amount:    w.Amount,
		})
	}
	return bundle, nil
}
