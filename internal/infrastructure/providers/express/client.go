// Package express fetches the aggregator bundle: Yandex Eats, My Uzcard
// and Wolt totals come from one upstream statistics endpoint.
package express

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

const providerName = "express"

// Config holds the aggregator statistics API connection settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client implements cashreport.ExpressProvider.
type Client struct {
	http *resty.Client
}

// NewClient creates an aggregator statistics client.
func NewClient(cfg Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthScheme("Bearer").
		SetAuthToken(cfg.Token).
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

type statsResponse struct {
	YandexEats decimal.Decimal `json:"yandex_eats"`
	MyUzcard   decimal.Decimal `json:"my_uzcard"`
	Wolt       decimal.Decimal `json:"wolt"`
}

// Breakdown returns the day's per-aggregator totals for a restaurant.
// Missing sub-channels stay at zero.
func (c *Client) Breakdown(ctx context.Context, q cashreport.TotalQuery, restaurantID string) (cashreport.ExpressBreakdown, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("restaurant_id", restaurantID).
		SetQueryParam("date", q.Date.Format("2006-01-02")).
		SetQueryParam("time_from", q.WorkStart).
		SetQueryParam("time_to", q.WorkEnd)
	if q.Cutoff != nil {
		req.SetQueryParam("time_to", *q.Cutoff)
	}

	var result statsResponse
	resp, err := req.SetResult(&result).Get("/api/v1/stats/daily")
	if err != nil {
		return cashreport.ExpressBreakdown{}, apperror.NewUpstream(providerName, err)
	}
	if resp.IsError() {
		return cashreport.ExpressBreakdown{}, apperror.NewUpstream(providerName,
			fmt.Errorf("daily stats: %s", resp.Status()))
	}

	return cashreport.ExpressBreakdown{
		YandexEats: result.YandexEats,
		MyUzcard:   result.MyUzcard,
		Wolt:       result.Wolt,
	}, nil
}
