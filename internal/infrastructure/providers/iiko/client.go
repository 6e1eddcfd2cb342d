// Package iiko fetches register totals and session ids from the iiko
// reporting API.
package iiko

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

const providerName = "iiko"

// Config holds the iiko server API connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client implements cashreport.IikoProvider.
type Client struct {
	http *resty.Client
}

// NewClient creates an iiko API client.
func NewClient(cfg Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthScheme("Bearer").
		SetAuthToken(cfg.APIKey).
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

type cashierReportResponse struct {
	Total decimal.Decimal `json:"total"`
}

type cashierSession struct {
	SessionID string `json:"session_id"`
}

type cashierDataResponse struct {
	Sessions []cashierSession `json:"sessions"`
}

// RegisterTotal returns the register-reported sales total for the day.
func (c *Client) RegisterTotal(ctx context.Context, q cashreport.TotalQuery, iikoID string) (types.Money, error) {
	var result cashierReportResponse
	resp, err := c.dayRequest(ctx, q).
		SetResult(&result).
		Get(fmt.Sprintf("/resto/api/v2/reports/cashier/%s", iikoID))
	if err != nil {
		return types.ZeroMoney(), apperror.NewUpstream(providerName, err)
	}
	if resp.IsError() {
		return types.ZeroMoney(), apperror.NewUpstream(providerName,
			fmt.Errorf("cashier report: %s", resp.Status()))
	}
	return result.Total, nil
}

// RegisterSessions returns the register session ids the day's total was
// accumulated over.
func (c *Client) RegisterSessions(ctx context.Context, q cashreport.TotalQuery, iikoID string) ([]string, error) {
	var result cashierDataResponse
	resp, err := c.dayRequest(ctx, q).
		SetResult(&result).
		Get(fmt.Sprintf("/resto/api/v2/reports/sessions/%s", iikoID))
	if err != nil {
		return nil, apperror.NewUpstream(providerName, err)
	}
	if resp.IsError() {
		return nil, apperror.NewUpstream(providerName,
			fmt.Errorf("cashier sessions: %s", resp.Status()))
	}

	ids := make([]string, 0, len(result.Sessions))
	for _, s := range result.Sessions {
		ids = append(ids, s.SessionID)
	}
	return ids, nil
}

func (c *Client) dayRequest(ctx context.Context, q cashreport.TotalQuery) *resty.Request {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("date", q.Date.Format("2006-01-02")).
		SetQueryParam("time_from", q.WorkStart).
		SetQueryParam("time_to", q.WorkEnd)
	if q.Cutoff != nil {
		req.SetQueryParam("time_to", *q.Cutoff)
	}
	return req
}
