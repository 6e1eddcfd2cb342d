package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnixUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int64
		wantErr bool
	}{
		{"number", `{"date": 1717027200}`, 1717027200, false},
		{"quoted string", `{"date": "1717027200"}`, 1717027200, false},
		{"null", `{"date": null}`, 0, true},
		{"empty string", `{"date": ""}`, 0, true},
		{"not a number", `{"date": "yesterday"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Date DateUnix `json:"date"`
			}
			err := json.Unmarshal([]byte(tt.payload), &body)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, body.Date.Unix())
		})
	}
}

func TestSetStatusRequestEnvelope(t *testing.T) {
	payload := `{"data": {"status_id": "018f4f3a-1111-7000-8000-000000000001"}}`

	var req SetStatusRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	assert.Equal(t, "018f4f3a-1111-7000-8000-000000000001", req.Data.StatusID)
}

func TestChannelQueryRequestFieldNames(t *testing.T) {
	payload := `{"date": 1717027200, "terminal_id": "018f4f3a-2222-7000-8000-000000000002", "time": "14:30"}`

	var req ChannelQueryRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	assert.Equal(t, int64(1717027200), req.Date.Unix())
	assert.Equal(t, "018f4f3a-2222-7000-8000-000000000002", req.TerminalID)
	require.NotNil(t, req.Time)
	assert.Equal(t, "14:30", *req.Time)
}

func TestSubmitReportRequestFieldNames(t *testing.T) {
	payload := `{
		"date": "1717027200",
		"terminal_id": "018f4f3a-3333-7000-8000-000000000003",
		"incomes": [{"key": "cash", "label": "Наличные", "amount": "40"}],
		"expenses": [{"label": "Такси", "amount": "5"}]
	}`

	var req SubmitReportRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	assert.Equal(t, "018f4f3a-3333-7000-8000-000000000003", req.TerminalID)
	require.Len(t, req.Incomes, 1)
	assert.Equal(t, "cash", req.Incomes[0].Key)
	require.Len(t, req.Expenses, 1)
	assert.Equal(t, "Такси", req.Expenses[0].Label)
}

func TestPaginationDefaults(t *testing.T) {
	var p PaginationRequest
	p.Defaults()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 50, p.PageSize)

	p = PaginationRequest{Page: 3, PageSize: 20}
	p.Defaults()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 40, p.Offset())
}
