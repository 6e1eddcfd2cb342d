package cashreport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"davrcash/internal/core/types"
)

func TestSplitCourierLabel(t *testing.T) {
	tests := []struct {
		label string
		first string
		last  string
	}{
		{"Alisher Usmanov", "Alisher", "Usmanov"},
		{"Madonna", "Madonna", ""},
		{"Juan Carlos Perez", "Juan Carlos", "Perez"},
		{"  padded name  ", "padded", "name"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			first, last := splitCourierLabel(tt.label)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestCourierWithdrawFullNameRoundTrip(t *testing.T) {
	w := CourierWithdraw{FirstName: "Alisher", LastName: "Usmanov", Amount: types.MustMoney("10")}
	first, last := splitCourierLabel(w.FullName())
	assert.Equal(t, w.FirstName, first)
	assert.Equal(t, w.LastName, last)
}

func TestNormalizeDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)

	// 2024-05-30 23:45 local
	ts := time.Date(2024, 5, 30, 23, 45, 12, 0, loc)
	got := NormalizeDate(ts.Unix(), loc)

	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.May, got.Month())
	assert.Equal(t, 30, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 0, got.Minute())
	assert.Equal(t, loc, got.Location())
}

func TestNormalizeDateIdempotent(t *testing.T) {
	loc := time.UTC
	first := NormalizeDate(time.Now().Unix(), loc)
	second := NormalizeDate(first.Unix(), loc)
	assert.True(t, first.Equal(second))
}
