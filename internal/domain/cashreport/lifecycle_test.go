package cashreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLocked(t *testing.T) {
	tests := []struct {
		code   StatusCode
		locked bool
	}{
		{StatusSent, false},
		{StatusChecking, true},
		{StatusConfirmed, true},
		{StatusCancelled, false},
		{StatusCode("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.locked, IsLocked(tt.code))
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    StatusCode
		to      StatusCode
		allowed bool
	}{
		{"sent to checking", StatusSent, StatusChecking, true},
		{"sent to cancelled", StatusSent, StatusCancelled, true},
		{"sent to confirmed skips checking", StatusSent, StatusConfirmed, false},
		{"checking to confirmed", StatusChecking, StatusConfirmed, true},
		{"checking reopened to sent", StatusChecking, StatusSent, true},
		{"checking to cancelled", StatusChecking, StatusCancelled, true},
		{"confirmed is terminal", StatusConfirmed, StatusSent, false},
		{"confirmed cannot cancel", StatusConfirmed, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusSent, false},
		{"unknown source state", StatusCode("draft"), StatusSent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}
