package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		in   *string
		want *time.Time
	}{
		{nil, nil},
		{strPtr(""), nil},
		{strPtr("  "), nil},
	}
	for _, tt := range tests {
		got, err := parseDeadline(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	valid := map[string]time.Time{
		"2025-03-01":                time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		"2025-03-01T09:15":          time.Date(2025, 3, 1, 9, 15, 0, 0, time.UTC),
		"2025-03-01T09:15:00Z":      time.Date(2025, 3, 1, 9, 15, 0, 0, time.UTC),
		"2025-03-01T18:15:00+09:00": time.Date(2025, 3, 1, 9, 15, 0, 0, time.UTC),
	}
	for in, want := range valid {
		got, err := parseDeadline(strPtr(in))
		require.NoError(t, err, in)
		require.NotNil(t, got)
		assert.True(t, want.Equal(*got), "%s: got %s", in, got)
		assert.Equal(t, time.UTC, got.Location())
	}

	for _, in := range []string{"tomorrow", "2025/03/01", "03-01-2025", "2025-13-01"} {
		_, err := parseDeadline(strPtr(in))
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, in)
	}
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "name: is required", invalid("name", "is required").Error())
	assert.Equal(t, "no fields to update", invalid("", "no fields to update").Error())
}

func TestValidateHours(t *testing.T) {
	for _, hours := range []float64{0, 0.5, MaxEstimatedHours} {
		assert.NoError(t, validateHours(hours), "hours %v", hours)
	}
	for _, hours := range []float64{-1, MaxEstimatedHours + 1, 1e308, math.Inf(1), math.Inf(-1), math.NaN()} {
		var verr *ValidationError
		assert.ErrorAs(t, validateHours(hours), &verr, "hours %v", hours)
	}
}
