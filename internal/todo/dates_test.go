package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2023-12-31T23:59:59", time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"2023-12-31T23:59:59.123456", time.Date(2023, 12, 31, 23, 59, 59, 123456000, time.UTC)},
		{"2023-12-31T23:59", time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)},
		{"2023-12-31 08:30:00", time.Date(2023, 12, 31, 8, 30, 0, 0, time.UTC)},
		{"2023-12-31", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"2023-12-31T23:59:59Z", time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"2024-01-01T02:00:00+02:00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01T02:00:00.5+02:00", time.Date(2024, 1, 1, 0, 0, 0, 500000000, time.UTC)},
		{"2023-12-31T23", time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)},
		{"2024-01-01T02:00:00+0200", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01T02:00:00+0000", time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC)},
		{"2024-01-01T02:00+02:00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01 02:00:00-0130", time.Date(2024, 1, 1, 3, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDueDate(tt.input)

			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDueDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "tomorrow", "31/12/2023", "2023-13-01", "2023-12-31T25:00:00", "12/31/2023 10:00"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDueDate(input)

			assert.ErrorIs(t, err, ErrInvalidDueDate)
		})
	}
}
