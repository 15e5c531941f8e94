package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"plain", date(2024, 3, 15), 1, date(2024, 4, 15)},
		{"leap february", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"non leap february", date(2023, 1, 31), 1, date(2023, 2, 28)},
		{"quarter into 30 day month", date(2024, 3, 31), 3, date(2024, 6, 30)},
		{"year from leap day", date(2024, 2, 29), 12, date(2025, 2, 28)},
		{"across year end", date(2024, 11, 30), 3, date(2025, 2, 28)},
		{"december", date(2024, 12, 31), 1, date(2025, 1, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonthsClamped(tt.in, tt.n))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 7, DaysBetween(date(2024, 3, 1), date(2024, 3, 8).Add(5*time.Hour)))
	assert.Equal(t, 0, DaysBetween(date(2024, 3, 1).Add(23*time.Hour), date(2024, 3, 1)))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+1 (555) 123-4567"))
	assert.True(t, ValidatePhone("4915112345678"))
	assert.False(t, ValidatePhone("phone"))
	assert.False(t, ValidatePhone("+0123"))
}
