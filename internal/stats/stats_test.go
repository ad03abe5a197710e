package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"plain integer", "500", 500},
		{"decimal", "123.45", 123.45},
		{"thousands separators", "1,234,567.89", 1234567.89},
		{"leading and trailing spaces", "  42.5  ", 42.5},
		{"negative", "-3.25", -3.25},
		{"empty string", "", 0},
		{"whitespace only", "   ", 0},
		{"alphabetic", "N/A", 0},
		{"mixed alphanumeric", "12abc", 0},
		{"nan literal rejected", "NaN", 0},
		{"lone separator", ",", 0},
		{"separator only grouping", "1,000,000", 1000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseNumber(tt.input))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *time.Time
	}{
		{"iso date", "2023-05-01", timePtr(2023, time.May, 1)},
		{"slash date", "2022/12/31", timePtr(2022, time.December, 31)},
		{"us date", "05/01/2023", timePtr(2023, time.May, 1)},
		{"padded", " 2021-01-15 ", timePtr(2021, time.January, 15)},
		{"empty", "", nil},
		{"garbage", "not a date", nil},
		{"impossible month", "2023-13-40", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.expected), "got %v, want %v", got, tt.expected)
		})
	}
}

func timePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"even count averages center", []float64{1, 2, 3, 4}, 2.5},
		{"odd count takes center", []float64{9, 1, 5}, 5},
		{"unsorted input", []float64{50, -10, 20}, 20},
		{"rounds to two decimals", []float64{1, 2.005}, 1.5},
		{"negative values", []float64{-5, -1, -3}, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Median(tt.input))
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	input := []float64{3, 1, 2}
	Median(input)
	assert.Equal(t, []float64{3, 1, 2}, input)
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"basic mean", []float64{1, 2, 3}, 2},
		{"single", []float64{7.5}, 7.5},
		{"skips nan", []float64{2, math.NaN(), 4}, 3},
		{"skips infinities", []float64{math.Inf(1), 10, math.Inf(-1)}, 10},
		{"all invalid", []float64{math.NaN(), math.Inf(1)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Average(tt.input), 1e-9)
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		decimals int
		expected string
	}{
		{"grouped millions", 1234567.891, 2, "1,234,567.89"},
		{"no grouping needed", 999.5, 2, "999.50"},
		{"exact thousands", 1000, 2, "1,000.00"},
		{"zero", 0, 2, "0.00"},
		{"negative grouped", -9876.5, 2, "-9,876.50"},
		{"zero decimals rounds", 1234567.891, 0, "1,234,568"},
		{"nan falls back to zero", math.NaN(), 2, "0.00"},
		{"infinity falls back to zero", math.Inf(1), 2, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.input, tt.decimals))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 18.33, Round2(55.0/3.0))
	assert.Equal(t, 33.33, Round2(100.0/3.0))
	assert.Equal(t, -2.5, Round2(-2.499))
}
