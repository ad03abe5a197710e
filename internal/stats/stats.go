// Package stats provides the scalar parsing and statistical primitives shared
// by the cleaning and analytics packages. All functions are total: bad input
// maps to a defined zero value, never to an error or a non-finite number.
package stats

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// ParseNumber parses a numeric string that may carry thousands separators.
// It returns 0 for empty input, for values containing alphabetic characters,
// and for anything strconv cannot parse. Callers that require a positive
// value must check the result themselves.
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			return 0
		}
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseDate attempts a calendar-date parse against the supported layouts and
// returns nil when the value is absent or unparseable.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Median returns the middle value of the input (average of the two central
// values for even lengths), rounded to 2 decimal places. Empty input yields 0.
// The input slice is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return Round2(sorted[mid])
	}
	return Round2((sorted[mid-1] + sorted[mid]) / 2)
}

// Average returns the arithmetic mean of the finite entries. Non-finite
// entries are skipped rather than counted as zero. An input with no finite
// entries yields 0.
func Average(values []float64) float64 {
	var sum float64
	var count int
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatNumber renders n with thousands separators and a fixed number of
// decimals, e.g. FormatNumber(1234567.891, 2) == "1,234,567.89". Non-finite
// input renders as zero at the requested precision.
func FormatNumber(n float64, decimals int) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		n = 0
	}

	neg := n < 0
	s := strconv.FormatFloat(math.Abs(n), 'f', decimals, 64)

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}
	b.WriteString(fracPart)
	return b.String()
}
