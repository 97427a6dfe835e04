package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	predictionMonthLayout = "2006_01"
	yearMonthLayout       = "2006-01"
	monthLabelLayout      = "January 2006"
)

// PredictionMonth identifies one prediction export, formatted YYYY_MM
type PredictionMonth string

// ParsePredictionMonth validates a YYYY_MM month key
func ParsePredictionMonth(s string) (PredictionMonth, error) {
	if len(s) != len(predictionMonthLayout) {
		return "", fmt.Errorf("invalid prediction month %q: expected YYYY_MM", s)
	}
	if _, err := time.Parse(predictionMonthLayout, s); err != nil {
		return "", fmt.Errorf("invalid prediction month %q: %w", s, err)
	}
	return PredictionMonth(s), nil
}

// Time returns the first day of the month in UTC
func (m PredictionMonth) Time() time.Time {
	t, _ := time.Parse(predictionMonthLayout, string(m))
	return t
}

// Label renders the month for display, e.g. "July 2025"
func (m PredictionMonth) Label() string {
	return FormatMonthDisplay(string(m))
}

// String implements fmt.Stringer
func (m PredictionMonth) String() string {
	return string(m)
}

// FormatMonthDisplay turns "2025_07" into "July 2025". Input that is not a
// valid YYYY_MM key is returned unchanged.
func FormatMonthDisplay(s string) string {
	m, err := ParsePredictionMonth(s)
	if err != nil {
		return s
	}
	return m.Time().Format(monthLabelLayout)
}

// ParseYearMonth validates a YYYY-MM key as used by the KPI endpoints
func ParseYearMonth(s string) (time.Time, error) {
	if len(s) != len(yearMonthLayout) {
		return time.Time{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	t, err := time.Parse(yearMonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return t, nil
}

// YearMonthKey formats t as YYYY-MM
func YearMonthKey(t time.Time) string {
	return t.Format(yearMonthLayout)
}

// MonthLabel formats t as "January 2006"
func MonthLabel(t time.Time) string {
	return t.Format(monthLabelLayout)
}

// MonthFromObjectKey extracts the month from an export object key such as
// "streamlit_exports/predictions_2025_07_20250801T0300.csv". Keys that are not
// CSV files or do not carry a valid month are rejected.
func MonthFromObjectKey(key, prefix string) (PredictionMonth, bool) {
	if !strings.HasSuffix(key, ".csv") {
		return "", false
	}
	name := key[strings.LastIndex(key, "/")+1:]
	base := prefix[strings.LastIndex(prefix, "/")+1:]
	if !strings.HasPrefix(name, base) {
		return "", false
	}
	rest := strings.TrimPrefix(name, base)
	if len(rest) < len(predictionMonthLayout) {
		return "", false
	}
	m, err := ParsePredictionMonth(rest[:len(predictionMonthLayout)])
	if err != nil {
		return "", false
	}
	// the month must be followed by a separator or the extension
	if tail := rest[len(predictionMonthLayout):]; tail != ".csv" && !strings.HasPrefix(tail, "_") {
		return "", false
	}
	return m, true
}

// UniqueMonthsDesc removes duplicates and sorts months latest first
func UniqueMonthsDesc(months []PredictionMonth) []PredictionMonth {
	seen := make(map[PredictionMonth]struct{}, len(months))
	out := make([]PredictionMonth, 0, len(months))
	for _, m := range months {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	// YYYY_MM sorts lexicographically in time order
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

// MonthName returns the English month name for 1-12, or "" when out of range
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}
