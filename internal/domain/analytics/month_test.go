package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMonthDisplay(t *testing.T) {
	assert.Equal(t, "July 2025", FormatMonthDisplay("2025_07"))
	assert.Equal(t, "January 2024", FormatMonthDisplay("2024_01"))

	// invalid input comes back unchanged
	assert.Equal(t, "2025-07", FormatMonthDisplay("2025-07"))
	assert.Equal(t, "2025_13", FormatMonthDisplay("2025_13"))
	assert.Equal(t, "latest", FormatMonthDisplay("latest"))
	assert.Equal(t, "", FormatMonthDisplay(""))
}

func TestParsePredictionMonth(t *testing.T) {
	m, err := ParsePredictionMonth("2025_07")
	require.NoError(t, err)
	assert.Equal(t, PredictionMonth("2025_07"), m)
	assert.Equal(t, "July 2025", m.Label())

	for _, bad := range []string{"2025_7", "25_07", "2025_00", "2025_13", "2025-07", "abcd_ef"} {
		_, err := ParsePredictionMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestMonthFromObjectKey(t *testing.T) {
	const prefix = "streamlit_exports/predictions_"

	tests := []struct {
		key   string
		month PredictionMonth
		ok    bool
	}{
		{"streamlit_exports/predictions_2025_07_20250801.csv", "2025_07", true},
		{"streamlit_exports/predictions_2024_12_final.csv", "2024_12", true},
		{"streamlit_exports/predictions_2025_06.csv", "2025_06", true},
		{"streamlit_exports/predictions_2025_07_20250801.parquet", "", false},
		{"streamlit_exports/predictions_latest.csv", "", false},
		{"streamlit_exports/predictions_2025_13_x.csv", "", false},
		{"streamlit_exports/summary_2025_07.csv", "", false},
		{"streamlit_exports/predictions_2025_071.csv", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, ok := MonthFromObjectKey(tt.key, prefix)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.month, m)
		})
	}
}

func TestUniqueMonthsDesc(t *testing.T) {
	got := UniqueMonthsDesc([]PredictionMonth{"2025_05", "2025_07", "2024_12", "2025_07", "2025_06"})
	assert.Equal(t, []PredictionMonth{"2025_07", "2025_06", "2025_05", "2024_12"}, got)
	assert.Empty(t, UniqueMonthsDesc(nil))
}

func TestParseYearMonth(t *testing.T) {
	ts, err := ParseYearMonth("2025-07")
	require.NoError(t, err)
	assert.Equal(t, "July 2025", MonthLabel(ts))
	assert.Equal(t, "2025-07", YearMonthKey(ts))

	_, err = ParseYearMonth("2025_07")
	assert.Error(t, err)
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "January", MonthName(1))
	assert.Equal(t, "December", MonthName(12))
	assert.Equal(t, "", MonthName(0))
	assert.Equal(t, "", MonthName(13))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "₽1,234,567", FormatRubles(decimal.RequireFromString("1234567.4")))
	assert.Equal(t, "₽950", FormatRubles(decimal.NewFromInt(950)))
	assert.Equal(t, "12,500", FormatCount(12500))
	assert.Equal(t, "1,235", FormatQuantity(1234.6))
	assert.Equal(t, "+1.2%", FormatPercent(1.24, true))
	assert.Equal(t, "-3.5%", FormatPercent(-3.5, true))
	assert.Equal(t, "45.0%", FormatPercent(45, false))
	assert.Equal(t, "N/A", FormatOptionalPercent(nil, true))
}
