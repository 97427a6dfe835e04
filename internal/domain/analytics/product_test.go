package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []ProductProfile {
	return []ProductProfile{
		{Code: "P-1", Name: "Sulfuric acid", Category: "Acids", TotalRevenue: decimal.NewFromInt(500000),
			TotalQuantity: 1200, GrowthPct: ptr(12.5), PenetrationPct: 40, TrendDirection: "Strong Growth", PeakMonth: ptr(3)},
		{Code: "P-2", Name: "Caustic soda", Category: "Alkalis", TotalRevenue: decimal.NewFromInt(300000),
			TotalQuantity: 2400, GrowthPct: ptr(-4.0), PenetrationPct: 65, TrendDirection: "Declining"},
		{Code: "P-3", Name: "Nitric acid", Category: "Acids", TotalRevenue: decimal.NewFromInt(200000),
			TotalQuantity: 800, PenetrationPct: 20, TrendDirection: "Stable"},
		{Code: "P-4", Name: "Ammonia", Category: "Gases", TotalRevenue: decimal.NewFromInt(0),
			TotalQuantity: 100, GrowthPct: ptr(30.0), PenetrationPct: 5, TrendDirection: "Moderate Growth", PeakMonth: ptr(14)},
	}
}

func TestRankProducts(t *testing.T) {
	t.Run("by revenue", func(t *testing.T) {
		rows := RankProducts(testProducts(), RankByRevenue, "", 0)
		require.Len(t, rows, 4)
		assert.Equal(t, "P-1", rows[0].Product.Code)
		assert.Equal(t, 1, rows[0].Rank)
		assert.Equal(t, "₽500,000", rows[0].Display)
	})

	t.Run("by growth puts missing last", func(t *testing.T) {
		rows := RankProducts(testProducts(), RankByGrowth, "", 0)
		require.Len(t, rows, 4)
		assert.Equal(t, "P-4", rows[0].Product.Code)
		assert.Equal(t, "+30.0%", rows[0].Display)
		assert.Equal(t, "P-3", rows[3].Product.Code)
		assert.Equal(t, NotAvailable, rows[3].Display)
	})

	t.Run("by quantity within category with limit", func(t *testing.T) {
		rows := RankProducts(testProducts(), RankByQuantity, "Acids", 1)
		require.Len(t, rows, 1)
		assert.Equal(t, "P-1", rows[0].Product.Code)
		assert.Equal(t, "1,200", rows[0].Display)
	})

	t.Run("by penetration", func(t *testing.T) {
		rows := RankProducts(testProducts(), RankByPenetration, "", 2)
		require.Len(t, rows, 2)
		assert.Equal(t, "P-2", rows[0].Product.Code)
		assert.Equal(t, "65.0%", rows[0].Display)
	})
}

func TestParseRankingMetric(t *testing.T) {
	m, err := ParseRankingMetric("")
	require.NoError(t, err)
	assert.Equal(t, RankByRevenue, m)

	m, err = ParseRankingMetric("Growth")
	require.NoError(t, err)
	assert.Equal(t, RankByGrowth, m)

	_, err = ParseRankingMetric("margin")
	assert.Error(t, err)
}

func TestComputeRankingStats(t *testing.T) {
	stats := ComputeRankingStats(testProducts())
	assert.Equal(t, 4, stats.TotalProducts)
	assert.Equal(t, 2, stats.GrowingProducts)
	assert.InDelta(t, 32.5, stats.AvgPenetration, 1e-9)
	require.NotNil(t, stats.AvgGrowth)
	assert.InDelta(t, 38.5/3, *stats.AvgGrowth, 1e-9)

	empty := ComputeRankingStats(nil)
	assert.Equal(t, 0.0, empty.AvgPenetration)
	assert.Nil(t, empty.AvgGrowth)
}

func TestCategoryRevenueBreakdown(t *testing.T) {
	cats := CategoryRevenueBreakdown(testProducts())
	require.Len(t, cats, 3)
	assert.Equal(t, "Acids", cats[0].Category)
	assert.True(t, cats[0].Revenue.Equal(decimal.NewFromInt(700000)))
	assert.InDelta(t, 70.0, cats[0].SharePct, 1e-9)
	assert.Equal(t, 2, cats[0].Products)
	assert.Equal(t, "Gases", cats[2].Category)

	assert.Equal(t, []string{"Acids", "Alkalis", "Gases"}, Categories(testProducts()))
}

func TestTopGrowing(t *testing.T) {
	top := TopGrowing(testProducts(), 2)
	require.Len(t, top, 2)
	assert.Equal(t, "P-4", top[0].Code)
	assert.Equal(t, "P-1", top[1].Code)
}

func TestProductDetailHelpers(t *testing.T) {
	p, ok := FindProduct(testProducts(), "P-1")
	require.True(t, ok)
	assert.Equal(t, "March", p.PeakMonthName())
	assert.Equal(t, "up", p.TrendIcon())

	p, _ = FindProduct(testProducts(), "P-3")
	assert.Equal(t, "", p.PeakMonthName())
	assert.Equal(t, "flat", p.TrendIcon())

	p, _ = FindProduct(testProducts(), "P-4")
	assert.Equal(t, "", p.PeakMonthName())

	p, _ = FindProduct(testProducts(), "P-2")
	assert.Equal(t, "down", p.TrendIcon())
}

func TestCompareProducts(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		assert.Error(t, ValidateComparison([]string{"P-1"}, 12))
		assert.Error(t, ValidateComparison([]string{"1", "2", "3", "4", "5", "6"}, 12))
		assert.Error(t, ValidateComparison([]string{"P-1", "P-2"}, 9))
		assert.NoError(t, ValidateComparison([]string{"P-1", "P-2"}, 24))
	})

	t.Run("totals per product", func(t *testing.T) {
		hist := []MonthlyPoint{
			{ProductCode: "P-1", YearMonth: "2025-05", Quantity: 100},
			{ProductCode: "P-1", YearMonth: "2025-06", Quantity: 140},
			{ProductCode: "P-2", YearMonth: "2025-06", Quantity: 60},
		}
		cmp, err := CompareProducts(testProducts(), hist, []string{"P-1", "P-2", "P-3"})
		require.NoError(t, err)
		require.Len(t, cmp, 3)
		assert.Equal(t, 240.0, cmp[0].TotalDemand)
		assert.Equal(t, 120.0, cmp[0].MonthlyAverage)
		assert.Len(t, cmp[0].Series, 2)
		assert.Equal(t, 60.0, cmp[1].TotalDemand)
		assert.Equal(t, 0.0, cmp[2].TotalDemand)
		assert.Equal(t, 0.0, cmp[2].MonthlyAverage)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := CompareProducts(testProducts(), nil, []string{"P-1", "P-404"})
		assert.Error(t, err)
	})
}

func TestComputeMarketInsights(t *testing.T) {
	mi := ComputeMarketInsights(testProducts())
	assert.Equal(t, "Acids", mi.LeadingCategory)
	require.NotNil(t, mi.FastestGrowing)
	assert.Equal(t, "P-4", mi.FastestGrowing.Code)
	require.NotNil(t, mi.HighestPenetration)
	assert.Equal(t, "P-2", mi.HighestPenetration.Code)
	assert.Equal(t, 2, mi.GrowingProducts)
	assert.InDelta(t, 50.0, mi.GrowingPct, 1e-9)
	assert.Equal(t, 1, mi.DecliningProducts)
	assert.InDelta(t, 25.0, mi.DecliningPct, 1e-9)

	empty := ComputeMarketInsights(nil)
	assert.Nil(t, empty.FastestGrowing)
	assert.Equal(t, "", empty.LeadingCategory)
}
