package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
)

func ptr[T any](v T) *T { return &v }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{
		Driver:       DriverSQLite,
		DSN:          ":memory:",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.AutoMigrate())
	return s
}

func testDataset() Dataset {
	month := func(y int, m time.Month) time.Time { return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC) }
	return Dataset{
		KPIs: []KPISummaryModel{
			{ReportMonth: month(2025, 5), TotalRevenue: 900000, TotalOrders: 120, ActiveCustomers: 40, ActiveProducts: 20},
			{ReportMonth: month(2025, 6), TotalRevenue: 1000000, RevenueGrowthMoMPct: ptr(11.1), TotalOrders: 130, ActiveCustomers: 42, ActiveProducts: 21},
			{ReportMonth: month(2025, 7), TotalRevenue: 0},
		},
		Customers: []CustomerAnalyticsModel{
			{CustomerID: "C-2", Segment: "Regular", LifetimeRevenue: 5000, ChurnRisk: "Low"},
			{CustomerID: "C-1", Segment: "VIP", LifetimeRevenue: 700000, FavoriteProduct: ptr("Sulfuric acid"), ChurnRisk: "High Risk"},
		},
		Products: []ProductAnalyticsModel{
			{Code: "P-2", Name: "Caustic soda", Category: "Alkalis", RankByRevenue: 2},
			{Code: "P-1", Name: "Sulfuric acid", Category: "Acids", RankByRevenue: 1, PeakMonth: ptr(3), GrowthPct: ptr(5.5)},
		},
		Sales: []SalesMonthlyModel{
			{CustomerID: "C-1", ProductCode: "P-1", ProductName: ptr("Sulfuric acid"), YearMonth: "2025-04", QuantitySold: 10, Revenue: 1000},
			{CustomerID: "C-1", ProductCode: "P-1", ProductName: ptr("Sulfuric acid"), YearMonth: "2025-05", QuantitySold: 12, Revenue: 1200},
			{CustomerID: "C-2", ProductCode: "P-1", ProductName: ptr("Sulfuric acid"), YearMonth: "2025-05", QuantitySold: 3, Revenue: 300},
			{CustomerID: "C-2", ProductCode: "P-2", YearMonth: "2025-06", QuantitySold: 7, Revenue: 490},
		},
		Basket: []BasketPairModel{
			{ProductACode: "P-1", ProductBCode: "P-2", Lift: 1.4, BundleScore: 60},
			{ProductACode: "P-2", ProductBCode: "P-3", Lift: 2.1, BundleScore: 60},
			{ProductACode: "P-1", ProductBCode: "P-3", Lift: 1.9, BundleScore: 80},
		},
		Seasonal: []SeasonalPatternModel{
			{ProductCode: "P-2", Month: 1, AvgQuantity: 4, SeasonalityIndex: 0.8},
			{ProductCode: "P-1", Month: 2, AvgQuantity: 9, SeasonalityIndex: 1.2},
			{ProductCode: "P-1", Month: 1, AvgQuantity: 6, SeasonalityIndex: 0.9},
		},
	}
}

func TestStore_Queries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Replace(ctx, testDataset()))
	require.NoError(t, s.Ping(ctx))

	t.Run("kpis skip zero revenue, newest first", func(t *testing.T) {
		kpis, err := s.ListMonthlyKPIs(ctx)
		require.NoError(t, err)
		require.Len(t, kpis, 2)
		assert.Equal(t, "2025-06", kpis[0].Key())
		require.NotNil(t, kpis[0].RevenueGrowthMoMPct)
		assert.Equal(t, 11.1, *kpis[0].RevenueGrowthMoMPct)
		assert.Nil(t, kpis[1].RevenueGrowthMoMPct)
	})

	t.Run("customers by revenue", func(t *testing.T) {
		customers, err := s.ListCustomers(ctx)
		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, "C-1", customers[0].CustomerID)
		assert.Equal(t, "Sulfuric acid", customers[0].FavoriteProduct)
		assert.Equal(t, "", customers[1].FavoriteProduct)
	})

	t.Run("products by rank", func(t *testing.T) {
		products, err := s.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "P-1", products[0].Code)
		require.NotNil(t, products[0].PeakMonth)
		assert.Equal(t, 3, *products[0].PeakMonth)
		assert.Nil(t, products[1].GrowthPct)
	})

	t.Run("product history sums customers", func(t *testing.T) {
		hist, err := s.ProductHistory(ctx, []string{"P-1"}, 0)
		require.NoError(t, err)
		require.Len(t, hist, 2)
		assert.Equal(t, "2025-04", hist[0].YearMonth)
		assert.Equal(t, 15.0, hist[1].Quantity)
		assert.Equal(t, "1500", hist[1].Revenue.String())
	})

	t.Run("product history window counts back from latest month", func(t *testing.T) {
		hist, err := s.ProductHistory(ctx, nil, 2)
		require.NoError(t, err)
		require.Len(t, hist, 2)
		assert.Equal(t, "2025-05", hist[0].YearMonth)
		assert.Equal(t, "P-1", hist[0].ProductCode)
		assert.Equal(t, "2025-06", hist[1].YearMonth)
		assert.Equal(t, "P-2", hist[1].ProductCode)
	})

	t.Run("seasonal patterns", func(t *testing.T) {
		all, err := s.SeasonalPatterns(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "P-1", all[0].ProductCode)
		assert.Equal(t, "January", all[0].MonthName)

		one, err := s.SeasonalPatterns(ctx, []string{"P-2"})
		require.NoError(t, err)
		assert.Len(t, one, 1)
	})

	t.Run("customer product options and history", func(t *testing.T) {
		opts, err := s.CustomerProductOptions(ctx)
		require.NoError(t, err)
		require.Len(t, opts, 3)
		assert.Equal(t, "C-1", opts[0].CustomerID)
		assert.Equal(t, "P-2 - Unknown Product", opts[2].Display())

		hist, err := s.CustomerProductHistory(ctx, "C-1", "P-1")
		require.NoError(t, err)
		require.Len(t, hist, 2)
		assert.Equal(t, 10.0, hist[0].QuantitySold)
		assert.Equal(t, "2025-05", hist[1].YearMonth)

		none, err := s.CustomerProductHistory(ctx, "C-404", "P-1")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("basket pairs by score then lift", func(t *testing.T) {
		pairs, err := s.ListBasketPairs(ctx)
		require.NoError(t, err)
		require.Len(t, pairs, 3)
		assert.Equal(t, 80.0, pairs[0].BundleScore)
		assert.Equal(t, 2.1, pairs[1].Lift)
		assert.Equal(t, 1.4, pairs[2].Lift)
	})
}

func TestStore_ReplaceClearsTables(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Replace(ctx, testDataset()))
	require.NoError(t, s.Replace(ctx, Dataset{Customers: []CustomerAnalyticsModel{{CustomerID: "C-9"}}}))

	customers, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "C-9", customers[0].CustomerID)

	kpis, err := s.ListMonthlyKPIs(ctx)
	require.NoError(t, err)
	assert.Empty(t, kpis)
}

func TestStore_MissingTableIsUpstreamError(t *testing.T) {
	s := newTestStore(t)
	s.tables.Basket = "no_such_table"

	_, err := s.ListBasketPairs(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUpstream)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"}, nil)
	assert.Error(t, err)
}
