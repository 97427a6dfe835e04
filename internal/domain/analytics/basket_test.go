package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPairs() []BasketPair {
	return []BasketPair{
		{ProductACode: "P-1", ProductAName: "Sulfuric acid", ProductBCode: "P-2", ProductBName: "Caustic soda",
			CategoryRelationship: "Acids -> Alkalis", SupportPct: 12, ConfidencePct: 75, Lift: 2.4,
			AssociationStrength: "Strong", BundleScore: 88, AvgBundleRevenue: decimal.NewFromInt(90000), BundleName: "Neutralization kit"},
		{ProductACode: "P-1", ProductAName: "Sulfuric acid", ProductBCode: "P-3", ProductBName: "Nitric acid",
			CategoryRelationship: "Acids -> Acids", SupportPct: 8, ConfidencePct: 55, Lift: 1.3,
			AssociationStrength: "Moderate", BundleScore: 64, AvgBundleRevenue: decimal.NewFromInt(150000), BundleName: "Acid pack"},
		{ProductACode: "P-2", ProductAName: "Caustic soda", ProductBCode: "P-4", ProductBName: "Ammonia",
			CategoryRelationship: "Alkalis -> Gases", SupportPct: 4, ConfidencePct: 30, Lift: 1.1,
			AssociationStrength: "Weak", BundleScore: 40, AvgBundleRevenue: decimal.NewFromInt(30000), BundleName: "Cleaning duo"},
		{ProductACode: "P-1", ProductAName: "Sulfuric acid", ProductBCode: "P-4", ProductBName: "Ammonia",
			CategoryRelationship: "Acids -> Alkalis", SupportPct: 6, ConfidencePct: 70, Lift: 1.6,
			AssociationStrength: "Very Strong", BundleScore: 72, AvgBundleRevenue: decimal.NewFromInt(60000), BundleName: "Fertilizer base"},
	}
}

func TestTopBundlesAndInsights(t *testing.T) {
	top := TopBundles(testPairs(), 3)
	require.Len(t, top, 3)
	assert.Equal(t, "Neutralization kit", top[0].BundleName)
	assert.Equal(t, "Fertilizer base", top[1].BundleName)
	assert.Equal(t, "Acid pack", top[2].BundleName)

	bi := SummarizeBundles(top)
	assert.Equal(t, 2, bi.HighValueBundles)
	assert.Equal(t, 2, bi.StrongAssociations)
	assert.True(t, bi.AvgBundleRevenue.Equal(decimal.NewFromInt(100000)))
}

func TestCategoryStats(t *testing.T) {
	stats := CategoryStats(testPairs())
	require.Len(t, stats, 3)
	assert.Equal(t, "Acids -> Alkalis", stats[0].Relationship)
	assert.Equal(t, 2, stats[0].PairCount)
	assert.InDelta(t, 2.0, stats[0].AvgLift, 1e-9)
	assert.InDelta(t, 9.0, stats[0].AvgSupport, 1e-9)
	assert.True(t, stats[0].AvgRevenue.Equal(decimal.NewFromInt(75000)))
	// single-pair groups are ordered by lift
	assert.Equal(t, "Acids -> Acids", stats[1].Relationship)

	h := HighlightCategories(stats)
	require.NotNil(t, h.Best)
	assert.Equal(t, "Acids -> Alkalis", h.Best.Relationship)
	assert.Equal(t, "Alkalis -> Gases", h.Worst.Relationship)
	assert.Equal(t, "Acids -> Alkalis", h.MostCommon.Relationship)

	assert.Nil(t, HighlightCategories(nil).Best)
}

func TestStrengthDistribution(t *testing.T) {
	dist := StrengthDistribution(testPairs())
	require.Len(t, dist, 4)
	for _, b := range dist {
		assert.Equal(t, 1, b.Count)
	}
	assert.Equal(t, "Strong", dist[0].Strength)
	assert.InDelta(t, 88.0, dist[0].AvgBundleScore, 1e-9)
}

func TestBuildNetwork(t *testing.T) {
	net, err := BuildNetwork(testPairs(), DefaultNetworkMinLift)
	require.NoError(t, err)
	assert.Len(t, net.Edges, 3)
	require.NotEmpty(t, net.Nodes)
	assert.Equal(t, "P-1", net.Nodes[0].Code)
	assert.Equal(t, 3, net.Nodes[0].Degree)

	net, err = BuildNetwork(testPairs(), 3.0)
	require.NoError(t, err)
	assert.Empty(t, net.Edges)
	assert.Empty(t, net.Nodes)

	_, err = BuildNetwork(testPairs(), 0.5)
	assert.Error(t, err)
	_, err = BuildNetwork(testPairs(), 3.5)
	assert.Error(t, err)
}

func TestLiftHistogram(t *testing.T) {
	bins := LiftHistogram(testPairs(), 0.5)
	// lifts 1.1 1.3 1.6 2.4 fall into [1.0,1.5) [1.5,2.0) [2.0,2.5)
	require.Len(t, bins, 3)
	assert.Equal(t, 1.0, bins[0].Lower)
	assert.Equal(t, 2, bins[0].Count)
	assert.Equal(t, 1, bins[1].Count)
	assert.Equal(t, 1, bins[2].Count)

	assert.Empty(t, LiftHistogram(nil, 0))
}

func TestBuildConfidenceMatrix(t *testing.T) {
	m := BuildConfidenceMatrix(testPairs())
	assert.Equal(t, []string{"Sulfuric acid", "Caustic soda"}, m.Rows)
	assert.Equal(t, []string{"Caustic soda", "Nitric acid", "Ammonia"}, m.Columns)
	require.NotNil(t, m.Cells[0][0])
	assert.Equal(t, 75.0, *m.Cells[0][0])
	assert.Nil(t, m.Cells[1][0])
	require.NotNil(t, m.Cells[1][2])
	assert.Equal(t, 30.0, *m.Cells[1][2])
}

func TestCrossSell(t *testing.T) {
	recs := CrossSell(testPairs(), "P-1")
	require.Len(t, recs, 3)
	assert.Equal(t, "Caustic soda", recs[0].ProductName)
	assert.Equal(t, IndicatorGreen, recs[0].Band)
	assert.Equal(t, "Ammonia", recs[1].ProductName)
	assert.Equal(t, IndicatorGreen, recs[1].Band)
	assert.Equal(t, IndicatorYellow, recs[2].Band)

	ci := SummarizeCrossSell(recs)
	require.NotNil(t, ci.Best)
	assert.Equal(t, "Caustic soda", ci.Best.ProductName)
	assert.Equal(t, 3, ci.Opportunities)
	assert.True(t, ci.AvgBundleRevenue.Equal(decimal.NewFromInt(100000)))

	assert.Empty(t, CrossSell(testPairs(), "P-404"))
	assert.Nil(t, SummarizeCrossSell(nil).Best)
	assert.Equal(t, IndicatorRed, ConfidenceBand(49.9))
}

func TestBasketProducts(t *testing.T) {
	products := BasketProducts(testPairs())
	require.Len(t, products, 2)
	assert.Equal(t, "P-1 - Sulfuric acid", products[0].Display())
	assert.Equal(t, "P-2", products[1].Code)
}

func TestSummarizeMarket(t *testing.T) {
	s := SummarizeMarket(testPairs())
	assert.Equal(t, 4, s.TotalPairs)
	assert.Equal(t, 2, s.StrongAssociations)
	assert.Equal(t, 2, s.HighConfidencePairs)
	assert.True(t, s.AvgBundleRevenue.Equal(decimal.NewFromInt(82500)))
	assert.Equal(t, "Neutralization kit", s.BestBundle.BundleName)
	assert.Equal(t, "Acid pack", s.HighestRevenue.BundleName)
	assert.Equal(t, "Neutralization kit", s.StrongestLift.BundleName)

	empty := SummarizeMarket(nil)
	assert.Equal(t, 0, empty.TotalPairs)
	assert.Nil(t, empty.BestBundle)
}
