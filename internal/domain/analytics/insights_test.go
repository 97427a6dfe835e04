package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInsights(t *testing.T) {
	t.Run("all sources", func(t *testing.T) {
		insights := GenerateInsights(testSeries(), testCustomers(), testProducts())
		require.Len(t, insights, 6)

		assert.Equal(t, InsightRevenue, insights[0].Kind)
		assert.Contains(t, insights[0].Message, "July 2025")
		assert.Contains(t, insights[0].Message, "decreased")
		assert.Contains(t, insights[1].Message, "June 2025")
		assert.Contains(t, insights[2].Message, "VIP customers are 25.0%")
		assert.Contains(t, insights[3].Message, "2 customers are at high churn risk")
		assert.Contains(t, insights[4].Message, "Ammonia")
		assert.Contains(t, insights[5].Message, "Acids")
	})

	t.Run("kpis only", func(t *testing.T) {
		insights := GenerateInsights(testSeries(), nil, nil)
		require.Len(t, insights, 2)
		for _, in := range insights {
			assert.Equal(t, InsightRevenue, in.Kind)
		}
	})

	t.Run("nothing loaded", func(t *testing.T) {
		assert.Empty(t, GenerateInsights(nil, nil, nil))
	})
}
