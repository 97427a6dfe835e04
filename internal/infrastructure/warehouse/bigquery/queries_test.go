package bigquery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testBuilder() queryBuilder {
	return queryBuilder{
		project: "proj",
		dataset: "sales_analytics",
		tables: Tables{
			KPI:       "kpi_summary",
			Customers: "customer_analytics",
			Products:  "product_analytics",
			History:   "customer_product_monthly",
			Basket:    "basket_analysis",
			Seasonal:  "seasonal_patterns",
		},
	}
}

func TestQueryBuilder_FixedQueries(t *testing.T) {
	b := testBuilder()

	kpis := b.monthlyKPIs()
	assert.Contains(t, kpis, "FROM `proj.sales_analytics.kpi_summary`")
	assert.Contains(t, kpis, "WHERE total_revenue > 0")
	assert.True(t, strings.HasSuffix(kpis, "ORDER BY report_month DESC"))

	assert.Contains(t, b.customers(), "ORDER BY total_lifetime_revenue DESC")
	assert.Contains(t, b.products(), "ORDER BY rank_by_revenue ASC")
	assert.Contains(t, b.basketPairs(), "ORDER BY bundle_score DESC, lift DESC")
	assert.Contains(t, b.customerProductOptions(), "SELECT DISTINCT")
	assert.Contains(t, b.customerProductHistory(), "@customer_id")
	assert.Contains(t, b.customerProductHistory(), "@product_code")
}

func TestQueryBuilder_ProductHistory(t *testing.T) {
	b := testBuilder()

	all := b.productHistory(false, false)
	assert.NotContains(t, all, "WHERE")
	assert.NotContains(t, all, "recent_months")
	assert.Contains(t, all, "GROUP BY product_code, year_month")

	codes := b.productHistory(true, false)
	assert.Contains(t, codes, "WHERE CAST(Product_code AS STRING) IN UNNEST(@codes)")
	assert.NotContains(t, codes, "@months")

	windowed := b.productHistory(true, true)
	assert.True(t, strings.HasPrefix(windowed, "WITH recent_months AS"))
	assert.Contains(t, windowed, "LIMIT @months")
	assert.Contains(t, windowed, "AND year_month IN (SELECT year_month FROM recent_months)")

	onlyWindow := b.productHistory(false, true)
	assert.Contains(t, onlyWindow, "WHERE year_month IN")
}

func TestQueryBuilder_SeasonalPatterns(t *testing.T) {
	b := testBuilder()
	assert.NotContains(t, b.seasonalPatterns(false), "WHERE")
	assert.Contains(t, b.seasonalPatterns(true), "IN UNNEST(@codes)")
	assert.Contains(t, b.seasonalPatterns(true), "FROM `proj.sales_analytics.seasonal_patterns`")
}
