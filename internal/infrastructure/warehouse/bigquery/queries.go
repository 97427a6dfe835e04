package bigquery

import (
	"fmt"
	"strings"
)

// Tables names the analytics tables inside the dataset
type Tables struct {
	KPI       string
	Customers string
	Products  string
	History   string
	Basket    string
	Seasonal  string
}

// queryBuilder renders the dashboard queries against one dataset
type queryBuilder struct {
	project string
	dataset string
	tables  Tables
}

func (b queryBuilder) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", b.project, b.dataset, name)
}

func (b queryBuilder) monthlyKPIs() string {
	return `SELECT
  CAST(report_month AS DATE) AS report_month,
  CAST(total_revenue AS FLOAT64) AS total_revenue,
  CAST(revenue_growth_mom_pct AS FLOAT64) AS revenue_growth_mom_pct,
  CAST(total_orders AS INT64) AS total_orders,
  CAST(orders_growth_mom_pct AS FLOAT64) AS orders_growth_mom_pct,
  CAST(active_customers AS INT64) AS active_customers,
  CAST(active_products AS INT64) AS active_products,
  SAFE_CAST(last_updated AS TIMESTAMP) AS last_updated
FROM ` + b.table(b.tables.KPI) + `
WHERE total_revenue > 0
ORDER BY report_month DESC`
}

func (b queryBuilder) customers() string {
	return `SELECT
  CAST(customer_id AS STRING) AS customer_id,
  customer_segment,
  CAST(total_lifetime_revenue AS FLOAT64) AS total_lifetime_revenue,
  CAST(revenue_last_3_months AS FLOAT64) AS revenue_last_3_months,
  growth_status,
  favorite_product_1_name,
  churn_risk
FROM ` + b.table(b.tables.Customers) + `
ORDER BY total_lifetime_revenue DESC`
}

func (b queryBuilder) products() string {
	return `SELECT
  CAST(product_code AS STRING) AS product_code,
  product_name,
  product_type,
  CAST(total_revenue_all_time AS FLOAT64) AS total_revenue_all_time,
  CAST(total_quantity_all_time AS FLOAT64) AS total_quantity_all_time,
  CAST(avg_monthly_quantity AS FLOAT64) AS avg_monthly_quantity,
  CAST(quantity_last_3mo AS FLOAT64) AS quantity_last_3mo,
  CAST(quantity_growth_pct AS FLOAT64) AS quantity_growth_pct,
  CAST(customer_penetration_pct AS FLOAT64) AS customer_penetration_pct,
  trend_direction,
  CAST(rank_by_revenue AS INT64) AS rank_by_revenue,
  CAST(percentile_rank AS FLOAT64) AS percentile_rank,
  CAST(peak_month AS INT64) AS peak_month,
  CAST(top_customer_1 AS STRING) AS top_customer_1,
  CAST(top_customer_1_qty AS FLOAT64) AS top_customer_1_qty
FROM ` + b.table(b.tables.Products) + `
ORDER BY rank_by_revenue ASC`
}

// productHistory sums demand per product and month. Filters are added only
// when codes or a month window are requested.
func (b queryBuilder) productHistory(filterCodes, windowed bool) string {
	var sb strings.Builder
	history := b.table(b.tables.History)
	if windowed {
		sb.WriteString("WITH recent_months AS (\n  SELECT DISTINCT year_month FROM " + history +
			"\n  ORDER BY year_month DESC\n  LIMIT @months\n)\n")
	}
	sb.WriteString(`SELECT
  CAST(Product_code AS STRING) AS product_code,
  year_month,
  CAST(SUM(Quantity_sold) AS FLOAT64) AS quantity,
  CAST(SUM(revenue) AS FLOAT64) AS revenue
FROM ` + history)

	var where []string
	if filterCodes {
		where = append(where, "CAST(Product_code AS STRING) IN UNNEST(@codes)")
	}
	if windowed {
		where = append(where, "year_month IN (SELECT year_month FROM recent_months)")
	}
	if len(where) > 0 {
		sb.WriteString("\nWHERE " + strings.Join(where, "\n  AND "))
	}
	sb.WriteString("\nGROUP BY product_code, year_month\nORDER BY year_month ASC, product_code ASC")
	return sb.String()
}

func (b queryBuilder) seasonalPatterns(filterCodes bool) string {
	q := `SELECT
  CAST(Product_code AS STRING) AS product_code,
  CAST(month_number AS INT64) AS month_number,
  CAST(avg_quantity AS FLOAT64) AS avg_quantity,
  CAST(seasonality_index AS FLOAT64) AS seasonality_index
FROM ` + b.table(b.tables.Seasonal)
	if filterCodes {
		q += "\nWHERE CAST(Product_code AS STRING) IN UNNEST(@codes)"
	}
	return q + "\nORDER BY product_code ASC, month_number ASC"
}

func (b queryBuilder) customerProductOptions() string {
	return `SELECT DISTINCT
  CAST(Customer_ID AS STRING) AS customer_id,
  CAST(Product_code AS STRING) AS product_code,
  Product_name AS product_name
FROM ` + b.table(b.tables.History) + `
ORDER BY customer_id ASC, product_code ASC`
}

func (b queryBuilder) customerProductHistory() string {
	return `SELECT
  year_month,
  CAST(SUM(Quantity_sold) AS FLOAT64) AS quantity_sold,
  CAST(SUM(revenue) AS FLOAT64) AS revenue
FROM ` + b.table(b.tables.History) + `
WHERE CAST(Customer_ID AS STRING) = @customer_id
  AND CAST(Product_code AS STRING) = @product_code
GROUP BY year_month
ORDER BY year_month ASC`
}

func (b queryBuilder) basketPairs() string {
	return `SELECT
  CAST(product_a_code AS STRING) AS product_a_code,
  product_a_name,
  CAST(product_b_code AS STRING) AS product_b_code,
  product_b_name,
  category_relationship,
  CAST(support_pct AS FLOAT64) AS support_pct,
  CAST(confidence_a_to_b_pct AS FLOAT64) AS confidence_a_to_b_pct,
  CAST(lift AS FLOAT64) AS lift,
  association_strength,
  CAST(bundle_score AS FLOAT64) AS bundle_score,
  CAST(avg_bundle_revenue AS FLOAT64) AS avg_bundle_revenue,
  bundle_name_suggestion
FROM ` + b.table(b.tables.Basket) + `
ORDER BY bundle_score DESC, lift DESC`
}
