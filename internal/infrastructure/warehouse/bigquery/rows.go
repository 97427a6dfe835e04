package bigquery

import (
	"time"

	bq "cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
)

type kpiRow struct {
	ReportMonth         civil.Date       `bigquery:"report_month"`
	TotalRevenue        float64          `bigquery:"total_revenue"`
	RevenueGrowthMoMPct bq.NullFloat64   `bigquery:"revenue_growth_mom_pct"`
	TotalOrders         int64            `bigquery:"total_orders"`
	OrdersGrowthMoMPct  bq.NullFloat64   `bigquery:"orders_growth_mom_pct"`
	ActiveCustomers     int64            `bigquery:"active_customers"`
	ActiveProducts      int64            `bigquery:"active_products"`
	LastUpdated         bq.NullTimestamp `bigquery:"last_updated"`
}

func (r kpiRow) toDomain() analytics.MonthlyKPI {
	k := analytics.MonthlyKPI{
		ReportMonth:         r.ReportMonth.In(time.UTC),
		TotalRevenue:        decimal.NewFromFloat(r.TotalRevenue),
		RevenueGrowthMoMPct: nullFloat(r.RevenueGrowthMoMPct),
		TotalOrders:         r.TotalOrders,
		OrdersGrowthMoMPct:  nullFloat(r.OrdersGrowthMoMPct),
		ActiveCustomers:     r.ActiveCustomers,
		ActiveProducts:      r.ActiveProducts,
	}
	if r.LastUpdated.Valid {
		ts := r.LastUpdated.Timestamp.UTC()
		k.LastUpdated = &ts
	}
	return k
}

type customerRow struct {
	CustomerID         string        `bigquery:"customer_id"`
	Segment            bq.NullString `bigquery:"customer_segment"`
	LifetimeRevenue    float64       `bigquery:"total_lifetime_revenue"`
	RevenueLast3Months float64       `bigquery:"revenue_last_3_months"`
	GrowthStatus       bq.NullString `bigquery:"growth_status"`
	FavoriteProduct    bq.NullString `bigquery:"favorite_product_1_name"`
	ChurnRisk          bq.NullString `bigquery:"churn_risk"`
}

func (r customerRow) toDomain() analytics.CustomerProfile {
	return analytics.CustomerProfile{
		CustomerID:         r.CustomerID,
		Segment:            r.Segment.StringVal,
		LifetimeRevenue:    decimal.NewFromFloat(r.LifetimeRevenue),
		RevenueLast3Months: decimal.NewFromFloat(r.RevenueLast3Months),
		GrowthStatus:       r.GrowthStatus.StringVal,
		FavoriteProduct:    r.FavoriteProduct.StringVal,
		ChurnRisk:          r.ChurnRisk.StringVal,
	}
}

type productRow struct {
	Code                string         `bigquery:"product_code"`
	Name                bq.NullString  `bigquery:"product_name"`
	Category            bq.NullString  `bigquery:"product_type"`
	TotalRevenue        bq.NullFloat64 `bigquery:"total_revenue_all_time"`
	TotalQuantity       bq.NullFloat64 `bigquery:"total_quantity_all_time"`
	AvgMonthlyQuantity  bq.NullFloat64 `bigquery:"avg_monthly_quantity"`
	QuantityLast3Months bq.NullFloat64 `bigquery:"quantity_last_3mo"`
	GrowthPct           bq.NullFloat64 `bigquery:"quantity_growth_pct"`
	PenetrationPct      bq.NullFloat64 `bigquery:"customer_penetration_pct"`
	TrendDirection      bq.NullString  `bigquery:"trend_direction"`
	RankByRevenue       bq.NullInt64   `bigquery:"rank_by_revenue"`
	PercentileRank      bq.NullFloat64 `bigquery:"percentile_rank"`
	PeakMonth           bq.NullInt64   `bigquery:"peak_month"`
	TopCustomer         bq.NullString  `bigquery:"top_customer_1"`
	TopCustomerQty      bq.NullFloat64 `bigquery:"top_customer_1_qty"`
}

func (r productRow) toDomain() analytics.ProductProfile {
	p := analytics.ProductProfile{
		Code:                r.Code,
		Name:                r.Name.StringVal,
		Category:            r.Category.StringVal,
		TotalRevenue:        decimal.NewFromFloat(r.TotalRevenue.Float64),
		TotalQuantity:       r.TotalQuantity.Float64,
		AvgMonthlyQuantity:  r.AvgMonthlyQuantity.Float64,
		QuantityLast3Months: r.QuantityLast3Months.Float64,
		GrowthPct:           nullFloat(r.GrowthPct),
		PenetrationPct:      r.PenetrationPct.Float64,
		TrendDirection:      r.TrendDirection.StringVal,
		RankByRevenue:       r.RankByRevenue.Int64,
		PercentileRank:      r.PercentileRank.Float64,
		TopCustomer:         r.TopCustomer.StringVal,
		TopCustomerQty:      r.TopCustomerQty.Float64,
	}
	if r.PeakMonth.Valid {
		m := int(r.PeakMonth.Int64)
		p.PeakMonth = &m
	}
	return p
}

type monthlyRow struct {
	ProductCode string         `bigquery:"product_code"`
	YearMonth   string         `bigquery:"year_month"`
	Quantity    bq.NullFloat64 `bigquery:"quantity"`
	Revenue     bq.NullFloat64 `bigquery:"revenue"`
}

func (r monthlyRow) toDomain() analytics.MonthlyPoint {
	return analytics.MonthlyPoint{
		ProductCode: r.ProductCode,
		YearMonth:   r.YearMonth,
		Quantity:    r.Quantity.Float64,
		Revenue:     decimal.NewFromFloat(r.Revenue.Float64),
	}
}

type seasonalRow struct {
	ProductCode      string         `bigquery:"product_code"`
	Month            int64          `bigquery:"month_number"`
	AvgQuantity      bq.NullFloat64 `bigquery:"avg_quantity"`
	SeasonalityIndex bq.NullFloat64 `bigquery:"seasonality_index"`
}

func (r seasonalRow) toDomain() analytics.SeasonalPoint {
	return analytics.SeasonalPoint{
		ProductCode:      r.ProductCode,
		Month:            int(r.Month),
		MonthName:        analytics.MonthName(int(r.Month)),
		AvgQuantity:      r.AvgQuantity.Float64,
		SeasonalityIndex: r.SeasonalityIndex.Float64,
	}
}

type optionRow struct {
	CustomerID  string        `bigquery:"customer_id"`
	ProductCode string        `bigquery:"product_code"`
	ProductName bq.NullString `bigquery:"product_name"`
}

func (r optionRow) toDomain() analytics.CustomerProductOption {
	return analytics.CustomerProductOption{
		CustomerID:  r.CustomerID,
		ProductCode: r.ProductCode,
		ProductName: r.ProductName.StringVal,
	}
}

type historyRow struct {
	YearMonth    string         `bigquery:"year_month"`
	QuantitySold bq.NullFloat64 `bigquery:"quantity_sold"`
	Revenue      bq.NullFloat64 `bigquery:"revenue"`
}

func (r historyRow) toDomain() analytics.HistoricalPoint {
	return analytics.HistoricalPoint{
		YearMonth:    r.YearMonth,
		QuantitySold: r.QuantitySold.Float64,
		Revenue:      decimal.NewFromFloat(r.Revenue.Float64),
	}
}

type basketRow struct {
	ProductACode         string         `bigquery:"product_a_code"`
	ProductAName         bq.NullString  `bigquery:"product_a_name"`
	ProductBCode         string         `bigquery:"product_b_code"`
	ProductBName         bq.NullString  `bigquery:"product_b_name"`
	CategoryRelationship bq.NullString  `bigquery:"category_relationship"`
	SupportPct           bq.NullFloat64 `bigquery:"support_pct"`
	ConfidencePct        bq.NullFloat64 `bigquery:"confidence_a_to_b_pct"`
	Lift                 bq.NullFloat64 `bigquery:"lift"`
	AssociationStrength  bq.NullString  `bigquery:"association_strength"`
	BundleScore          bq.NullFloat64 `bigquery:"bundle_score"`
	AvgBundleRevenue     bq.NullFloat64 `bigquery:"avg_bundle_revenue"`
	BundleName           bq.NullString  `bigquery:"bundle_name_suggestion"`
}

func (r basketRow) toDomain() analytics.BasketPair {
	return analytics.BasketPair{
		ProductACode:         r.ProductACode,
		ProductAName:         r.ProductAName.StringVal,
		ProductBCode:         r.ProductBCode,
		ProductBName:         r.ProductBName.StringVal,
		CategoryRelationship: r.CategoryRelationship.StringVal,
		SupportPct:           r.SupportPct.Float64,
		ConfidencePct:        r.ConfidencePct.Float64,
		Lift:                 r.Lift.Float64,
		AssociationStrength:  r.AssociationStrength.StringVal,
		BundleScore:          r.BundleScore.Float64,
		AvgBundleRevenue:     decimal.NewFromFloat(r.AvgBundleRevenue.Float64),
		BundleName:           r.BundleName.StringVal,
	}
}

func nullFloat(v bq.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
