package sqlstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
)

// KPISummaryModel is a row of kpi_summary
type KPISummaryModel struct {
	ReportMonth         time.Time  `gorm:"column:report_month;type:date;primaryKey"`
	TotalRevenue        float64    `gorm:"column:total_revenue;not null;default:0"`
	RevenueGrowthMoMPct *float64   `gorm:"column:revenue_growth_mom_pct"`
	TotalOrders         int64      `gorm:"column:total_orders;not null;default:0"`
	OrdersGrowthMoMPct  *float64   `gorm:"column:orders_growth_mom_pct"`
	ActiveCustomers     int64      `gorm:"column:active_customers;not null;default:0"`
	ActiveProducts      int64      `gorm:"column:active_products;not null;default:0"`
	LastUpdated         *time.Time `gorm:"column:last_updated"`
}

// ToDomain converts the row
func (m KPISummaryModel) ToDomain() analytics.MonthlyKPI {
	return analytics.MonthlyKPI{
		ReportMonth:         time.Date(m.ReportMonth.Year(), m.ReportMonth.Month(), m.ReportMonth.Day(), 0, 0, 0, 0, time.UTC),
		TotalRevenue:        decimal.NewFromFloat(m.TotalRevenue),
		RevenueGrowthMoMPct: m.RevenueGrowthMoMPct,
		TotalOrders:         m.TotalOrders,
		OrdersGrowthMoMPct:  m.OrdersGrowthMoMPct,
		ActiveCustomers:     m.ActiveCustomers,
		ActiveProducts:      m.ActiveProducts,
		LastUpdated:         m.LastUpdated,
	}
}

// KPIModelFromDomain is the inverse of ToDomain
func KPIModelFromDomain(k analytics.MonthlyKPI) KPISummaryModel {
	return KPISummaryModel{
		ReportMonth:         k.ReportMonth,
		TotalRevenue:        k.TotalRevenue.InexactFloat64(),
		RevenueGrowthMoMPct: k.RevenueGrowthMoMPct,
		TotalOrders:         k.TotalOrders,
		OrdersGrowthMoMPct:  k.OrdersGrowthMoMPct,
		ActiveCustomers:     k.ActiveCustomers,
		ActiveProducts:      k.ActiveProducts,
		LastUpdated:         k.LastUpdated,
	}
}

// CustomerAnalyticsModel is a row of customer_analytics
type CustomerAnalyticsModel struct {
	CustomerID         string  `gorm:"column:customer_id;primaryKey;size:64"`
	Segment            string  `gorm:"column:customer_segment;size:64;not null;default:''"`
	LifetimeRevenue    float64 `gorm:"column:total_lifetime_revenue;not null;default:0"`
	RevenueLast3Months float64 `gorm:"column:revenue_last_3_months;not null;default:0"`
	GrowthStatus       string  `gorm:"column:growth_status;size:64;not null;default:''"`
	FavoriteProduct    *string `gorm:"column:favorite_product_1_name;size:255"`
	ChurnRisk          string  `gorm:"column:churn_risk;size:64;not null;default:''"`
}

// ToDomain converts the row
func (m CustomerAnalyticsModel) ToDomain() analytics.CustomerProfile {
	return analytics.CustomerProfile{
		CustomerID:         m.CustomerID,
		Segment:            m.Segment,
		LifetimeRevenue:    decimal.NewFromFloat(m.LifetimeRevenue),
		RevenueLast3Months: decimal.NewFromFloat(m.RevenueLast3Months),
		GrowthStatus:       m.GrowthStatus,
		FavoriteProduct:    deref(m.FavoriteProduct),
		ChurnRisk:          m.ChurnRisk,
	}
}

// CustomerModelFromDomain is the inverse of ToDomain
func CustomerModelFromDomain(c analytics.CustomerProfile) CustomerAnalyticsModel {
	return CustomerAnalyticsModel{
		CustomerID:         c.CustomerID,
		Segment:            c.Segment,
		LifetimeRevenue:    c.LifetimeRevenue.InexactFloat64(),
		RevenueLast3Months: c.RevenueLast3Months.InexactFloat64(),
		GrowthStatus:       c.GrowthStatus,
		FavoriteProduct:    optional(c.FavoriteProduct),
		ChurnRisk:          c.ChurnRisk,
	}
}

// ProductAnalyticsModel is a row of product_analytics
type ProductAnalyticsModel struct {
	Code                string   `gorm:"column:product_code;primaryKey;size:64"`
	Name                string   `gorm:"column:product_name;size:255;not null;default:''"`
	Category            string   `gorm:"column:product_type;size:128;not null;default:''"`
	TotalRevenue        float64  `gorm:"column:total_revenue_all_time;not null;default:0"`
	TotalQuantity       float64  `gorm:"column:total_quantity_all_time;not null;default:0"`
	AvgMonthlyQuantity  float64  `gorm:"column:avg_monthly_quantity;not null;default:0"`
	QuantityLast3Months float64  `gorm:"column:quantity_last_3mo;not null;default:0"`
	GrowthPct           *float64 `gorm:"column:quantity_growth_pct"`
	PenetrationPct      float64  `gorm:"column:customer_penetration_pct;not null;default:0"`
	TrendDirection      string   `gorm:"column:trend_direction;size:64;not null;default:''"`
	RankByRevenue       int64    `gorm:"column:rank_by_revenue;not null;default:0"`
	PercentileRank      float64  `gorm:"column:percentile_rank;not null;default:0"`
	PeakMonth           *int     `gorm:"column:peak_month"`
	TopCustomer         *string  `gorm:"column:top_customer_1;size:64"`
	TopCustomerQty      float64  `gorm:"column:top_customer_1_qty;not null;default:0"`
}

// ToDomain converts the row
func (m ProductAnalyticsModel) ToDomain() analytics.ProductProfile {
	return analytics.ProductProfile{
		Code:                m.Code,
		Name:                m.Name,
		Category:            m.Category,
		TotalRevenue:        decimal.NewFromFloat(m.TotalRevenue),
		TotalQuantity:       m.TotalQuantity,
		AvgMonthlyQuantity:  m.AvgMonthlyQuantity,
		QuantityLast3Months: m.QuantityLast3Months,
		GrowthPct:           m.GrowthPct,
		PenetrationPct:      m.PenetrationPct,
		TrendDirection:      m.TrendDirection,
		RankByRevenue:       m.RankByRevenue,
		PercentileRank:      m.PercentileRank,
		PeakMonth:           m.PeakMonth,
		TopCustomer:         deref(m.TopCustomer),
		TopCustomerQty:      m.TopCustomerQty,
	}
}

// ProductModelFromDomain is the inverse of ToDomain
func ProductModelFromDomain(p analytics.ProductProfile) ProductAnalyticsModel {
	return ProductAnalyticsModel{
		Code:                p.Code,
		Name:                p.Name,
		Category:            p.Category,
		TotalRevenue:        p.TotalRevenue.InexactFloat64(),
		TotalQuantity:       p.TotalQuantity,
		AvgMonthlyQuantity:  p.AvgMonthlyQuantity,
		QuantityLast3Months: p.QuantityLast3Months,
		GrowthPct:           p.GrowthPct,
		PenetrationPct:      p.PenetrationPct,
		TrendDirection:      p.TrendDirection,
		RankByRevenue:       p.RankByRevenue,
		PercentileRank:      p.PercentileRank,
		PeakMonth:           p.PeakMonth,
		TopCustomer:         optional(p.TopCustomer),
		TopCustomerQty:      p.TopCustomerQty,
	}
}

// SalesMonthlyModel is a row of customer_product_monthly
type SalesMonthlyModel struct {
	CustomerID   string  `gorm:"column:customer_id;primaryKey;size:64"`
	ProductCode  string  `gorm:"column:product_code;primaryKey;size:64;index:idx_sales_product_month,priority:1"`
	ProductName  *string `gorm:"column:product_name;size:255"`
	YearMonth    string  `gorm:"column:year_month;primaryKey;size:7;index:idx_sales_product_month,priority:2"`
	QuantitySold float64 `gorm:"column:quantity_sold;not null;default:0"`
	Revenue      float64 `gorm:"column:revenue;not null;default:0"`
}

// BasketPairModel is a row of basket_analysis
type BasketPairModel struct {
	ProductACode         string  `gorm:"column:product_a_code;primaryKey;size:64"`
	ProductAName         string  `gorm:"column:product_a_name;size:255;not null;default:''"`
	ProductBCode         string  `gorm:"column:product_b_code;primaryKey;size:64"`
	ProductBName         string  `gorm:"column:product_b_name;size:255;not null;default:''"`
	CategoryRelationship string  `gorm:"column:category_relationship;size:255;not null;default:''"`
	SupportPct           float64 `gorm:"column:support_pct;not null;default:0"`
	ConfidencePct        float64 `gorm:"column:confidence_a_to_b_pct;not null;default:0"`
	Lift                 float64 `gorm:"column:lift;not null;default:0"`
	AssociationStrength  string  `gorm:"column:association_strength;size:64;not null;default:''"`
	BundleScore          float64 `gorm:"column:bundle_score;not null;default:0"`
	AvgBundleRevenue     float64 `gorm:"column:avg_bundle_revenue;not null;default:0"`
	BundleName           string  `gorm:"column:bundle_name_suggestion;size:255;not null;default:''"`
}

// ToDomain converts the row
func (m BasketPairModel) ToDomain() analytics.BasketPair {
	return analytics.BasketPair{
		ProductACode:         m.ProductACode,
		ProductAName:         m.ProductAName,
		ProductBCode:         m.ProductBCode,
		ProductBName:         m.ProductBName,
		CategoryRelationship: m.CategoryRelationship,
		SupportPct:           m.SupportPct,
		ConfidencePct:        m.ConfidencePct,
		Lift:                 m.Lift,
		AssociationStrength:  m.AssociationStrength,
		BundleScore:          m.BundleScore,
		AvgBundleRevenue:     decimal.NewFromFloat(m.AvgBundleRevenue),
		BundleName:           m.BundleName,
	}
}

// BasketModelFromDomain is the inverse of ToDomain
func BasketModelFromDomain(p analytics.BasketPair) BasketPairModel {
	return BasketPairModel{
		ProductACode:         p.ProductACode,
		ProductAName:         p.ProductAName,
		ProductBCode:         p.ProductBCode,
		ProductBName:         p.ProductBName,
		CategoryRelationship: p.CategoryRelationship,
		SupportPct:           p.SupportPct,
		ConfidencePct:        p.ConfidencePct,
		Lift:                 p.Lift,
		AssociationStrength:  p.AssociationStrength,
		BundleScore:          p.BundleScore,
		AvgBundleRevenue:     p.AvgBundleRevenue.InexactFloat64(),
		BundleName:           p.BundleName,
	}
}

// SeasonalPatternModel is a row of seasonal_patterns
type SeasonalPatternModel struct {
	ProductCode      string  `gorm:"column:product_code;primaryKey;size:64"`
	Month            int     `gorm:"column:month_number;primaryKey"`
	AvgQuantity      float64 `gorm:"column:avg_quantity;not null;default:0"`
	SeasonalityIndex float64 `gorm:"column:seasonality_index;not null;default:0"`
}

// ToDomain converts the row
func (m SeasonalPatternModel) ToDomain() analytics.SeasonalPoint {
	return analytics.SeasonalPoint{
		ProductCode:      m.ProductCode,
		Month:            m.Month,
		MonthName:        analytics.MonthName(m.Month),
		AvgQuantity:      m.AvgQuantity,
		SeasonalityIndex: m.SeasonalityIndex,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
