package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Defaults for product listings
const (
	DefaultRankingLimit    = 20
	DefaultTopGrowingLimit = 8
	DefaultSeasonalityTopN = 10
	MinCompareProducts     = 2
	MaxCompareProducts     = 5
)

// ProductProfile is one row of the product analytics table
type ProductProfile struct {
	Code                string          `json:"product_code"`
	Name                string          `json:"product_name"`
	Category            string          `json:"product_type"`
	TotalRevenue        decimal.Decimal `json:"total_revenue_all_time"`
	TotalQuantity       float64         `json:"total_quantity_all_time"`
	AvgMonthlyQuantity  float64         `json:"avg_monthly_quantity"`
	QuantityLast3Months float64         `json:"quantity_last_3mo"`
	GrowthPct           *float64        `json:"quantity_growth_pct"`
	PenetrationPct      float64         `json:"customer_penetration_pct"`
	TrendDirection      string          `json:"trend_direction"`
	RankByRevenue       int64           `json:"rank_by_revenue"`
	PercentileRank      float64         `json:"percentile_rank"`
	PeakMonth           *int            `json:"peak_month"`
	TopCustomer         string          `json:"top_customer_1,omitempty"`
	TopCustomerQty      float64         `json:"top_customer_1_qty"`
}

// IsGrowing reports a growth trend
func (p ProductProfile) IsGrowing() bool {
	return strings.Contains(p.TrendDirection, "Growth")
}

// IsDeclining reports a declining trend
func (p ProductProfile) IsDeclining() bool {
	return strings.Contains(p.TrendDirection, "Declin")
}

// TrendIcon returns "up", "flat" or "down" for the trend direction
func (p ProductProfile) TrendIcon() string {
	switch {
	case p.IsGrowing():
		return "up"
	case strings.Contains(p.TrendDirection, "Stable"):
		return "flat"
	default:
		return "down"
	}
}

// PeakMonthName returns the name of the peak sales month, or ""
func (p ProductProfile) PeakMonthName() string {
	if p.PeakMonth == nil {
		return ""
	}
	return MonthName(*p.PeakMonth)
}

// FindProduct looks a product up by code
func FindProduct(products []ProductProfile, code string) (ProductProfile, bool) {
	for _, p := range products {
		if p.Code == code {
			return p, true
		}
	}
	return ProductProfile{}, false
}

// Categories returns the distinct product categories, sorted
func Categories(products []ProductProfile) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// FilterCategory keeps products of one category; an empty category keeps all
func FilterCategory(products []ProductProfile, category string) []ProductProfile {
	if category == "" {
		return products
	}
	out := make([]ProductProfile, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// RankingMetric selects the column products are ranked by
type RankingMetric string

const (
	RankByRevenue     RankingMetric = "revenue"
	RankByQuantity    RankingMetric = "quantity"
	RankByGrowth      RankingMetric = "growth"
	RankByPenetration RankingMetric = "penetration"
)

// ParseRankingMetric validates a metric name; empty means revenue
func ParseRankingMetric(s string) (RankingMetric, error) {
	switch m := RankingMetric(strings.ToLower(s)); m {
	case "":
		return RankByRevenue, nil
	case RankByRevenue, RankByQuantity, RankByGrowth, RankByPenetration:
		return m, nil
	default:
		return "", fmt.Errorf("unknown ranking metric %q", s)
	}
}

// value extracts the metric from a product; nil when the metric is missing
func (m RankingMetric) value(p ProductProfile) *float64 {
	var v float64
	switch m {
	case RankByQuantity:
		v = p.TotalQuantity
	case RankByGrowth:
		if p.GrowthPct == nil {
			return nil
		}
		v = *p.GrowthPct
	case RankByPenetration:
		v = p.PenetrationPct
	default:
		v = p.TotalRevenue.InexactFloat64()
	}
	return &v
}

// format renders a metric value for display
func (m RankingMetric) format(p ProductProfile, v *float64) string {
	if v == nil {
		return NotAvailable
	}
	switch m {
	case RankByQuantity:
		return FormatQuantity(*v)
	case RankByGrowth:
		return FormatPercent(*v, true)
	case RankByPenetration:
		return FormatPercent(*v, false)
	default:
		return FormatRubles(p.TotalRevenue)
	}
}

// RankedProduct is one row of a product ranking
type RankedProduct struct {
	Rank    int            `json:"rank"`
	Product ProductProfile `json:"product"`
	Value   *float64       `json:"value"`
	Display string         `json:"display"`
}

// RankProducts sorts products by the metric descending, within an optional
// category, and keeps the first limit rows. Missing values sort last.
func RankProducts(products []ProductProfile, metric RankingMetric, category string, limit int) []RankedProduct {
	filtered := FilterCategory(products, category)
	rows := make([]RankedProduct, 0, len(filtered))
	for _, p := range filtered {
		rows = append(rows, RankedProduct{Product: p, Value: metric.value(p)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Value, rows[j].Value
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].Display = metric.format(rows[i].Product, rows[i].Value)
	}
	return rows
}

// RankingStats summarizes a (filtered) product list
type RankingStats struct {
	TotalProducts   int      `json:"total_products"`
	GrowingProducts int      `json:"growing_products"`
	AvgPenetration  float64  `json:"avg_penetration_pct"`
	AvgGrowth       *float64 `json:"avg_growth_pct"`
}

// ComputeRankingStats counts growing products and averages penetration and growth
func ComputeRankingStats(products []ProductProfile) RankingStats {
	stats := RankingStats{TotalProducts: len(products)}
	penetration := make([]float64, 0, len(products))
	growth := make([]float64, 0, len(products))
	for _, p := range products {
		if p.IsGrowing() {
			stats.GrowingProducts++
		}
		penetration = append(penetration, p.PenetrationPct)
		if p.GrowthPct != nil {
			growth = append(growth, *p.GrowthPct)
		}
	}
	stats.AvgPenetration = mean(penetration)
	if len(growth) > 0 {
		g := stat.Mean(growth, nil)
		stats.AvgGrowth = &g
	}
	return stats
}

// CategoryRevenue is one slice of the revenue-by-category breakdown
type CategoryRevenue struct {
	Category string          `json:"product_type"`
	Revenue  decimal.Decimal `json:"category_revenue"`
	SharePct float64         `json:"share_pct"`
	Products int             `json:"products"`
}

// CategoryRevenueBreakdown sums revenue per category, largest first
func CategoryRevenueBreakdown(products []ProductProfile) []CategoryRevenue {
	index := make(map[string]int)
	out := make([]CategoryRevenue, 0)
	total := decimal.Zero
	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(out)
			index[p.Category] = i
			out = append(out, CategoryRevenue{Category: p.Category})
		}
		out[i].Revenue = out[i].Revenue.Add(p.TotalRevenue)
		out[i].Products++
		total = total.Add(p.TotalRevenue)
	}
	if total.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for i := range out {
			out[i].SharePct = out[i].Revenue.Div(total).Mul(hundred).InexactFloat64()
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	return out
}

// TopGrowing returns the n products with the highest growth rate, skipping missing rates
func TopGrowing(products []ProductProfile, n int) []ProductProfile {
	out := make([]ProductProfile, 0, len(products))
	for _, p := range products {
		if p.GrowthPct != nil {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].GrowthPct > *out[j].GrowthPct
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// MonthlyPoint is one month of product demand across all customers
type MonthlyPoint struct {
	ProductCode string          `json:"product_code"`
	YearMonth   string          `json:"year_month"`
	Quantity    float64         `json:"total_quantity"`
	Revenue     decimal.Decimal `json:"total_revenue"`
}

// SeasonalPoint is the average demand of a product in one calendar month
type SeasonalPoint struct {
	ProductCode      string  `json:"product_code"`
	Month            int     `json:"month_number"`
	MonthName        string  `json:"month_name"`
	AvgQuantity      float64 `json:"avg_quantity"`
	SeasonalityIndex float64 `json:"seasonality_index"`
}

// ComparisonPeriods are the supported comparison windows in months
var ComparisonPeriods = []int{6, 12, 18, 24}

// DefaultComparisonPeriod is used when no window is requested
const DefaultComparisonPeriod = 12

// ValidateComparison checks the product count and the window
func ValidateComparison(codes []string, months int) error {
	if len(codes) < MinCompareProducts || len(codes) > MaxCompareProducts {
		return fmt.Errorf("select between %d and %d products to compare, got %d",
			MinCompareProducts, MaxCompareProducts, len(codes))
	}
	for _, p := range ComparisonPeriods {
		if p == months {
			return nil
		}
	}
	return fmt.Errorf("unsupported comparison period %d months", months)
}

// ProductComparison holds one product's side of a comparison
type ProductComparison struct {
	Product        ProductProfile `json:"product"`
	TotalDemand    float64        `json:"total_demand"`
	MonthlyAverage float64        `json:"monthly_average"`
	Series         []MonthlyPoint `json:"series"`
}

// CompareProducts groups history per requested product and totals demand.
// Products without history report zero demand.
func CompareProducts(products []ProductProfile, history []MonthlyPoint, codes []string) ([]ProductComparison, error) {
	byCode := make(map[string][]MonthlyPoint, len(codes))
	for _, h := range history {
		byCode[h.ProductCode] = append(byCode[h.ProductCode], h)
	}
	out := make([]ProductComparison, 0, len(codes))
	for _, code := range codes {
		p, ok := FindProduct(products, code)
		if !ok {
			return nil, fmt.Errorf("product %q not found", code)
		}
		series := byCode[code]
		qty := make([]float64, len(series))
		for i, pt := range series {
			qty[i] = pt.Quantity
		}
		out = append(out, ProductComparison{
			Product:        p,
			TotalDemand:    floats.Sum(qty),
			MonthlyAverage: mean(qty),
			Series:         series,
		})
	}
	return out, nil
}

// MarketInsights is the portfolio-level summary of the product catalogue
type MarketInsights struct {
	LeadingCategory    string          `json:"leading_category"`
	FastestGrowing     *ProductProfile `json:"fastest_growing,omitempty"`
	HighestPenetration *ProductProfile `json:"highest_penetration,omitempty"`
	TotalProducts      int             `json:"total_products"`
	GrowingProducts    int             `json:"growing_products"`
	GrowingPct         float64         `json:"growing_pct"`
	DecliningProducts  int             `json:"declining_products"`
	DecliningPct       float64         `json:"declining_pct"`
	AvgPenetration     float64         `json:"avg_penetration_pct"`
	AvgGrowth          *float64        `json:"avg_growth_pct"`
}

// ComputeMarketInsights finds the leaders and the growing/declining split
func ComputeMarketInsights(products []ProductProfile) MarketInsights {
	stats := ComputeRankingStats(products)
	mi := MarketInsights{
		TotalProducts:   stats.TotalProducts,
		GrowingProducts: stats.GrowingProducts,
		AvgPenetration:  stats.AvgPenetration,
		AvgGrowth:       stats.AvgGrowth,
	}
	if len(products) == 0 {
		return mi
	}
	if cats := CategoryRevenueBreakdown(products); len(cats) > 0 {
		mi.LeadingCategory = cats[0].Category
	}
	if top := TopGrowing(products, 1); len(top) == 1 {
		p := top[0]
		mi.FastestGrowing = &p
	}
	best := products[0]
	for _, p := range products {
		if p.PenetrationPct > best.PenetrationPct {
			best = p
		}
		if p.IsDeclining() {
			mi.DecliningProducts++
		}
	}
	mi.HighestPenetration = &best

	n := float64(len(products))
	mi.GrowingPct = float64(mi.GrowingProducts) / n * 100
	mi.DecliningPct = float64(mi.DecliningProducts) / n * 100
	return mi
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}
