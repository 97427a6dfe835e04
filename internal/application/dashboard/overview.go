package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/logger"
)

// KPIResponse is one month of KPIs with display text
type KPIResponse struct {
	analytics.MonthlyKPI
	Key                  string `json:"key"`
	Label                string `json:"label"`
	RevenueDisplay       string `json:"revenue_display"`
	RevenueGrowthDisplay string `json:"revenue_growth_display"`
	OrdersDisplay        string `json:"orders_display"`
	OrdersGrowthDisplay  string `json:"orders_growth_display"`
	CustomersDisplay     string `json:"active_customers_display"`
	ProductsDisplay      string `json:"active_products_display"`
}

func toKPIResponse(k analytics.MonthlyKPI) KPIResponse {
	return KPIResponse{
		MonthlyKPI:           k,
		Key:                  k.Key(),
		Label:                k.Label(),
		RevenueDisplay:       analytics.FormatRubles(k.TotalRevenue),
		RevenueGrowthDisplay: analytics.FormatOptionalPercent(k.RevenueGrowthMoMPct, true),
		OrdersDisplay:        analytics.FormatCount(k.TotalOrders),
		OrdersGrowthDisplay:  analytics.FormatOptionalPercent(k.OrdersGrowthMoMPct, true),
		CustomersDisplay:     analytics.FormatCount(k.ActiveCustomers),
		ProductsDisplay:      analytics.FormatCount(k.ActiveProducts),
	}
}

// ComparisonResponse compares two months
type ComparisonResponse struct {
	analytics.MonthComparison
	FirstLabel    string `json:"first_label"`
	SecondLabel   string `json:"second_label"`
	ChangeDisplay string `json:"revenue_change_display"`
	Summary       string `json:"summary"`
}

// TrendPoint is one month of the revenue trend
type TrendPoint struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SummaryResponse holds the all-time summary statistics
type SummaryResponse struct {
	analytics.KPISummary
	AverageDisplay    string     `json:"average_monthly_revenue_display"`
	TotalDisplay      string     `json:"total_revenue_display"`
	BestMonthDisplay  string     `json:"best_month_revenue_display"`
	DataFreshness     *time.Time `json:"data_freshness,omitempty"`
	AvailableMonths   []string   `json:"available_months"`
	LatestMonthKey    string     `json:"latest_month_key,omitempty"`
	LatestMonthLabel  string     `json:"latest_month_label,omitempty"`
	ComparisonDefault [2]string  `json:"comparison_default"`
}

func (s *Service) loadKPIs(ctx context.Context) (analytics.KPISeries, error) {
	series, err := s.kpis(ctx)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, shared.NotFound("No KPI data available")
	}
	return series, nil
}

// ListKPIs returns every month, most recent first
func (s *Service) ListKPIs(ctx context.Context) ([]KPIResponse, error) {
	series, err := s.kpis(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]KPIResponse, len(series))
	for i, k := range series {
		out[i] = toKPIResponse(k)
	}
	return out, nil
}

// GetMonth returns the KPIs of a YYYY-MM month, or of the latest month when
// key is empty
func (s *Service) GetMonth(ctx context.Context, key string) (*KPIResponse, error) {
	series, err := s.loadKPIs(ctx)
	if err != nil {
		return nil, err
	}
	if key == "" {
		latest, _ := series.Latest()
		resp := toKPIResponse(latest)
		return &resp, nil
	}
	if _, err := analytics.ParseYearMonth(key); err != nil {
		return nil, shared.InvalidInput(fmt.Sprintf("month must be YYYY-MM, got %q", key))
	}
	k, ok := series.Find(key)
	if !ok {
		return nil, shared.NotFound(fmt.Sprintf("No KPI data for %s", key))
	}
	resp := toKPIResponse(k)
	return &resp, nil
}

// CompareMonths compares second against first. Empty keys fall back to the
// latest and the second latest month.
func (s *Service) CompareMonths(ctx context.Context, first, second string) (*ComparisonResponse, error) {
	series, err := s.loadKPIs(ctx)
	if err != nil {
		return nil, err
	}
	m1, m2, _ := series.DefaultComparisonPair()
	if first != "" {
		if m1, err = findMonth(series, first); err != nil {
			return nil, err
		}
	}
	if second != "" {
		if m2, err = findMonth(series, second); err != nil {
			return nil, err
		}
	}

	cmp := analytics.CompareMonths(m1, m2)
	resp := &ComparisonResponse{
		MonthComparison: cmp,
		FirstLabel:      m1.Label(),
		SecondLabel:     m2.Label(),
		ChangeDisplay:   analytics.FormatOptionalPercent(cmp.RevenueChangePct, true),
	}
	switch cmp.Verdict {
	case analytics.VerdictIncreased, analytics.VerdictDecreased:
		resp.Summary = fmt.Sprintf("Revenue %s by %s from %s to %s",
			cmp.Verdict, analytics.FormatPercent(abs(*cmp.RevenueChangePct), false), resp.FirstLabel, resp.SecondLabel)
	default:
		resp.Summary = fmt.Sprintf("Revenue remained stable between %s and %s", resp.FirstLabel, resp.SecondLabel)
	}
	return resp, nil
}

func findMonth(series analytics.KPISeries, key string) (analytics.MonthlyKPI, error) {
	if _, err := analytics.ParseYearMonth(key); err != nil {
		return analytics.MonthlyKPI{}, shared.InvalidInput(fmt.Sprintf("month must be YYYY-MM, got %q", key))
	}
	k, ok := series.Find(key)
	if !ok {
		return analytics.MonthlyKPI{}, shared.NotFound(fmt.Sprintf("No KPI data for %s", key))
	}
	return k, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// RevenueTrend returns monthly revenue in chronological order
func (s *Service) RevenueTrend(ctx context.Context) ([]TrendPoint, error) {
	series, err := s.kpis(ctx)
	if err != nil {
		return nil, err
	}
	chrono := series.Chronological()
	out := make([]TrendPoint, len(chrono))
	for i, k := range chrono {
		out[i] = TrendPoint{Key: k.Key(), Label: k.Label(), Revenue: k.TotalRevenue}
	}
	return out, nil
}

// Summary returns the all-time statistics and data freshness
func (s *Service) Summary(ctx context.Context) (*SummaryResponse, error) {
	series, err := s.kpis(ctx)
	if err != nil {
		return nil, err
	}
	sum := series.Summary()
	resp := &SummaryResponse{
		KPISummary:       sum,
		AverageDisplay:   analytics.FormatRubles(sum.AverageMonthlyRevenue),
		TotalDisplay:     analytics.FormatRubles(sum.TotalRevenue),
		BestMonthDisplay: analytics.FormatRubles(sum.BestMonthRevenue),
		DataFreshness:    series.DataFreshness(),
		AvailableMonths:  make([]string, len(series)),
	}
	for i, k := range series {
		resp.AvailableMonths[i] = k.Key()
	}
	if latest, ok := series.Latest(); ok {
		resp.LatestMonthKey = latest.Key()
		resp.LatestMonthLabel = latest.Label()
	}
	if m1, m2, ok := series.DefaultComparisonPair(); ok {
		resp.ComparisonDefault = [2]string{m1.Key(), m2.Key()}
	}
	return resp, nil
}

// Insights builds the rule-based business insights. Customer and product
// analytics are optional inputs; a failure to load them is logged and the
// corresponding insights are skipped.
func (s *Service) Insights(ctx context.Context) ([]analytics.Insight, error) {
	log := logger.Enrich(ctx, s.logger)

	series, err := s.kpis(ctx)
	if err != nil {
		log.Warn("Skipping KPI insights", zap.Error(err))
		series = nil
	}
	customers, err := s.customers(ctx)
	if err != nil {
		log.Warn("Skipping customer insights", zap.Error(err))
		customers = nil
	}
	products, err := s.products(ctx)
	if err != nil {
		log.Warn("Skipping product insights", zap.Error(err))
		products = nil
	}
	return analytics.GenerateInsights(series, customers, products), nil
}
