package dashboard

import (
	"context"
	"fmt"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
)

// Customer list limits
const (
	DefaultTopCustomers = 10
	MaxTopCustomers     = 100
)

// CustomerResponse is a customer with its indicators
type CustomerResponse struct {
	analytics.CustomerProfile
	Tier                   string              `json:"tier"`
	GrowthIndicator        analytics.Indicator `json:"growth_indicator"`
	RiskLevel              analytics.RiskLevel `json:"risk_level"`
	RiskIndicator          analytics.Indicator `json:"risk_indicator"`
	LifetimeRevenueDisplay string              `json:"total_lifetime_revenue_display"`
	RecentRevenueDisplay   string              `json:"revenue_last_3_months_display"`
}

func toCustomerResponse(c analytics.CustomerProfile) CustomerResponse {
	risk := c.RiskLevel()
	return CustomerResponse{
		CustomerProfile:        c,
		Tier:                   analytics.SegmentTier(c.Segment),
		GrowthIndicator:        c.GrowthIndicator(),
		RiskLevel:              risk,
		RiskIndicator:          risk.Indicator(),
		LifetimeRevenueDisplay: analytics.FormatRubles(c.LifetimeRevenue),
		RecentRevenueDisplay:   analytics.FormatRubles(c.RevenueLast3Months),
	}
}

func toCustomerResponses(customers []analytics.CustomerProfile) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		out[i] = toCustomerResponse(c)
	}
	return out
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

// ListCustomers lists customers by lifetime revenue, optionally within one
// segment. A zero limit returns all of them.
func (s *Service) ListCustomers(ctx context.Context, segment string, limit int) ([]CustomerResponse, error) {
	customers, err := s.customers(ctx)
	if err != nil {
		return nil, err
	}
	filtered := analytics.SortCustomersByRevenue(analytics.FilterBySegment(customers, segment))
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return toCustomerResponses(filtered), nil
}

// Segments counts customers per segment
func (s *Service) Segments(ctx context.Context) ([]analytics.SegmentCount, error) {
	customers, err := s.customers(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.CountSegments(customers), nil
}

// TopCustomers returns the highest-revenue customers
func (s *Service) TopCustomers(ctx context.Context, limit int) ([]CustomerResponse, error) {
	customers, err := s.customers(ctx)
	if err != nil {
		return nil, err
	}
	return toCustomerResponses(analytics.TopCustomers(customers, clampLimit(limit, DefaultTopCustomers, MaxTopCustomers))), nil
}

// GetCustomer returns one customer
func (s *Service) GetCustomer(ctx context.Context, id string) (*CustomerResponse, error) {
	customers, err := s.customers(ctx)
	if err != nil {
		return nil, err
	}
	c, ok := analytics.FindCustomer(customers, id)
	if !ok {
		return nil, shared.NotFound(fmt.Sprintf("Customer %s not found", id))
	}
	resp := toCustomerResponse(c)
	return &resp, nil
}
