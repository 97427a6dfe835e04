package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Indicator is a traffic-light status shown next to a metric
type Indicator string

const (
	IndicatorGreen  Indicator = "green"
	IndicatorYellow Indicator = "yellow"
	IndicatorRed    Indicator = "red"
)

// Segment tiers
const (
	SegmentVIP     = "VIP"
	SegmentPremium = "Premium"
)

// CustomerProfile is one row of the customer analytics table
type CustomerProfile struct {
	CustomerID         string          `json:"customer_id"`
	Segment            string          `json:"customer_segment"`
	LifetimeRevenue    decimal.Decimal `json:"total_lifetime_revenue"`
	RevenueLast3Months decimal.Decimal `json:"revenue_last_3_months"`
	GrowthStatus       string          `json:"growth_status"`
	FavoriteProduct    string          `json:"favorite_product_1_name,omitempty"`
	ChurnRisk          string          `json:"churn_risk"`
}

// GrowthIndicator maps the growth status: Growing is green, Stable yellow, anything else red
func (c CustomerProfile) GrowthIndicator() Indicator {
	switch c.GrowthStatus {
	case "Growing":
		return IndicatorGreen
	case "Stable":
		return IndicatorYellow
	default:
		return IndicatorRed
	}
}

// RiskLevel returns the parsed churn risk level
func (c CustomerProfile) RiskLevel() RiskLevel {
	return ParseRiskLevel(c.ChurnRisk)
}

// RiskLevel is a normalized churn risk
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// ParseRiskLevel reads free-form churn risk text such as "High Risk"
func ParseRiskLevel(s string) RiskLevel {
	switch {
	case strings.Contains(s, "High"):
		return RiskHigh
	case strings.Contains(s, "Medium"):
		return RiskMedium
	default:
		return RiskLow
	}
}

// Indicator maps High to red, Medium to yellow and Low to green
func (l RiskLevel) Indicator() Indicator {
	switch l {
	case RiskHigh:
		return IndicatorRed
	case RiskMedium:
		return IndicatorYellow
	default:
		return IndicatorGreen
	}
}

// SegmentTier returns the icon name for a customer segment
func SegmentTier(segment string) string {
	switch segment {
	case SegmentVIP:
		return "crown"
	case SegmentPremium:
		return "star"
	default:
		return "person"
	}
}

// SegmentCount is the number of customers in one segment
type SegmentCount struct {
	Segment string `json:"segment"`
	Count   int    `json:"count"`
	Tier    string `json:"tier"`
}

// CountSegments counts customers per segment, largest segment first
func CountSegments(customers []CustomerProfile) []SegmentCount {
	counts := make(map[string]int)
	for _, c := range customers {
		counts[c.Segment]++
	}
	out := make([]SegmentCount, 0, len(counts))
	for seg, n := range counts {
		out = append(out, SegmentCount{Segment: seg, Count: n, Tier: SegmentTier(seg)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}

// SortCustomersByRevenue orders customers by lifetime revenue, highest first
func SortCustomersByRevenue(customers []CustomerProfile) []CustomerProfile {
	out := make([]CustomerProfile, len(customers))
	copy(out, customers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LifetimeRevenue.GreaterThan(out[j].LifetimeRevenue)
	})
	return out
}

// TopCustomers returns the n customers with the highest lifetime revenue
func TopCustomers(customers []CustomerProfile, n int) []CustomerProfile {
	sorted := SortCustomersByRevenue(customers)
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// FilterBySegment keeps customers of one segment; an empty segment keeps all
func FilterBySegment(customers []CustomerProfile, segment string) []CustomerProfile {
	if segment == "" {
		return customers
	}
	out := make([]CustomerProfile, 0, len(customers))
	for _, c := range customers {
		if c.Segment == segment {
			out = append(out, c)
		}
	}
	return out
}

// FindCustomer looks a customer up by ID
func FindCustomer(customers []CustomerProfile, id string) (CustomerProfile, bool) {
	for _, c := range customers {
		if c.CustomerID == id {
			return c, true
		}
	}
	return CustomerProfile{}, false
}

// SegmentShare describes a segment's share of customers and revenue
type SegmentShare struct {
	Segment          string          `json:"segment"`
	Customers        int             `json:"customers"`
	CustomerSharePct float64         `json:"customer_share_pct"`
	Revenue          decimal.Decimal `json:"revenue"`
	RevenueSharePct  float64         `json:"revenue_share_pct"`
}

// ShareOfSegment computes the customer and revenue share held by one segment
func ShareOfSegment(customers []CustomerProfile, segment string) SegmentShare {
	share := SegmentShare{Segment: segment}
	total := decimal.Zero
	for _, c := range customers {
		total = total.Add(c.LifetimeRevenue)
		if c.Segment == segment {
			share.Customers++
			share.Revenue = share.Revenue.Add(c.LifetimeRevenue)
		}
	}
	if len(customers) > 0 {
		share.CustomerSharePct = float64(share.Customers) / float64(len(customers)) * 100
	}
	if total.IsPositive() {
		share.RevenueSharePct = share.Revenue.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return share
}

// CountByRisk counts customers at the given churn risk level
func CountByRisk(customers []CustomerProfile, level RiskLevel) int {
	n := 0
	for _, c := range customers {
		if c.RiskLevel() == level {
			n++
		}
	}
	return n
}
