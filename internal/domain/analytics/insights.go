package analytics

import "fmt"

// InsightKind groups insight messages for display
type InsightKind string

const (
	InsightRevenue   InsightKind = "revenue"
	InsightCustomers InsightKind = "customers"
	InsightProducts  InsightKind = "products"
)

// Insight is a single generated business observation
type Insight struct {
	Kind    InsightKind `json:"kind"`
	Message string      `json:"message"`
}

// GenerateInsights builds rule-based observations from KPIs and, when
// available, customer and product analytics. Nil inputs are skipped.
func GenerateInsights(kpis KPISeries, customers []CustomerProfile, products []ProductProfile) []Insight {
	out := make([]Insight, 0, 6)

	if latest, ok := kpis.Latest(); ok {
		if g := latest.RevenueGrowthMoMPct; g != nil {
			verdict := ClassifyRevenueChange(*g)
			out = append(out, Insight{
				Kind: InsightRevenue,
				Message: fmt.Sprintf("Revenue in %s %s %s month over month (%s).",
					latest.Label(), verdictVerb(verdict), verdictQualifier(verdict), FormatPercent(*g, true)),
			})
		}
		summary := kpis.Summary()
		out = append(out, Insight{
			Kind: InsightRevenue,
			Message: fmt.Sprintf("%s was the best month with %s in revenue; the monthly average is %s.",
				summary.BestMonth, FormatRubles(summary.BestMonthRevenue), FormatRubles(summary.AverageMonthlyRevenue)),
		})
	}

	if len(customers) > 0 {
		vip := ShareOfSegment(customers, SegmentVIP)
		if vip.Customers > 0 {
			out = append(out, Insight{
				Kind: InsightCustomers,
				Message: fmt.Sprintf("VIP customers are %s of the base and generate %s of lifetime revenue.",
					FormatPercent(vip.CustomerSharePct, false), FormatPercent(vip.RevenueSharePct, false)),
			})
		}
		if high := CountByRisk(customers, RiskHigh); high > 0 {
			out = append(out, Insight{
				Kind:    InsightCustomers,
				Message: fmt.Sprintf("%d customers are at high churn risk and need attention.", high),
			})
		}
	}

	if len(products) > 0 {
		mi := ComputeMarketInsights(products)
		if p := mi.FastestGrowing; p != nil {
			out = append(out, Insight{
				Kind:    InsightProducts,
				Message: fmt.Sprintf("%s is the fastest growing product (%s).", p.Name, FormatPercent(*p.GrowthPct, true)),
			})
		}
		if mi.LeadingCategory != "" {
			out = append(out, Insight{
				Kind:    InsightProducts,
				Message: fmt.Sprintf("%s is the leading product category by revenue.", mi.LeadingCategory),
			})
		}
	}
	return out
}

func verdictVerb(v ChangeVerdict) string {
	if v == VerdictStable {
		return "remained"
	}
	return v.String()
}

func verdictQualifier(v ChangeVerdict) string {
	if v == VerdictStable {
		return "stable"
	}
	return "significantly"
}

// String implements fmt.Stringer
func (v ChangeVerdict) String() string {
	return string(v)
}
