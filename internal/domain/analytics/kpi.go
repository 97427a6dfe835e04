package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Revenue moves beyond this percentage are reported as increases or decreases
const revenueChangeThresholdPct = 10.0

// MonthlyKPI is one row of the monthly KPI summary
type MonthlyKPI struct {
	ReportMonth         time.Time       `json:"report_month"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	RevenueGrowthMoMPct *float64        `json:"revenue_growth_mom_pct"`
	TotalOrders         int64           `json:"total_orders"`
	OrdersGrowthMoMPct  *float64        `json:"orders_growth_mom_pct"`
	ActiveCustomers     int64           `json:"active_customers"`
	ActiveProducts      int64           `json:"active_products"`
	LastUpdated         *time.Time      `json:"last_updated,omitempty"`
}

// Key returns the YYYY-MM key of the report month
func (k MonthlyKPI) Key() string {
	return YearMonthKey(k.ReportMonth)
}

// Label returns the display label of the report month, e.g. "July 2025"
func (k MonthlyKPI) Label() string {
	return MonthLabel(k.ReportMonth)
}

// KPISeries holds monthly KPIs ordered most recent first
type KPISeries []MonthlyKPI

// NewKPISeries copies rows into a series sorted most recent first
func NewKPISeries(rows []MonthlyKPI) KPISeries {
	s := make(KPISeries, len(rows))
	copy(s, rows)
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].ReportMonth.After(s[j].ReportMonth)
	})
	return s
}

// Latest returns the most recent month
func (s KPISeries) Latest() (MonthlyKPI, bool) {
	if len(s) == 0 {
		return MonthlyKPI{}, false
	}
	return s[0], true
}

// Find returns the month with the given YYYY-MM key
func (s KPISeries) Find(key string) (MonthlyKPI, bool) {
	for _, k := range s {
		if k.Key() == key {
			return k, true
		}
	}
	return MonthlyKPI{}, false
}

// Chronological returns the months oldest first
func (s KPISeries) Chronological() []MonthlyKPI {
	out := make([]MonthlyKPI, len(s))
	for i, k := range s {
		out[len(s)-1-i] = k
	}
	return out
}

// DefaultComparisonPair returns the latest month and the one before it.
// With a single month both sides are the latest month.
func (s KPISeries) DefaultComparisonPair() (first, second MonthlyKPI, ok bool) {
	if len(s) == 0 {
		return MonthlyKPI{}, MonthlyKPI{}, false
	}
	if len(s) == 1 {
		return s[0], s[0], true
	}
	return s[0], s[1], true
}

// DataFreshness returns the newest last_updated stamp across the series
func (s KPISeries) DataFreshness() *time.Time {
	var latest *time.Time
	for i := range s {
		lu := s[i].LastUpdated
		if lu == nil {
			continue
		}
		if latest == nil || lu.After(*latest) {
			t := *lu
			latest = &t
		}
	}
	return latest
}

// KPISummary aggregates the whole series
type KPISummary struct {
	Months                int             `json:"months"`
	AverageMonthlyRevenue decimal.Decimal `json:"average_monthly_revenue"`
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	BestMonth             string          `json:"best_month"`
	BestMonthKey          string          `json:"best_month_key"`
	BestMonthRevenue      decimal.Decimal `json:"best_month_revenue"`
}

// Summary computes average monthly revenue, best month and all-time total.
// The first month in series order wins a tie for best month.
func (s KPISeries) Summary() KPISummary {
	summary := KPISummary{Months: len(s)}
	if len(s) == 0 {
		return summary
	}
	best := s[0]
	total := decimal.Zero
	for _, k := range s {
		total = total.Add(k.TotalRevenue)
		if k.TotalRevenue.GreaterThan(best.TotalRevenue) {
			best = k
		}
	}
	summary.TotalRevenue = total
	summary.AverageMonthlyRevenue = total.Div(decimal.NewFromInt(int64(len(s))))
	summary.BestMonth = best.Label()
	summary.BestMonthKey = best.Key()
	summary.BestMonthRevenue = best.TotalRevenue
	return summary
}

// ChangeVerdict classifies a revenue move between two months
type ChangeVerdict string

const (
	VerdictIncreased ChangeVerdict = "increased"
	VerdictDecreased ChangeVerdict = "decreased"
	VerdictStable    ChangeVerdict = "stable"
)

// ClassifyRevenueChange applies the ±10% band
func ClassifyRevenueChange(changePct float64) ChangeVerdict {
	switch {
	case changePct > revenueChangeThresholdPct:
		return VerdictIncreased
	case changePct < -revenueChangeThresholdPct:
		return VerdictDecreased
	default:
		return VerdictStable
	}
}

// MetricDelta compares one metric across two months
type MetricDelta struct {
	Metric    string   `json:"metric"`
	First     float64  `json:"first"`
	Second    float64  `json:"second"`
	Change    float64  `json:"change"`
	ChangePct *float64 `json:"change_pct"`
}

// MonthComparison is the result of comparing two months
type MonthComparison struct {
	First            MonthlyKPI    `json:"first"`
	Second           MonthlyKPI    `json:"second"`
	Metrics          []MetricDelta `json:"metrics"`
	RevenueChangePct *float64      `json:"revenue_change_pct"`
	Verdict          ChangeVerdict `json:"verdict"`
}

// CompareMonths compares m2 against m1. The revenue change is
// (m2 - m1) / m1 * 100 and is undefined when m1 revenue is zero.
func CompareMonths(m1, m2 MonthlyKPI) MonthComparison {
	first := m1.TotalRevenue.InexactFloat64()
	second := m2.TotalRevenue.InexactFloat64()

	cmp := MonthComparison{
		First:  m1,
		Second: m2,
		Metrics: []MetricDelta{
			newMetricDelta("total_revenue", first, second),
			newMetricDelta("total_orders", float64(m1.TotalOrders), float64(m2.TotalOrders)),
			newMetricDelta("active_customers", float64(m1.ActiveCustomers), float64(m2.ActiveCustomers)),
			newMetricDelta("active_products", float64(m1.ActiveProducts), float64(m2.ActiveProducts)),
		},
		Verdict: VerdictStable,
	}
	if pct := cmp.Metrics[0].ChangePct; pct != nil {
		cmp.RevenueChangePct = pct
		cmp.Verdict = ClassifyRevenueChange(*pct)
	}
	return cmp
}

func newMetricDelta(metric string, first, second float64) MetricDelta {
	d := MetricDelta{
		Metric: metric,
		First:  first,
		Second: second,
		Change: second - first,
	}
	if first != 0 {
		pct := (second - first) / first * 100
		d.ChangePct = &pct
	}
	return d
}
