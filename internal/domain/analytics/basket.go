package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Basket thresholds
const (
	DefaultTopBundles        = 15
	DefaultCrossSellLimit    = 5
	HighValueBundleScore     = 70.0
	StrongLiftThreshold      = 1.5
	HighConfidencePct        = 70.0
	MediumConfidencePct      = 50.0
	DefaultNetworkMinLift    = 1.2
	MinNetworkLift           = 1.0
	MaxNetworkLift           = 3.0
	DefaultLiftHistogramStep = 0.25
)

// BasketPair is one association rule between two products
type BasketPair struct {
	ProductACode         string          `json:"product_a_code"`
	ProductAName         string          `json:"product_a_name"`
	ProductBCode         string          `json:"product_b_code"`
	ProductBName         string          `json:"product_b_name"`
	CategoryRelationship string          `json:"category_relationship"`
	SupportPct           float64         `json:"support_pct"`
	ConfidencePct        float64         `json:"confidence_a_to_b_pct"`
	Lift                 float64         `json:"lift"`
	AssociationStrength  string          `json:"association_strength"`
	BundleScore          float64         `json:"bundle_score"`
	AvgBundleRevenue     decimal.Decimal `json:"avg_bundle_revenue"`
	BundleName           string          `json:"bundle_name_suggestion"`
}

// IsStrong reports an association labelled as strong
func (p BasketPair) IsStrong() bool {
	return strings.Contains(p.AssociationStrength, "Strong")
}

// SortPairs orders pairs by bundle score, then lift, highest first
func SortPairs(pairs []BasketPair) []BasketPair {
	out := make([]BasketPair, len(pairs))
	copy(out, pairs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BundleScore != out[j].BundleScore {
			return out[i].BundleScore > out[j].BundleScore
		}
		return out[i].Lift > out[j].Lift
	})
	return out
}

// TopBundles returns the n best-scoring pairs
func TopBundles(pairs []BasketPair, n int) []BasketPair {
	out := SortPairs(pairs)
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// BundleInsights summarizes a set of bundles
type BundleInsights struct {
	HighValueBundles   int             `json:"high_value_bundles"`
	AvgBundleRevenue   decimal.Decimal `json:"avg_bundle_revenue"`
	StrongAssociations int             `json:"strong_associations"`
}

// SummarizeBundles counts bundles scoring 70 or more and strong associations
func SummarizeBundles(bundles []BasketPair) BundleInsights {
	var bi BundleInsights
	for _, b := range bundles {
		if b.BundleScore >= HighValueBundleScore {
			bi.HighValueBundles++
		}
		if b.IsStrong() {
			bi.StrongAssociations++
		}
	}
	bi.AvgBundleRevenue = avgRevenue(bundles)
	return bi
}

// CategoryCrossSell aggregates pairs sharing a category relationship
type CategoryCrossSell struct {
	Relationship string          `json:"category_relationship"`
	PairCount    int             `json:"pair_count"`
	AvgLift      float64         `json:"avg_lift"`
	AvgSupport   float64         `json:"avg_support"`
	AvgRevenue   decimal.Decimal `json:"avg_revenue"`
}

// CategoryStats groups pairs by category relationship, most pairs first
func CategoryStats(pairs []BasketPair) []CategoryCrossSell {
	groups := groupPairs(pairs, func(p BasketPair) string { return p.CategoryRelationship })
	out := make([]CategoryCrossSell, 0, len(groups))
	for _, g := range groups {
		lift, support := make([]float64, len(g.pairs)), make([]float64, len(g.pairs))
		for i, p := range g.pairs {
			lift[i], support[i] = p.Lift, p.SupportPct
		}
		out = append(out, CategoryCrossSell{
			Relationship: g.key,
			PairCount:    len(g.pairs),
			AvgLift:      mean(lift),
			AvgSupport:   mean(support),
			AvgRevenue:   avgRevenue(g.pairs),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PairCount != out[j].PairCount {
			return out[i].PairCount > out[j].PairCount
		}
		return out[i].AvgLift > out[j].AvgLift
	})
	return out
}

// CategoryHighlights picks notable categories out of CategoryStats output
type CategoryHighlights struct {
	Best       *CategoryCrossSell `json:"best,omitempty"`
	Worst      *CategoryCrossSell `json:"worst,omitempty"`
	MostCommon *CategoryCrossSell `json:"most_common,omitempty"`
}

// HighlightCategories returns the highest and lowest average lift and the most common pattern
func HighlightCategories(stats []CategoryCrossSell) CategoryHighlights {
	var h CategoryHighlights
	if len(stats) == 0 {
		return h
	}
	best, worst := stats[0], stats[0]
	for _, s := range stats[1:] {
		if s.AvgLift > best.AvgLift {
			best = s
		}
		if s.AvgLift < worst.AvgLift {
			worst = s
		}
	}
	common := stats[0]
	h.Best, h.Worst, h.MostCommon = &best, &worst, &common
	return h
}

// StrengthBucket aggregates pairs with the same association strength label
type StrengthBucket struct {
	Strength       string  `json:"association_strength"`
	Count          int     `json:"count"`
	AvgLift        float64 `json:"avg_lift"`
	AvgBundleScore float64 `json:"avg_bundle_score"`
}

// StrengthDistribution counts pairs per association strength, largest first
func StrengthDistribution(pairs []BasketPair) []StrengthBucket {
	groups := groupPairs(pairs, func(p BasketPair) string { return p.AssociationStrength })
	out := make([]StrengthBucket, 0, len(groups))
	for _, g := range groups {
		lift, score := make([]float64, len(g.pairs)), make([]float64, len(g.pairs))
		for i, p := range g.pairs {
			lift[i], score[i] = p.Lift, p.BundleScore
		}
		out = append(out, StrengthBucket{
			Strength:       g.key,
			Count:          len(g.pairs),
			AvgLift:        mean(lift),
			AvgBundleScore: mean(score),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// NetworkNode is a product in the association network
type NetworkNode struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Degree int    `json:"degree"`
}

// NetworkEdge links two associated products
type NetworkEdge struct {
	Source        string  `json:"source"`
	Target        string  `json:"target"`
	Lift          float64 `json:"lift"`
	ConfidencePct float64 `json:"confidence_pct"`
}

// Network is the association graph above a lift threshold
type Network struct {
	MinLift float64       `json:"min_lift"`
	Nodes   []NetworkNode `json:"nodes"`
	Edges   []NetworkEdge `json:"edges"`
}

// ValidateMinLift checks the network threshold lies in [1.0, 3.0]
func ValidateMinLift(minLift float64) error {
	if math.IsNaN(minLift) || minLift < MinNetworkLift || minLift > MaxNetworkLift {
		return fmt.Errorf("min_lift must be between %.1f and %.1f", MinNetworkLift, MaxNetworkLift)
	}
	return nil
}

// BuildNetwork keeps pairs with lift >= minLift and derives the node set
func BuildNetwork(pairs []BasketPair, minLift float64) (Network, error) {
	if err := ValidateMinLift(minLift); err != nil {
		return Network{}, err
	}
	net := Network{MinLift: minLift, Nodes: []NetworkNode{}, Edges: []NetworkEdge{}}
	index := make(map[string]int)
	touch := func(code, name string) {
		i, ok := index[code]
		if !ok {
			i = len(net.Nodes)
			index[code] = i
			net.Nodes = append(net.Nodes, NetworkNode{Code: code, Name: name})
		}
		net.Nodes[i].Degree++
	}
	for _, p := range pairs {
		if p.Lift < minLift {
			continue
		}
		touch(p.ProductACode, p.ProductAName)
		touch(p.ProductBCode, p.ProductBName)
		net.Edges = append(net.Edges, NetworkEdge{
			Source:        p.ProductACode,
			Target:        p.ProductBCode,
			Lift:          p.Lift,
			ConfidencePct: p.ConfidencePct,
		})
	}
	sort.SliceStable(net.Nodes, func(i, j int) bool { return net.Nodes[i].Degree > net.Nodes[j].Degree })
	return net, nil
}

// HistogramBin counts lift values in [Lower, Upper)
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// LiftHistogram buckets lift values into fixed-width bins starting at zero.
// Empty bins between the first and last populated bin are kept.
func LiftHistogram(pairs []BasketPair, width float64) []HistogramBin {
	if width <= 0 {
		width = DefaultLiftHistogramStep
	}
	if len(pairs) == 0 {
		return []HistogramBin{}
	}
	counts := make(map[int]int)
	lo, hi := math.MaxInt, math.MinInt
	for _, p := range pairs {
		b := int(math.Floor(p.Lift / width))
		if b < 0 {
			b = 0
		}
		counts[b]++
		lo, hi = min(lo, b), max(hi, b)
	}
	out := make([]HistogramBin, 0, hi-lo+1)
	for b := lo; b <= hi; b++ {
		out = append(out, HistogramBin{
			Lower: float64(b) * width,
			Upper: float64(b+1) * width,
			Count: counts[b],
		})
	}
	return out
}

// ConfidenceMatrix holds confidence(A -> B) for every product pair present
type ConfidenceMatrix struct {
	Rows    []string     `json:"rows"`
	Columns []string     `json:"columns"`
	Cells   [][]*float64 `json:"cells"`
}

// BuildConfidenceMatrix lays pairs out as product A rows by product B columns
func BuildConfidenceMatrix(pairs []BasketPair) ConfidenceMatrix {
	rowIdx, colIdx := make(map[string]int), make(map[string]int)
	m := ConfidenceMatrix{Rows: []string{}, Columns: []string{}}
	for _, p := range pairs {
		if _, ok := rowIdx[p.ProductAName]; !ok {
			rowIdx[p.ProductAName] = len(m.Rows)
			m.Rows = append(m.Rows, p.ProductAName)
		}
		if _, ok := colIdx[p.ProductBName]; !ok {
			colIdx[p.ProductBName] = len(m.Columns)
			m.Columns = append(m.Columns, p.ProductBName)
		}
	}
	m.Cells = make([][]*float64, len(m.Rows))
	for i := range m.Cells {
		m.Cells[i] = make([]*float64, len(m.Columns))
	}
	for _, p := range pairs {
		v := p.ConfidencePct
		m.Cells[rowIdx[p.ProductAName]][colIdx[p.ProductBName]] = &v
	}
	return m
}

// BasketProduct is a product that appears on the A side of a rule
type BasketProduct struct {
	Code string `json:"product_code"`
	Name string `json:"product_name"`
}

// Display renders "<code> - <name>"
func (b BasketProduct) Display() string {
	return b.Code + " - " + b.Name
}

// BasketProducts lists the distinct A-side products, sorted by code
func BasketProducts(pairs []BasketPair) []BasketProduct {
	seen := make(map[string]struct{})
	out := make([]BasketProduct, 0)
	for _, p := range pairs {
		if _, ok := seen[p.ProductACode]; ok {
			continue
		}
		seen[p.ProductACode] = struct{}{}
		out = append(out, BasketProduct{Code: p.ProductACode, Name: p.ProductAName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ConfidenceBand classifies a cross-sell confidence: >=70 green, >=50 yellow, else red
func ConfidenceBand(pct float64) Indicator {
	switch {
	case pct >= HighConfidencePct:
		return IndicatorGreen
	case pct >= MediumConfidencePct:
		return IndicatorYellow
	default:
		return IndicatorRed
	}
}

// CrossSellRecommendation is a product to offer alongside another
type CrossSellRecommendation struct {
	ProductCode      string          `json:"recommended_product_code"`
	ProductName      string          `json:"recommended_product_name"`
	ConfidencePct    float64         `json:"confidence_pct"`
	Lift             float64         `json:"lift"`
	AvgBundleRevenue decimal.Decimal `json:"avg_bundle_revenue"`
	BundleName       string          `json:"bundle_name_suggestion"`
	Band             Indicator       `json:"band"`
}

// CrossSell returns the recommendations for a product, highest confidence first
func CrossSell(pairs []BasketPair, productCode string) []CrossSellRecommendation {
	out := make([]CrossSellRecommendation, 0)
	for _, p := range pairs {
		if p.ProductACode != productCode {
			continue
		}
		out = append(out, CrossSellRecommendation{
			ProductCode:      p.ProductBCode,
			ProductName:      p.ProductBName,
			ConfidencePct:    p.ConfidencePct,
			Lift:             p.Lift,
			AvgBundleRevenue: p.AvgBundleRevenue,
			BundleName:       p.BundleName,
			Band:             ConfidenceBand(p.ConfidencePct),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ConfidencePct > out[j].ConfidencePct })
	return out
}

// CrossSellInsights summarizes all recommendations for a product
type CrossSellInsights struct {
	Best             *CrossSellRecommendation `json:"best,omitempty"`
	AvgBundleRevenue decimal.Decimal          `json:"avg_bundle_revenue"`
	Opportunities    int                      `json:"opportunities"`
}

// SummarizeCrossSell takes the best opportunity and the average bundle revenue
func SummarizeCrossSell(recs []CrossSellRecommendation) CrossSellInsights {
	ci := CrossSellInsights{Opportunities: len(recs)}
	if len(recs) == 0 {
		return ci
	}
	best := recs[0]
	ci.Best = &best
	total := decimal.Zero
	for _, r := range recs {
		total = total.Add(r.AvgBundleRevenue)
	}
	ci.AvgBundleRevenue = total.Div(decimal.NewFromInt(int64(len(recs))))
	return ci
}

// BasketMarketSummary is the headline view of the whole basket table
type BasketMarketSummary struct {
	TotalPairs          int             `json:"total_pairs"`
	StrongAssociations  int             `json:"strong_associations"`
	AvgBundleRevenue    decimal.Decimal `json:"avg_bundle_revenue"`
	HighConfidencePairs int             `json:"high_confidence_pairs"`
	BestBundle          *BasketPair     `json:"best_bundle,omitempty"`
	HighestRevenue      *BasketPair     `json:"highest_revenue_bundle,omitempty"`
	StrongestLift       *BasketPair     `json:"strongest_association,omitempty"`
}

// SummarizeMarket counts lift > 1.5 and confidence >= 70 pairs and picks the leaders.
// The first pair in input order wins ties.
func SummarizeMarket(pairs []BasketPair) BasketMarketSummary {
	s := BasketMarketSummary{TotalPairs: len(pairs)}
	if len(pairs) == 0 {
		return s
	}
	best, richest, strongest := pairs[0], pairs[0], pairs[0]
	for _, p := range pairs {
		if p.Lift > StrongLiftThreshold {
			s.StrongAssociations++
		}
		if p.ConfidencePct >= HighConfidencePct {
			s.HighConfidencePairs++
		}
		if p.BundleScore > best.BundleScore {
			best = p
		}
		if p.AvgBundleRevenue.GreaterThan(richest.AvgBundleRevenue) {
			richest = p
		}
		if p.Lift > strongest.Lift {
			strongest = p
		}
	}
	s.AvgBundleRevenue = avgRevenue(pairs)
	s.BestBundle, s.HighestRevenue, s.StrongestLift = &best, &richest, &strongest
	return s
}

type pairGroup struct {
	key   string
	pairs []BasketPair
}

// groupPairs groups pairs by key, preserving first-seen order
func groupPairs(pairs []BasketPair, key func(BasketPair) string) []pairGroup {
	index := make(map[string]int)
	var groups []pairGroup
	for _, p := range pairs {
		k := key(p)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, pairGroup{key: k})
		}
		groups[i].pairs = append(groups[i].pairs, p)
	}
	return groups
}

func avgRevenue(pairs []BasketPair) decimal.Decimal {
	if len(pairs) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, p := range pairs {
		total = total.Add(p.AvgBundleRevenue)
	}
	return total.Div(decimal.NewFromInt(int64(len(pairs))))
}
