package dashboard

import (
	"context"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
)

// Basket view defaults
const (
	DefaultBundleLimit    = 15
	DefaultCrossSellLimit = 5
	LiftHistogramWidth    = 0.25
)

// BundlesResponse holds the top bundles and their insights
type BundlesResponse struct {
	Bundles  []analytics.BasketPair   `json:"bundles"`
	Insights analytics.BundleInsights `json:"insights"`
}

// CategoryCrossSellResponse holds per-relationship statistics
type CategoryCrossSellResponse struct {
	Stats      []analytics.CategoryCrossSell `json:"stats"`
	Highlights analytics.CategoryHighlights  `json:"highlights"`
}

// CrossSellResponse holds recommendations for one product
type CrossSellResponse struct {
	ProductCode     string                              `json:"product_code"`
	Recommendations []analytics.CrossSellRecommendation `json:"recommendations"`
	Insights        analytics.CrossSellInsights         `json:"insights"`
}

// BasketPairs returns every association rule
func (s *Service) BasketPairs(ctx context.Context) ([]analytics.BasketPair, error) {
	return s.basketPairs(ctx)
}

// TopBundles returns the best scoring bundles
func (s *Service) TopBundles(ctx context.Context, limit int) (*BundlesResponse, error) {
	pairs, err := s.basketPairs(ctx)
	if err != nil {
		return nil, err
	}
	top := analytics.TopBundles(pairs, clampLimit(limit, DefaultBundleLimit, 0))
	return &BundlesResponse{Bundles: top, Insights: analytics.SummarizeBundles(top)}, nil
}

// CategoryCrossSell groups pairs by category relationship
func (s *Service) CategoryCrossSell(ctx context.Context) (*CategoryCrossSellResponse, error) {
	pairs, err := s.basketPairs(ctx)
	if err != nil {
		return nil, err
	}
	stats := analytics.CategoryStats(pairs)
	return &CategoryCrossSellResponse{Stats: stats, Highlights: analytics.HighlightCategories(stats)}, nil
}

// StrengthDistribution counts pairs per association strength
func (s *Service) StrengthDistribution(ctx context.Context) ([]analytics.StrengthBucket, error) {
	pairs, err := s.basketPairs(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.StrengthDistribution(pairs), nil
}

// Network builds the product association graph. A nil minLift uses the default.
func (s *Service) Network(ctx context.Context, minLift *float64) (*analytics.Network, error) {
	lift := analytics.DefaultNetworkMinLift
	if minLift != nil {
		lift = *minLift
	}
	if err := analytics.ValidateMinLift(lift); err != nil {
		return nil, shared.InvalidInput(err.Error())
	}
	pairs, err := s.basketPairs(ctx)
	if err != nil {
		return nil, err
	}
	net, err := analytics.BuildNetwork(pairs, lift)
	if err != nil {
		return nil, shared.InvalidInput(err.Error())
	}
	return &net, nil
}

// LiftHistogram buckets pair lifts
func (s *Service) LiftHistogram(ctx context.Context) ([]analytics.HistogramBin, error) {
	pairs, err := s.basketPairs(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.LiftHistogram(pairs, LiftHistogramWidth), nil
}

// ConfidenceMatrix returns the A to B confidence heatmap
func (s *Service) ConfidenceMatrix(ctx context.Context) (*analytics.ConfidenceMatrix, error) {
	pairs, err := s.basketPairs(ctx)
	if err != nil {
		return nil, err
	}
	m := analytics.BuildConfidenceMatrix(pairs)
	return &m, nil
}

// BasketProducts lists products that appear as the antecedent of a rule
func (s *Service) BasketProducts(ctx context.Context) ([]analytics.BasketProduct, error) {
	pairs, err := s.basketPairs(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.BasketProducts(pairs), nil
}

// CrossSell recommends products to offer alongside productCode. An unknown
// product yields no recommendations.
func (s *Service) CrossSell(ctx context.Context, productCode string, limit int) (*CrossSellResponse, error) {
	pairs, err := s.basketPairs(ctx)
	if err != nil {
		return nil, err
	}
	recs := analytics.CrossSell(pairs, productCode)
	if n := clampLimit(limit, DefaultCrossSellLimit, 0); n < len(recs) {
		recs = recs[:n]
	}
	return &CrossSellResponse{
		ProductCode:     productCode,
		Recommendations: recs,
		Insights:        analytics.SummarizeCrossSell(recs),
	}, nil
}

// BasketSummary returns the market-level basket statistics
func (s *Service) BasketSummary(ctx context.Context) (*analytics.BasketMarketSummary, error) {
	pairs, err := s.basketPairs(ctx)
	if err != nil {
		return nil, err
	}
	sum := analytics.SummarizeMarket(pairs)
	return &sum, nil
}
