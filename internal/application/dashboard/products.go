package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
)

// Product list defaults
const (
	DefaultRankingLimit     = 20
	DefaultTopGrowing       = 8
	DefaultSeasonalProducts = 10
)

// RankingResponse is a ranked product table with its statistics
type RankingResponse struct {
	Metric   analytics.RankingMetric   `json:"metric"`
	Category string                    `json:"category,omitempty"`
	Rows     []analytics.RankedProduct `json:"rows"`
	Stats    analytics.RankingStats    `json:"stats"`
}

// ProductDetailResponse is the product detail view
type ProductDetailResponse struct {
	Product        analytics.ProductProfile     `json:"product"`
	PeakMonthName  string                       `json:"peak_month_name"`
	TrendIcon      string                       `json:"trend_icon"`
	RevenueDisplay string                       `json:"revenue_display"`
	GrowthDisplay  string                       `json:"growth_display"`
	History        []analytics.MonthlyPoint     `json:"history"`
	Prediction     *analytics.ProductPrediction `json:"prediction,omitempty"`
}

// Categories lists the product types
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.Categories(products), nil
}

// Rankings ranks products by a metric within an optional category
func (s *Service) Rankings(ctx context.Context, metric, category string, limit int) (*RankingResponse, error) {
	m, err := analytics.ParseRankingMetric(metric)
	if err != nil {
		return nil, shared.InvalidInput(err.Error())
	}
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return &RankingResponse{
		Metric:   m,
		Category: category,
		Rows:     analytics.RankProducts(products, m, category, clampLimit(limit, DefaultRankingLimit, 0)),
		Stats:    analytics.ComputeRankingStats(analytics.FilterCategory(products, category)),
	}, nil
}

// CategoryRevenue breaks revenue down by product type
func (s *Service) CategoryRevenue(ctx context.Context) ([]analytics.CategoryRevenue, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.CategoryRevenueBreakdown(products), nil
}

// TopGrowing returns the fastest growing products
func (s *Service) TopGrowing(ctx context.Context, limit int) ([]analytics.ProductProfile, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.TopGrowing(products, clampLimit(limit, DefaultTopGrowing, 0)), nil
}

// Seasonality returns seasonal patterns for the codes, or for the top
// products by revenue when no codes are given
func (s *Service) Seasonality(ctx context.Context, codes []string) ([]analytics.SeasonalPoint, error) {
	if len(codes) == 0 {
		products, err := s.products(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range analytics.RankProducts(products, analytics.RankByRevenue, "", DefaultSeasonalProducts) {
			codes = append(codes, r.Product.Code)
		}
		if len(codes) == 0 {
			return []analytics.SeasonalPoint{}, nil
		}
	}
	return s.seasonal(ctx, codes)
}

// CompareProducts compares demand for 2 to 5 products over a supported window.
// A nil window uses the default.
func (s *Service) CompareProducts(ctx context.Context, codes []string, window *int) ([]analytics.ProductComparison, error) {
	months := analytics.DefaultComparisonPeriod
	if window != nil {
		months = *window
	}
	if err := analytics.ValidateComparison(codes, months); err != nil {
		return nil, shared.InvalidInput(err.Error())
	}
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.productHistory(ctx, codes, months)
	if err != nil {
		return nil, err
	}
	cmp, err := analytics.CompareProducts(products, history, codes)
	if err != nil {
		return nil, shared.NotFound(err.Error())
	}
	return cmp, nil
}

// MarketInsights summarizes the product portfolio
func (s *Service) MarketInsights(ctx context.Context) (*analytics.MarketInsights, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	mi := analytics.ComputeMarketInsights(products)
	return &mi, nil
}

// GetProduct returns a product with its full monthly history. When
// predictionMonth is set, the product's predicted demand for that month is
// attached; a month without an export leaves the prediction empty.
func (s *Service) GetProduct(ctx context.Context, code, predictionMonth string) (*ProductDetailResponse, error) {
	var month analytics.PredictionMonth
	if predictionMonth != "" {
		m, err := analytics.ParsePredictionMonth(predictionMonth)
		if err != nil {
			return nil, shared.InvalidInput(err.Error())
		}
		month = m
	}

	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := analytics.FindProduct(products, code)
	if !ok {
		return nil, shared.NotFound(fmt.Sprintf("Product %s not found", code))
	}
	history, err := s.productHistory(ctx, []string{code}, 0)
	if err != nil {
		return nil, err
	}

	resp := &ProductDetailResponse{
		Product:        p,
		PeakMonthName:  p.PeakMonthName(),
		TrendIcon:      p.TrendIcon(),
		RevenueDisplay: analytics.FormatRubles(p.TotalRevenue),
		GrowthDisplay:  analytics.FormatOptionalPercent(p.GrowthPct, true),
		History:        history,
	}
	if month != "" {
		set, err := s.predictionSet(ctx, month)
		switch {
		case errors.Is(err, shared.ErrNotFound), errors.Is(err, shared.ErrUnavailable):
		case err != nil:
			return nil, err
		default:
			if total, ok := set.ProductTotal(code); ok {
				resp.Prediction = &total
			}
		}
	}
	return resp, nil
}
