// Package dashboard serves the dashboard views. Every dataset read from the
// warehouse or the prediction store goes through the shared query cache, and
// concurrent misses for the same dataset are collapsed into one load.
package dashboard

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/cache"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/logger"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/telemetry"
)

// Default cache lifetimes
const (
	DefaultWarehouseTTL  = 600 * time.Second
	DefaultPredictionTTL = 300 * time.Second
)

// Cache keys. Refreshing a dataset drops every key under its prefixes.
const (
	keyKPIs            = "kpi:monthly"
	keyCustomers       = "customers:all"
	keyProducts        = "products:all"
	keyProductHistory  = "products:history:"
	keySeasonal        = "products:seasonal:"
	keyBasket          = "basket:pairs"
	keyOptions         = "sales:options"
	keyCustomerHistory = "sales:history:"
	keyPredMonths      = "predictions:months"
	keyPredSet         = "predictions:set:"
)

// Config tunes the service
type Config struct {
	WarehouseTTL  time.Duration
	PredictionTTL time.Duration
}

// Service implements the dashboard use cases
type Service struct {
	warehouse   analytics.Warehouse
	predictions analytics.PredictionRepository
	cache       cache.Cache
	group       singleflight.Group
	cfg         Config
	metrics     *telemetry.DashboardMetrics
	logger      *zap.Logger
}

// Option customizes a Service
type Option func(*Service)

// WithMetrics records dataset loads
func WithMetrics(m *telemetry.DashboardMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service. predictions may be nil, in which case the
// forecast views report the store as unavailable.
func NewService(warehouse analytics.Warehouse, predictions analytics.PredictionRepository, c cache.Cache, cfg Config, opts ...Option) *Service {
	if cfg.WarehouseTTL <= 0 {
		cfg.WarehouseTTL = DefaultWarehouseTTL
	}
	if cfg.PredictionTTL <= 0 {
		cfg.PredictionTTL = DefaultPredictionTTL
	}
	if c == nil {
		c = cache.Noop{}
	}
	s := &Service{
		warehouse:   warehouse,
		predictions: predictions,
		cache:       c,
		cfg:         cfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("dashboard")
	return s
}

// Ping checks the warehouse connection
func (s *Service) Ping(ctx context.Context) error {
	return s.warehouse.Ping(ctx)
}

// PredictionsConfigured reports whether a prediction store is wired
func (s *Service) PredictionsConfigured() bool {
	return s.predictions != nil
}

// CacheStats exposes the cache counters
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

func remember[T any](ctx context.Context, s *Service, dataset, key string, ttl time.Duration, load cache.Loader[T]) (T, error) {
	return cache.Remember(ctx, s.cache, &s.group, key, ttl, func(ctx context.Context) (T, error) {
		start := time.Now()
		v, err := load(ctx)
		elapsed := time.Since(start)
		s.metrics.RecordLoad(ctx, dataset, elapsed, err)

		log := logger.Enrich(ctx, s.logger)
		if err != nil {
			log.Warn("Dataset load failed", zap.String("dataset", dataset), zap.String("key", key), zap.Error(err))
		} else {
			log.Debug("Dataset loaded", zap.String("dataset", dataset), zap.String("key", key), zap.Duration("elapsed", elapsed))
		}
		return v, err
	})
}

func (s *Service) kpis(ctx context.Context) (analytics.KPISeries, error) {
	rows, err := remember(ctx, s, DatasetKPI, keyKPIs, s.cfg.WarehouseTTL, s.warehouse.ListMonthlyKPIs)
	if err != nil {
		return nil, err
	}
	return analytics.NewKPISeries(rows), nil
}

func (s *Service) customers(ctx context.Context) ([]analytics.CustomerProfile, error) {
	return remember(ctx, s, DatasetCustomers, keyCustomers, s.cfg.WarehouseTTL, s.warehouse.ListCustomers)
}

func (s *Service) products(ctx context.Context) ([]analytics.ProductProfile, error) {
	return remember(ctx, s, DatasetProducts, keyProducts, s.cfg.WarehouseTTL, s.warehouse.ListProducts)
}

func (s *Service) productHistory(ctx context.Context, codes []string, months int) ([]analytics.MonthlyPoint, error) {
	key := keyProductHistory + strconv.Itoa(months) + ":" + strings.Join(codes, ",")
	return remember(ctx, s, DatasetProducts, key, s.cfg.WarehouseTTL, func(ctx context.Context) ([]analytics.MonthlyPoint, error) {
		return s.warehouse.ProductHistory(ctx, codes, months)
	})
}

func (s *Service) seasonal(ctx context.Context, codes []string) ([]analytics.SeasonalPoint, error) {
	key := keySeasonal + strings.Join(codes, ",")
	return remember(ctx, s, DatasetProducts, key, s.cfg.WarehouseTTL, func(ctx context.Context) ([]analytics.SeasonalPoint, error) {
		return s.warehouse.SeasonalPatterns(ctx, codes)
	})
}

func (s *Service) basketPairs(ctx context.Context) ([]analytics.BasketPair, error) {
	return remember(ctx, s, DatasetBasket, keyBasket, s.cfg.WarehouseTTL, s.warehouse.ListBasketPairs)
}

func (s *Service) options(ctx context.Context) ([]analytics.CustomerProductOption, error) {
	return remember(ctx, s, DatasetPredictions, keyOptions, s.cfg.WarehouseTTL, s.warehouse.CustomerProductOptions)
}

func (s *Service) customerHistory(ctx context.Context, customerID, productCode string) ([]analytics.HistoricalPoint, error) {
	key := keyCustomerHistory + customerID + ":" + productCode
	return remember(ctx, s, DatasetPredictions, key, s.cfg.WarehouseTTL, func(ctx context.Context) ([]analytics.HistoricalPoint, error) {
		return s.warehouse.CustomerProductHistory(ctx, customerID, productCode)
	})
}

func (s *Service) predictionRepo() (analytics.PredictionRepository, error) {
	if s.predictions == nil {
		return nil, shared.NewDomainError(shared.CodeUnavailable, "Prediction storage is not configured")
	}
	return s.predictions, nil
}

func (s *Service) predictionMonths(ctx context.Context) ([]analytics.PredictionMonth, error) {
	repo, err := s.predictionRepo()
	if err != nil {
		return nil, err
	}
	return remember(ctx, s, DatasetPredictions, keyPredMonths, s.cfg.PredictionTTL, repo.ListMonths)
}

func (s *Service) predictionSet(ctx context.Context, month analytics.PredictionMonth) (*analytics.PredictionSet, error) {
	repo, err := s.predictionRepo()
	if err != nil {
		return nil, err
	}
	return remember(ctx, s, DatasetPredictions, keyPredSet+month.String(), s.cfg.PredictionTTL, func(ctx context.Context) (*analytics.PredictionSet, error) {
		return repo.LoadMonth(ctx, month)
	})
}
