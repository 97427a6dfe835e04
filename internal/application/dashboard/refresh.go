package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
)

// Refreshable datasets
const (
	DatasetKPI         = "kpi"
	DatasetCustomers   = "customers"
	DatasetProducts    = "products"
	DatasetBasket      = "basket"
	DatasetPredictions = "predictions"
)

var datasetPrefixes = map[string][]string{
	DatasetKPI:         {"kpi:"},
	DatasetCustomers:   {"customers:"},
	DatasetProducts:    {"products:"},
	DatasetBasket:      {"basket:"},
	DatasetPredictions: {"predictions:", "sales:"},
}

// Refresh drops the cached entries of a dataset and loads it again so the
// next request is served warm
func (s *Service) Refresh(ctx context.Context, dataset string) error {
	prefixes, ok := datasetPrefixes[dataset]
	if !ok {
		return shared.InvalidInput(fmt.Sprintf("unknown dataset %q", dataset))
	}
	start := time.Now()

	for _, p := range prefixes {
		if err := s.cache.DeletePrefix(ctx, p); err != nil {
			s.metrics.RecordRefresh(ctx, dataset, time.Since(start), err)
			return fmt.Errorf("failed to invalidate %s: %w", p, err)
		}
	}

	err := s.reload(ctx, dataset)
	s.metrics.RecordRefresh(ctx, dataset, time.Since(start), err)
	if err != nil {
		return err
	}
	s.logger.Info("Dataset refreshed", zap.String("dataset", dataset), zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *Service) reload(ctx context.Context, dataset string) error {
	var err error
	switch dataset {
	case DatasetKPI:
		_, err = s.kpis(ctx)
	case DatasetCustomers:
		_, err = s.customers(ctx)
	case DatasetProducts:
		_, err = s.products(ctx)
	case DatasetBasket:
		_, err = s.basketPairs(ctx)
	case DatasetPredictions:
		if _, err = s.options(ctx); err != nil || s.predictions == nil {
			return err
		}
		months, mErr := s.predictionMonths(ctx)
		if mErr != nil || len(months) == 0 {
			return mErr
		}
		_, err = s.predictionSet(ctx, months[0])
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Latest prediction export not ready", zap.String("month", months[0].String()))
			return nil
		}
	}
	return err
}

// Warm refreshes every dataset and returns the combined error
func (s *Service) Warm(ctx context.Context) error {
	var errs []error
	for _, d := range []string{DatasetKPI, DatasetCustomers, DatasetProducts, DatasetBasket, DatasetPredictions} {
		if err := s.Refresh(ctx, d); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d, err))
		}
	}
	return errors.Join(errs...)
}
