// Package predictions reads the monthly ML prediction exports from object
// storage.
package predictions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/objectstore"
)

const csvExt = ".csv"

var tracer = otel.Tracer("salesdash/predictions")

var _ analytics.PredictionRepository = (*Repository)(nil)

// Repository resolves months to export objects
type Repository struct {
	store  objectstore.Store
	prefix string
	logger *zap.Logger
}

// NewRepository reads exports stored under prefix, for example
// "streamlit_exports/predictions_"
func NewRepository(store objectstore.Store, prefix string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{store: store, prefix: prefix, logger: logger.Named("predictions")}
}

// ListMonths returns every month that has at least one CSV export
func (r *Repository) ListMonths(ctx context.Context) ([]analytics.PredictionMonth, error) {
	ctx, span := tracer.Start(ctx, "predictions.ListMonths")
	defer span.End()

	objects, err := r.store.List(ctx, r.prefix)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, shared.Upstream("failed to list prediction exports", err)
	}

	months := make([]analytics.PredictionMonth, 0, len(objects))
	for _, obj := range objects {
		if m, ok := analytics.MonthFromObjectKey(obj.Key, r.prefix); ok {
			months = append(months, m)
		}
	}
	months = analytics.UniqueMonthsDesc(months)
	span.SetAttributes(attribute.Int("predictions.months", len(months)))
	return months, nil
}

// LoadMonth decodes the first export for the month in key order
func (r *Repository) LoadMonth(ctx context.Context, month analytics.PredictionMonth) (*analytics.PredictionSet, error) {
	ctx, span := tracer.Start(ctx, "predictions.LoadMonth")
	span.SetAttributes(attribute.String("predictions.month", month.String()))
	defer span.End()

	key, err := r.resolve(ctx, month)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	body, err := r.store.Open(ctx, key)
	if errors.Is(err, objectstore.ErrObjectNotFound) {
		return nil, r.notReady(month)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, shared.Upstream("failed to read prediction export", err)
	}
	defer func() {
		if cerr := body.Close(); cerr != nil {
			r.logger.Warn("Failed to close prediction export", zap.String("key", key), zap.Error(cerr))
		}
	}()

	set, err := DecodeCSV(body, month, fmt.Sprintf("%s/%s", r.store.Bucket(), key))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	r.logger.Info("Loaded prediction export",
		zap.String("month", month.String()),
		zap.String("key", key),
		zap.Int("rows", len(set.Rows)),
	)
	span.SetAttributes(attribute.Int("predictions.rows", len(set.Rows)))
	return set, nil
}

func (r *Repository) resolve(ctx context.Context, month analytics.PredictionMonth) (string, error) {
	objects, err := r.store.List(ctx, r.prefix+month.String())
	if err != nil {
		return "", shared.Upstream("failed to list prediction exports", err)
	}
	// objects arrive in key order
	for _, obj := range objects {
		if strings.HasSuffix(obj.Key, csvExt) {
			return obj.Key, nil
		}
	}
	return "", r.notReady(month)
}

func (r *Repository) notReady(month analytics.PredictionMonth) error {
	return shared.NotFound(fmt.Sprintf("Predictions for %s are being finalized", month.Label()))
}
