// Package bigquery reads the sales analytics dataset from Google BigQuery.
package bigquery

import (
	"context"
	"errors"
	"fmt"
	"time"

	bq "cloud.google.com/go/bigquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
)

const tracerName = "salesdash/warehouse/bigquery"

// Config locates the dataset and authenticates the client
type Config struct {
	Project         string
	Dataset         string
	Location        string
	Tables          Tables
	QueryTimeout    time.Duration
	CredentialsFile string
	CredentialsJSON string
}

// Warehouse implements analytics.Warehouse on BigQuery
type Warehouse struct {
	client   *bq.Client
	queries  queryBuilder
	location string
	timeout  time.Duration
	logger   *zap.Logger
	tracer   trace.Tracer
}

var _ analytics.Warehouse = (*Warehouse)(nil)

// New creates a BigQuery client. Without explicit credentials the
// application default credentials are used.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Warehouse, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := bq.NewClient(ctx, cfg.Project, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}
	return newWithClient(client, cfg, logger), nil
}

func newWithClient(client *bq.Client, cfg Config, logger *zap.Logger) *Warehouse {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Warehouse{
		client:   client,
		queries:  queryBuilder{project: cfg.Project, dataset: cfg.Dataset, tables: cfg.Tables},
		location: cfg.Location,
		timeout:  timeout,
		logger:   logger.Named("bigquery"),
		tracer:   otel.Tracer(tracerName),
	}
}

// ListMonthlyKPIs implements analytics.KPIRepository
func (w *Warehouse) ListMonthlyKPIs(ctx context.Context) ([]analytics.MonthlyKPI, error) {
	return readAll(ctx, w, "kpi_summary", w.queries.monthlyKPIs(), nil, kpiRow.toDomain)
}

// ListCustomers implements analytics.CustomerRepository
func (w *Warehouse) ListCustomers(ctx context.Context) ([]analytics.CustomerProfile, error) {
	return readAll(ctx, w, "customer_analytics", w.queries.customers(), nil, customerRow.toDomain)
}

// ListProducts implements analytics.ProductRepository
func (w *Warehouse) ListProducts(ctx context.Context) ([]analytics.ProductProfile, error) {
	return readAll(ctx, w, "product_analytics", w.queries.products(), nil, productRow.toDomain)
}

// ProductHistory implements analytics.ProductRepository
func (w *Warehouse) ProductHistory(ctx context.Context, codes []string, months int) ([]analytics.MonthlyPoint, error) {
	var params []bq.QueryParameter
	if len(codes) > 0 {
		params = append(params, bq.QueryParameter{Name: "codes", Value: codes})
	}
	if months > 0 {
		params = append(params, bq.QueryParameter{Name: "months", Value: int64(months)})
	}
	sql := w.queries.productHistory(len(codes) > 0, months > 0)
	return readAll(ctx, w, "product_history", sql, params, monthlyRow.toDomain)
}

// SeasonalPatterns implements analytics.ProductRepository
func (w *Warehouse) SeasonalPatterns(ctx context.Context, codes []string) ([]analytics.SeasonalPoint, error) {
	var params []bq.QueryParameter
	if len(codes) > 0 {
		params = append(params, bq.QueryParameter{Name: "codes", Value: codes})
	}
	return readAll(ctx, w, "seasonal_patterns", w.queries.seasonalPatterns(len(codes) > 0), params, seasonalRow.toDomain)
}

// CustomerProductOptions implements analytics.SalesHistoryRepository
func (w *Warehouse) CustomerProductOptions(ctx context.Context) ([]analytics.CustomerProductOption, error) {
	return readAll(ctx, w, "customer_product_options", w.queries.customerProductOptions(), nil, optionRow.toDomain)
}

// CustomerProductHistory implements analytics.SalesHistoryRepository
func (w *Warehouse) CustomerProductHistory(ctx context.Context, customerID, productCode string) ([]analytics.HistoricalPoint, error) {
	params := []bq.QueryParameter{
		{Name: "customer_id", Value: customerID},
		{Name: "product_code", Value: productCode},
	}
	return readAll(ctx, w, "customer_product_history", w.queries.customerProductHistory(), params, historyRow.toDomain)
}

// ListBasketPairs implements analytics.BasketRepository
func (w *Warehouse) ListBasketPairs(ctx context.Context) ([]analytics.BasketPair, error) {
	return readAll(ctx, w, "basket_analysis", w.queries.basketPairs(), nil, basketRow.toDomain)
}

// Ping runs a trivial query to verify credentials and reachability
func (w *Warehouse) Ping(ctx context.Context) error {
	_, err := readAll(ctx, w, "ping", "SELECT 1 AS ok", nil, func(r pingRow) int64 { return r.OK })
	return err
}

type pingRow struct {
	OK int64 `bigquery:"ok"`
}

// Close releases the client
func (w *Warehouse) Close() error {
	return w.client.Close()
}

// readAll runs sql and maps every row. Failures surface as upstream errors.
func readAll[R any, T any](ctx context.Context, w *Warehouse, name, sql string, params []bq.QueryParameter, mapRow func(R) T) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ctx, span := w.tracer.Start(ctx, "bigquery."+name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "bigquery"),
		attribute.String("db.operation", name),
	)

	start := time.Now()
	q := w.client.Query(sql)
	q.Parameters = params
	if w.location != "" {
		q.Location = w.location
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, w.fail(span, name, err)
	}

	out := make([]T, 0, it.TotalRows)
	for {
		var row R
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, w.fail(span, name, err)
		}
		out = append(out, mapRow(row))
	}

	span.SetAttributes(attribute.Int("db.rows", len(out)))
	w.logger.Debug("Query completed",
		zap.String("query", name),
		zap.Int("rows", len(out)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

func (w *Warehouse) fail(span trace.Span, name string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	w.logger.Error("Query failed", zap.String("query", name), zap.Error(err))
	if errors.Is(err, context.DeadlineExceeded) {
		return shared.WrapDomainError(shared.CodeUnavailable, "warehouse query timed out: "+name, err)
	}
	return shared.Upstream("warehouse query failed: "+name, err)
}
