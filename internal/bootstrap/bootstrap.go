// Package bootstrap builds the dashboard service and its data sources from
// configuration. The server and the CLI share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/application/dashboard"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/cache"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/config"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/objectstore"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/predictions"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/telemetry"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/warehouse/bigquery"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/warehouse/sqlstore"
)

// Warehouse is a closable analytics source
type Warehouse interface {
	analytics.Warehouse
	Close() error
}

// OpenWarehouse connects to the configured warehouse backend
func OpenWarehouse(ctx context.Context, cfg *config.Config, log *zap.Logger) (Warehouse, error) {
	switch cfg.Warehouse.Backend {
	case config.WarehouseSQL:
		return OpenSQLStore(cfg, log)
	default:
		t := cfg.Warehouse.Tables
		return bigquery.New(ctx, bigquery.Config{
			Project:         cfg.Warehouse.Project,
			Dataset:         cfg.Warehouse.Dataset,
			Location:        cfg.BigQuery.Location,
			QueryTimeout:    cfg.Warehouse.QueryTimeout,
			CredentialsFile: cfg.BigQuery.CredentialsFile,
			CredentialsJSON: cfg.BigQuery.CredentialsJSON,
			Tables: bigquery.Tables{
				KPI:       t.KPI,
				Customers: t.Customers,
				Products:  t.Products,
				History:   t.History,
				Basket:    t.Basket,
				Seasonal:  t.Seasonal,
			},
		}, log.Named("bigquery"))
	}
}

// OpenSQLStore opens the SQL mirror of the dataset
func OpenSQLStore(cfg *config.Config, log *zap.Logger) (*sqlstore.Store, error) {
	dsn := cfg.SQL.DSN()
	if cfg.SQL.Driver == sqlstore.DriverSQLite {
		dsn = cfg.SQL.Path
	}
	t := cfg.Warehouse.Tables
	return sqlstore.Open(sqlstore.Config{
		Driver:          cfg.SQL.Driver,
		DSN:             dsn,
		MaxOpenConns:    cfg.SQL.MaxOpenConns,
		MaxIdleConns:    cfg.SQL.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.SQL.ConnMaxLifetime) * time.Minute,
		LogLevel:        cfg.SQL.LogLevel,
		Tracing:         cfg.Telemetry.DBTraceEnabled,
		QueryTimeout:    cfg.Warehouse.QueryTimeout,
		Tables: sqlstore.Tables{
			KPI:       t.KPI,
			Customers: t.Customers,
			Products:  t.Products,
			History:   t.History,
			Basket:    t.Basket,
			Seasonal:  t.Seasonal,
		},
	}, log.Named("sqlstore"))
}

// OpenPredictions builds the prediction repository. The returned store must
// be closed by the caller.
func OpenPredictions(ctx context.Context, cfg *config.Config, log *zap.Logger) (*predictions.Repository, objectstore.Store, error) {
	s := cfg.Storage
	store, err := objectstore.New(ctx, objectstore.Config{
		Backend:            s.Backend,
		Bucket:             s.Bucket,
		GCSCredentialsFile: s.GCSCredentialsFile,
		LocalDir:           s.LocalDir,
		S3: objectstore.S3Config{
			Bucket:       s.Bucket,
			Endpoint:     s.S3.Endpoint,
			Region:       s.S3.Region,
			AccessKey:    s.S3.AccessKey,
			SecretKey:    s.S3.SecretKey,
			UseSSL:       s.S3.UseSSL,
			UsePathStyle: s.S3.UsePathStyle,
		},
	}, log.Named("objectstore"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open prediction store: %w", err)
	}
	return predictions.NewRepository(store, s.Prefix, log.Named("predictions")), store, nil
}

// OpenCache builds the query cache. Outside production an unreachable Redis
// falls back to memory.
func OpenCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.Cache, error) {
	return cache.New(ctx, cache.Options{
		Backend: cfg.Cache.Backend,
		Redis: cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		KeyPrefix:        cfg.Cache.KeyPrefix,
		DefaultTTL:       cfg.Cache.WarehouseTTL,
		L1TTL:            cfg.Cache.L1TTL,
		CleanupInterval:  cfg.Cache.CleanupInterval,
		FallbackToMemory: !cfg.App.IsProduction(),
	}, log)
}

// Dashboard is the assembled service with everything it holds open
type Dashboard struct {
	Service   *dashboard.Service
	Warehouse Warehouse
	Cache     cache.Cache

	closers []func() error
}

// Close releases the data sources
func (d *Dashboard) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewDashboard opens the data sources and builds the service. A prediction
// store that cannot be opened is logged and left out; the forecast views then
// report it as unavailable.
func NewDashboard(ctx context.Context, cfg *config.Config, log *zap.Logger, mp *telemetry.MeterProvider) (*Dashboard, error) {
	d := &Dashboard{}

	wh, err := OpenWarehouse(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}
	d.Warehouse = wh
	d.closers = append(d.closers, wh.Close)

	var preds analytics.PredictionRepository
	repo, store, err := OpenPredictions(ctx, cfg, log)
	if err != nil {
		log.Warn("Prediction store unavailable", zap.Error(err))
	} else {
		preds = repo
		d.closers = append(d.closers, store.Close)
	}

	c, err := OpenCache(ctx, cfg, log.Named("cache"))
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	d.Cache = c
	d.closers = append(d.closers, c.Close)

	opts := []dashboard.Option{dashboard.WithLogger(log)}
	if mp != nil {
		meter := mp.Meter("salesdash/dashboard")
		metrics, err := telemetry.NewDashboardMetrics(meter)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		opts = append(opts, dashboard.WithMetrics(metrics))

		if err := telemetry.RegisterCacheStats(meter, cfg.Cache.Backend, func() (int64, int64, int64) {
			s := c.Stats()
			return s.Hits, s.Misses, s.Entries
		}); err != nil {
			log.Warn("Failed to register cache gauges", zap.Error(err))
		}
	}

	d.Service = dashboard.NewService(wh, preds, c, dashboard.Config{
		WarehouseTTL:  cfg.Cache.WarehouseTTL,
		PredictionTTL: cfg.Cache.PredictionTTL,
	}, opts...)
	return d, nil
}
