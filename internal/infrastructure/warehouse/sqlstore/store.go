// Package sqlstore serves the analytics dataset from a SQL mirror
// (PostgreSQL in deployments, SQLite for local runs and tests).
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/logger"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Tables names the mirrored tables
type Tables struct {
	KPI       string
	Customers string
	Products  string
	History   string
	Basket    string
	Seasonal  string
}

// DefaultTables uses the warehouse table names
func DefaultTables() Tables {
	return Tables{
		KPI:       "kpi_summary",
		Customers: "customer_analytics",
		Products:  "product_analytics",
		History:   "customer_product_monthly",
		Basket:    "basket_analysis",
		Seasonal:  "seasonal_patterns",
	}
}

// Config describes the SQL connection
type Config struct {
	Driver          string
	DSN             string // postgres URL or sqlite path
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
	SlowThreshold   time.Duration
	Tracing         bool
	QueryTimeout    time.Duration
	Tables          Tables
}

// Store implements analytics.Warehouse with GORM
type Store struct {
	db      *gorm.DB
	tables  Tables
	timeout time.Duration
}

var _ analytics.Warehouse = (*Store)(nil)

// Open connects to the configured database
func Open(cfg Config, zl *zap.Logger) (*Store, error) {
	if zl == nil {
		zl = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(zl, logger.MapGormLogLevel(cfg.LogLevel), cfg.SlowThreshold),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Tracing {
		if err := db.Use(otelgorm.NewPlugin(
			otelgorm.WithDBName(cfg.Driver),
			otelgorm.WithoutQueryVariables(),
		)); err != nil {
			return nil, fmt.Errorf("failed to register tracing plugin: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db, cfg.Tables, cfg.QueryTimeout), nil
}

// New wraps an open GORM handle. Empty table names take the defaults.
func New(db *gorm.DB, tables Tables, queryTimeout time.Duration) *Store {
	def := DefaultTables()
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&tables.KPI, def.KPI)
	fill(&tables.Customers, def.Customers)
	fill(&tables.Products, def.Products)
	fill(&tables.History, def.History)
	fill(&tables.Basket, def.Basket)
	fill(&tables.Seasonal, def.Seasonal)
	if queryTimeout <= 0 {
		queryTimeout = 30 * time.Second
	}
	return &Store{db: db, tables: tables, timeout: queryTimeout}
}

// DB exposes the GORM handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// AutoMigrate creates the mirror tables from the models. Used for SQLite,
// PostgreSQL deployments run the versioned migrations instead.
func (s *Store) AutoMigrate() error {
	steps := []struct {
		table string
		model any
	}{
		{s.tables.KPI, &KPISummaryModel{}},
		{s.tables.Customers, &CustomerAnalyticsModel{}},
		{s.tables.Products, &ProductAnalyticsModel{}},
		{s.tables.History, &SalesMonthlyModel{}},
		{s.tables.Basket, &BasketPairModel{}},
		{s.tables.Seasonal, &SeasonalPatternModel{}},
	}
	for _, st := range steps {
		if err := s.db.Table(st.table).AutoMigrate(st.model); err != nil {
			return fmt.Errorf("auto-migrate %s: %w", st.table, err)
		}
	}
	return nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// query returns a session bound to ctx with the query timeout applied
func (s *Store) query(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

func wrapErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return shared.WrapDomainError(shared.CodeUnavailable, "warehouse query timed out: "+op, err)
	}
	return shared.Upstream("warehouse query failed: "+op, err)
}
