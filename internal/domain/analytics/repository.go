package analytics

import "context"

// KPIRepository reads the monthly KPI summary
type KPIRepository interface {
	// ListMonthlyKPIs returns months with positive revenue, most recent first
	ListMonthlyKPIs(ctx context.Context) ([]MonthlyKPI, error)
}

// CustomerRepository reads customer analytics
type CustomerRepository interface {
	// ListCustomers returns all customers ordered by lifetime revenue, highest first
	ListCustomers(ctx context.Context) ([]CustomerProfile, error)
}

// ProductRepository reads product analytics and demand history
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]ProductProfile, error)
	// ProductHistory returns monthly demand for the codes over the last months
	// months of data, oldest first. months <= 0 returns all history.
	ProductHistory(ctx context.Context, codes []string, months int) ([]MonthlyPoint, error)
	// SeasonalPatterns returns seasonality rows; empty codes returns all products
	SeasonalPatterns(ctx context.Context, codes []string) ([]SeasonalPoint, error)
}

// SalesHistoryRepository reads customer-product purchase history
type SalesHistoryRepository interface {
	CustomerProductOptions(ctx context.Context) ([]CustomerProductOption, error)
	// CustomerProductHistory returns the monthly purchases, oldest first
	CustomerProductHistory(ctx context.Context, customerID, productCode string) ([]HistoricalPoint, error)
}

// BasketRepository reads market basket association rules
type BasketRepository interface {
	ListBasketPairs(ctx context.Context) ([]BasketPair, error)
}

// Warehouse bundles every read the dashboard makes against the analytics dataset
type Warehouse interface {
	KPIRepository
	CustomerRepository
	ProductRepository
	SalesHistoryRepository
	BasketRepository
	Ping(ctx context.Context) error
	Close() error
}

// PredictionRepository reads the ML prediction exports
type PredictionRepository interface {
	// ListMonths returns the months with an export, latest first
	ListMonths(ctx context.Context) ([]PredictionMonth, error)
	// LoadMonth decodes the export for a month
	LoadMonth(ctx context.Context, month PredictionMonth) (*PredictionSet, error)
}
