package sqlstore

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
)

// ListMonthlyKPIs implements analytics.KPIRepository
func (s *Store) ListMonthlyKPIs(ctx context.Context) ([]analytics.MonthlyKPI, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	var rows []KPISummaryModel
	if err := db.Table(s.tables.KPI).
		Where("total_revenue > ?", 0).
		Order("report_month DESC").
		Find(&rows).Error; err != nil {
		return nil, wrapErr("kpi_summary", err)
	}
	return mapRows(rows, KPISummaryModel.ToDomain), nil
}

// ListCustomers implements analytics.CustomerRepository
func (s *Store) ListCustomers(ctx context.Context) ([]analytics.CustomerProfile, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	var rows []CustomerAnalyticsModel
	if err := db.Table(s.tables.Customers).
		Order("total_lifetime_revenue DESC").
		Find(&rows).Error; err != nil {
		return nil, wrapErr("customer_analytics", err)
	}
	return mapRows(rows, CustomerAnalyticsModel.ToDomain), nil
}

// ListProducts implements analytics.ProductRepository
func (s *Store) ListProducts(ctx context.Context) ([]analytics.ProductProfile, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	var rows []ProductAnalyticsModel
	if err := db.Table(s.tables.Products).
		Order("rank_by_revenue ASC").
		Find(&rows).Error; err != nil {
		return nil, wrapErr("product_analytics", err)
	}
	return mapRows(rows, ProductAnalyticsModel.ToDomain), nil
}

type monthlyAggregate struct {
	ProductCode string
	YearMonth   string
	Quantity    float64
	Revenue     float64
}

// ProductHistory implements analytics.ProductRepository
func (s *Store) ProductHistory(ctx context.Context, codes []string, months int) ([]analytics.MonthlyPoint, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	q := db.Table(s.tables.History).
		Select("product_code, year_month, SUM(quantity_sold) AS quantity, SUM(revenue) AS revenue")
	if len(codes) > 0 {
		q = q.Where("product_code IN ?", codes)
	}
	if months > 0 {
		var recent []string
		if err := db.Table(s.tables.History).
			Distinct("year_month").
			Order("year_month DESC").
			Limit(months).
			Pluck("year_month", &recent).Error; err != nil {
			return nil, wrapErr("product_history", err)
		}
		if len(recent) == 0 {
			return []analytics.MonthlyPoint{}, nil
		}
		q = q.Where("year_month >= ?", recent[len(recent)-1])
	}

	var rows []monthlyAggregate
	if err := q.Group("product_code, year_month").
		Order("year_month ASC, product_code ASC").
		Scan(&rows).Error; err != nil {
		return nil, wrapErr("product_history", err)
	}
	return mapRows(rows, func(r monthlyAggregate) analytics.MonthlyPoint {
		return analytics.MonthlyPoint{
			ProductCode: r.ProductCode,
			YearMonth:   r.YearMonth,
			Quantity:    r.Quantity,
			Revenue:     decimal.NewFromFloat(r.Revenue),
		}
	}), nil
}

// SeasonalPatterns implements analytics.ProductRepository
func (s *Store) SeasonalPatterns(ctx context.Context, codes []string) ([]analytics.SeasonalPoint, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	q := db.Table(s.tables.Seasonal)
	if len(codes) > 0 {
		q = q.Where("product_code IN ?", codes)
	}
	var rows []SeasonalPatternModel
	if err := q.Order("product_code ASC, month_number ASC").Find(&rows).Error; err != nil {
		return nil, wrapErr("seasonal_patterns", err)
	}
	return mapRows(rows, SeasonalPatternModel.ToDomain), nil
}

type optionRow struct {
	CustomerID  string
	ProductCode string
	ProductName *string
}

// CustomerProductOptions implements analytics.SalesHistoryRepository
func (s *Store) CustomerProductOptions(ctx context.Context) ([]analytics.CustomerProductOption, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	var rows []optionRow
	if err := db.Table(s.tables.History).
		Distinct("customer_id", "product_code", "product_name").
		Order("customer_id ASC, product_code ASC").
		Scan(&rows).Error; err != nil {
		return nil, wrapErr("customer_product_options", err)
	}
	return mapRows(rows, func(r optionRow) analytics.CustomerProductOption {
		return analytics.CustomerProductOption{
			CustomerID:  r.CustomerID,
			ProductCode: r.ProductCode,
			ProductName: deref(r.ProductName),
		}
	}), nil
}

type historyAggregate struct {
	YearMonth    string
	QuantitySold float64
	Revenue      float64
}

// CustomerProductHistory implements analytics.SalesHistoryRepository
func (s *Store) CustomerProductHistory(ctx context.Context, customerID, productCode string) ([]analytics.HistoricalPoint, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	var rows []historyAggregate
	if err := db.Table(s.tables.History).
		Select("year_month, SUM(quantity_sold) AS quantity_sold, SUM(revenue) AS revenue").
		Where("customer_id = ? AND product_code = ?", customerID, productCode).
		Group("year_month").
		Order("year_month ASC").
		Scan(&rows).Error; err != nil {
		return nil, wrapErr("customer_product_history", err)
	}
	return mapRows(rows, func(r historyAggregate) analytics.HistoricalPoint {
		return analytics.HistoricalPoint{
			YearMonth:    r.YearMonth,
			QuantitySold: r.QuantitySold,
			Revenue:      decimal.NewFromFloat(r.Revenue),
		}
	}), nil
}

// ListBasketPairs implements analytics.BasketRepository
func (s *Store) ListBasketPairs(ctx context.Context) ([]analytics.BasketPair, error) {
	db, cancel := s.query(ctx)
	defer cancel()

	var rows []BasketPairModel
	if err := db.Table(s.tables.Basket).
		Order("bundle_score DESC, lift DESC").
		Find(&rows).Error; err != nil {
		return nil, wrapErr("basket_analysis", err)
	}
	return mapRows(rows, BasketPairModel.ToDomain), nil
}

func mapRows[R any, T any](rows []R, fn func(R) T) []T {
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = fn(r)
	}
	return out
}
