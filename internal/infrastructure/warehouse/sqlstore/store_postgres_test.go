package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockStore(t *testing.T, tables Tables) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return New(db, tables, time.Second), mock
}

func TestStore_Postgres_ListMonthlyKPIs(t *testing.T) {
	s, mock := newMockStore(t, Tables{KPI: "kpi_mirror"})

	rows := sqlmock.NewRows([]string{"report_month", "total_revenue", "revenue_growth_mom_pct", "total_orders",
		"orders_growth_mom_pct", "active_customers", "active_products", "last_updated"}).
		AddRow(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 1000000.0, 12.5, 130, nil, 42, 21, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "kpi_mirror" WHERE total_revenue > $1 ORDER BY report_month DESC`)).
		WithArgs(0).
		WillReturnRows(rows)

	kpis, err := s.ListMonthlyKPIs(context.Background())
	require.NoError(t, err)
	require.Len(t, kpis, 1)
	assert.Equal(t, "2025-06", kpis[0].Key())
	assert.Equal(t, int64(130), kpis[0].TotalOrders)
	assert.Nil(t, kpis[0].OrdersGrowthMoMPct)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Postgres_CustomerProductHistory(t *testing.T) {
	s, mock := newMockStore(t, Tables{})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT year_month, SUM(quantity_sold) AS quantity_sold, SUM(revenue) AS revenue FROM "customer_product_monthly" WHERE customer_id = $1 AND product_code = $2 GROUP BY "year_month" ORDER BY year_month ASC`)).
		WithArgs("C-1", "P-1").
		WillReturnRows(sqlmock.NewRows([]string{"year_month", "quantity_sold", "revenue"}).
			AddRow("2025-05", 12.0, 1200.0).
			AddRow("2025-06", 9.0, 900.0))

	hist, err := s.CustomerProductHistory(context.Background(), "C-1", "P-1")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 9.0, hist[1].QuantitySold)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Postgres_QueryError(t *testing.T) {
	s, mock := newMockStore(t, Tables{})

	mock.ExpectQuery(`SELECT \* FROM "basket_analysis"`).WillReturnError(errors.New("connection reset"))

	_, err := s.ListBasketPairs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "basket_analysis")
	assert.NoError(t, mock.ExpectationsWereMet())
}
