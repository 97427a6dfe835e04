package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const seedBatchSize = 500

// Dataset is a full snapshot of the mirrored tables
type Dataset struct {
	KPIs      []KPISummaryModel
	Customers []CustomerAnalyticsModel
	Products  []ProductAnalyticsModel
	Sales     []SalesMonthlyModel
	Basket    []BasketPairModel
	Seasonal  []SeasonalPatternModel
}

// Replace swaps the content of every table for ds in one transaction
func (s *Store) Replace(ctx context.Context, ds Dataset) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			table string
			model any
			rows  any
			n     int
		}{
			{s.tables.KPI, &KPISummaryModel{}, ds.KPIs, len(ds.KPIs)},
			{s.tables.Customers, &CustomerAnalyticsModel{}, ds.Customers, len(ds.Customers)},
			{s.tables.Products, &ProductAnalyticsModel{}, ds.Products, len(ds.Products)},
			{s.tables.History, &SalesMonthlyModel{}, ds.Sales, len(ds.Sales)},
			{s.tables.Basket, &BasketPairModel{}, ds.Basket, len(ds.Basket)},
			{s.tables.Seasonal, &SeasonalPatternModel{}, ds.Seasonal, len(ds.Seasonal)},
		}
		for _, st := range steps {
			if err := tx.Table(st.table).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(st.model).Error; err != nil {
				return fmt.Errorf("clear %s: %w", st.table, err)
			}
			if st.n == 0 {
				continue
			}
			if err := tx.Table(st.table).CreateInBatches(st.rows, seedBatchSize).Error; err != nil {
				return fmt.Errorf("insert %s: %w", st.table, err)
			}
		}
		return nil
	})
}
