package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/bootstrap"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/config"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/warehouse/sqlstore"
)

type seedSummary struct {
	Driver    string `json:"driver"`
	Seed      uint64 `json:"seed"`
	KPIMonths int    `json:"kpi_months"`
	Customers int    `json:"customers"`
	Products  int    `json:"products"`
	SalesRows int    `json:"sales_rows"`
	Pairs     int    `json:"basket_pairs"`
	Seasonal  int    `json:"seasonal_rows"`
}

func newSeedCmd(a *app) *cobra.Command {
	var (
		opts    sqlstore.FakeOptions
		end     string
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the SQL mirror with synthetic sales data",
		Long: `Generate a consistent synthetic dataset and replace the content of every
mirror table with it. Requires warehouse.backend = "sql".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if cfg.Warehouse.Backend != config.WarehouseSQL {
				return errors.New(`seed needs warehouse.backend = "sql"`)
			}
			if end != "" {
				t, err := time.Parse("2006-01", end)
				if err != nil {
					return errors.New("--end must be YYYY-MM")
				}
				opts.End = t
			}
			log, err := a.logger()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()
			store, err := bootstrap.OpenSQLStore(cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if migrate || cfg.SQL.Driver == sqlstore.DriverSQLite {
				if err := store.AutoMigrate(); err != nil {
					return err
				}
			}

			ds := sqlstore.GenerateDataset(opts)
			if err := store.Replace(ctx, ds); err != nil {
				return err
			}
			log.Info("Mirror seeded", zap.Uint64("seed", opts.Seed), zap.Int("sales_rows", len(ds.Sales)))

			return a.print(seedSummary{
				Driver:    cfg.SQL.Driver,
				Seed:      opts.Seed,
				KPIMonths: len(ds.KPIs),
				Customers: len(ds.Customers),
				Products:  len(ds.Products),
				SalesRows: len(ds.Sales),
				Pairs:     len(ds.Basket),
				Seasonal:  len(ds.Seasonal),
			})
		},
	}
	f := cmd.Flags()
	f.Uint64Var(&opts.Seed, "seed", 1, "Random seed")
	f.IntVar(&opts.Customers, "customers", 50, "Number of customers")
	f.IntVar(&opts.Products, "products", 20, "Number of products")
	f.IntVar(&opts.Months, "months", 24, "Months of history")
	f.StringVar(&end, "end", "", "Last month of history (YYYY-MM, default current month)")
	f.BoolVar(&migrate, "migrate", false, "Create missing tables from the models first")
	return cmd
}
