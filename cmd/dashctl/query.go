package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/scheduler"
)

func newMonthsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List the months with prediction exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()
			d, err := a.dashboard(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()

			months, err := d.Service.PredictionMonths(ctx)
			if err != nil {
				return err
			}
			return a.print(months)
		},
	}
}

func newKPIsCmd(a *app) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "kpis",
		Short: "Print monthly KPIs",
		Long:  "Print every month's KPIs, newest first, or a single month with --month (YYYY-MM or latest).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()
			d, err := a.dashboard(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()

			if month == "" {
				kpis, err := d.Service.ListKPIs(ctx)
				if err != nil {
					return err
				}
				return a.print(kpis)
			}
			if month == "latest" {
				month = ""
			}
			kpi, err := d.Service.GetMonth(ctx, month)
			if err != nil {
				return err
			}
			return a.print(kpi)
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to show (YYYY-MM or latest)")
	return cmd
}

func newForecastCmd(a *app) *cobra.Command {
	var month, customer, product string
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Show the demand forecast of a customer-product pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()
			d, err := a.dashboard(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()

			if month == "" {
				months, err := d.Service.PredictionMonths(ctx)
				if err != nil {
					return err
				}
				if len(months) == 0 {
					return errors.New("no prediction exports found; pass --month")
				}
				month = months[0].Month.String()
			}
			f, err := d.Service.Forecast(ctx, month, customer, product)
			if err != nil {
				return err
			}
			return a.print(f)
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Prediction month (YYYY_MM, default latest export)")
	cmd.Flags().StringVar(&customer, "customer", "", "Customer ID")
	cmd.Flags().StringVar(&product, "product", "", "Product code")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

type refreshResult struct {
	Dataset string `json:"dataset"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

func newRefreshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [dataset...]",
		Short: "Reload datasets into the cache",
		Long: `Invalidate and reload the named datasets (kpi, customers, products,
basket, predictions), or all of them when none are given. Only useful with a
shared cache backend such as redis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			datasets, err := scheduler.ParseDatasets(args)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd)
			defer cancel()
			d, err := a.dashboard(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()

			results := make([]refreshResult, 0, len(datasets))
			failed := 0
			for _, ds := range datasets {
				r := refreshResult{Dataset: string(ds), Status: string(scheduler.JobStatusSuccess)}
				if err := d.Service.Refresh(ctx, string(ds)); err != nil {
					r.Status = string(scheduler.JobStatusFailed)
					r.Error = err.Error()
					failed++
				}
				results = append(results, r)
			}
			if err := a.print(results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d datasets failed to refresh", failed, len(datasets))
			}
			return nil
		},
	}
}
