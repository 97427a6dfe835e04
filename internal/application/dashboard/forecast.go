package dashboard

import (
	"context"
	"fmt"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
)

// MonthOption is a selectable prediction month
type MonthOption struct {
	Month analytics.PredictionMonth `json:"month"`
	Label string                    `json:"label"`
}

// ProductOption is a product a customer has bought
type ProductOption struct {
	Code    string `json:"product_code"`
	Name    string `json:"product_name"`
	Display string `json:"display"`
}

// PredictionMonths lists the months with an export, latest first
func (s *Service) PredictionMonths(ctx context.Context) ([]MonthOption, error) {
	months, err := s.predictionMonths(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MonthOption, len(months))
	for i, m := range months {
		out[i] = MonthOption{Month: m, Label: m.Label()}
	}
	return out, nil
}

// ForecastCustomers lists customers with purchase history
func (s *Service) ForecastCustomers(ctx context.Context) ([]string, error) {
	options, err := s.options(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.DistinctCustomers(options), nil
}

// CustomerProducts lists the products a customer has bought
func (s *Service) CustomerProducts(ctx context.Context, customerID string) ([]ProductOption, error) {
	options, err := s.options(ctx)
	if err != nil {
		return nil, err
	}
	products := analytics.ProductsForCustomer(options, customerID)
	if len(products) == 0 {
		return nil, shared.NotFound(fmt.Sprintf("No purchase history for customer %s", customerID))
	}
	out := make([]ProductOption, len(products))
	for i, p := range products {
		out[i] = ProductOption{Code: p.ProductCode, Name: p.ProductName, Display: p.Display()}
	}
	return out, nil
}

// Forecast joins a customer-product purchase history with the prediction
// for the month
func (s *Service) Forecast(ctx context.Context, month, customerID, productCode string) (*analytics.Forecast, error) {
	m, err := analytics.ParsePredictionMonth(month)
	if err != nil {
		return nil, shared.InvalidInput(err.Error())
	}
	if customerID == "" || productCode == "" {
		return nil, shared.InvalidInput("customer and product are required")
	}

	set, err := s.predictionSet(ctx, m)
	if err != nil {
		return nil, err
	}

	history, err := s.customerHistory(ctx, customerID, productCode)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, shared.NotFound(fmt.Sprintf("No historical data for customer %s and product %s", customerID, productCode))
	}
	var pred *analytics.Prediction
	if p, ok := set.Find(customerID, productCode); ok {
		pred = &p
	}
	return analytics.BuildForecast(m, customerID, productCode, history, pred)
}
