package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// Trend detection looks at the last three months against everything before
const (
	trendWindow       = 3
	trendUpFactor     = 1.1
	trendDownFactor   = 0.9
	rangeMinHistory   = 12
	unknownProductTag = "Unknown Product"
)

// Prediction is one row of an exported forecast file
type Prediction struct {
	CustomerID        string   `json:"customer_id"`
	ProductCode       string   `json:"product_code"`
	PredictedQuantity *float64 `json:"predicted_quantity"`
	Confidence        *float64 `json:"confidence"`
}

// PredictionSet is the decoded content of one month's export
type PredictionSet struct {
	Month  PredictionMonth `json:"month"`
	Source string          `json:"source"`
	Rows   []Prediction    `json:"rows"`
}

// Find returns the first prediction for a customer and product
func (s *PredictionSet) Find(customerID, productCode string) (Prediction, bool) {
	for _, r := range s.Rows {
		if r.CustomerID == customerID && r.ProductCode == productCode {
			return r, true
		}
	}
	return Prediction{}, false
}

// ProductPrediction is a product's predicted demand summed across customers
type ProductPrediction struct {
	Month                  PredictionMonth `json:"month"`
	ProductCode            string          `json:"product_code"`
	TotalPredictedQuantity float64         `json:"total_predicted_quantity"`
	Customers              int             `json:"customers"`
}

// ProductTotal sums the non-null predictions of a product. ok is false when
// no row carries a prediction for the product.
func (s *PredictionSet) ProductTotal(productCode string) (ProductPrediction, bool) {
	pp := ProductPrediction{Month: s.Month, ProductCode: productCode}
	for _, r := range s.Rows {
		if r.ProductCode != productCode || r.PredictedQuantity == nil {
			continue
		}
		pp.TotalPredictedQuantity += *r.PredictedQuantity
		pp.Customers++
	}
	return pp, pp.Customers > 0
}

// HistoricalPoint is one month of a customer's purchases of a product
type HistoricalPoint struct {
	YearMonth    string          `json:"year_month"`
	QuantitySold float64         `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// CustomerProductOption is a customer-product combination with sales history
type CustomerProductOption struct {
	CustomerID  string `json:"customer_id"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name,omitempty"`
}

// Display renders "<code> - <name>", naming missing products "Unknown Product"
func (o CustomerProductOption) Display() string {
	name := o.ProductName
	if name == "" {
		name = unknownProductTag
	}
	return o.ProductCode + " - " + name
}

// DistinctCustomers returns the sorted set of customers in the options
func DistinctCustomers(options []CustomerProductOption) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, o := range options {
		if _, ok := seen[o.CustomerID]; ok {
			continue
		}
		seen[o.CustomerID] = struct{}{}
		out = append(out, o.CustomerID)
	}
	sort.Strings(out)
	return out
}

// ProductsForCustomer returns the products a customer has bought, sorted by code
func ProductsForCustomer(options []CustomerProductOption, customerID string) []CustomerProductOption {
	out := make([]CustomerProductOption, 0)
	for _, o := range options {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProductCode < out[j].ProductCode })
	return out
}

// Trend is the recent direction of a demand series
type Trend string

const (
	TrendUpward   Trend = "upward"
	TrendDownward Trend = "downward"
	TrendStable   Trend = "stable"
)

// DetectTrend compares the mean of the last three points with the mean of
// the earlier ones. With exactly three points the series is its own baseline.
// ok is false with fewer than three points.
func DetectTrend(quantities []float64) (trend Trend, ok bool) {
	n := len(quantities)
	if n < trendWindow {
		return "", false
	}
	recent := mean(quantities[n-trendWindow:])
	older := recent
	if n > trendWindow {
		older = mean(quantities[:n-trendWindow])
	}
	switch {
	case recent > older*trendUpFactor:
		return TrendUpward, true
	case recent < older*trendDownFactor:
		return TrendDownward, true
	default:
		return TrendStable, true
	}
}

// QuantityRange is the observed monthly min and max
type QuantityRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Forecast combines a customer-product history with its prediction
type Forecast struct {
	Month             PredictionMonth   `json:"month"`
	MonthLabel        string            `json:"month_label"`
	CustomerID        string            `json:"customer_id"`
	ProductCode       string            `json:"product_code"`
	History           []HistoricalPoint `json:"history"`
	HistoricalAverage float64           `json:"historical_average"`
	Prediction        *float64          `json:"prediction"`
	ChangePct         *float64          `json:"change_vs_average_pct"`
	Confidence        *float64          `json:"confidence"`
	ConfidenceDisplay string            `json:"confidence_display"`
	Trend             Trend             `json:"trend,omitempty"`
	Range             *QuantityRange    `json:"range,omitempty"`
}

// BuildForecast derives the forecast summary. An empty history is an error.
func BuildForecast(month PredictionMonth, customerID, productCode string, history []HistoricalPoint, pred *Prediction) (*Forecast, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("no purchase history for customer %s and product %s", customerID, productCode)
	}
	qty := make([]float64, len(history))
	for i, h := range history {
		qty[i] = h.QuantitySold
	}

	f := &Forecast{
		Month:             month,
		MonthLabel:        month.Label(),
		CustomerID:        customerID,
		ProductCode:       productCode,
		History:           history,
		HistoricalAverage: mean(qty),
		ConfidenceDisplay: NotAvailable,
	}
	if pred != nil {
		f.Prediction = pred.PredictedQuantity
		f.Confidence = pred.Confidence
	}
	if f.Prediction != nil && f.HistoricalAverage > 0 {
		change := (*f.Prediction - f.HistoricalAverage) / f.HistoricalAverage * 100
		f.ChangePct = &change
	}
	if f.Confidence != nil {
		f.ConfidenceDisplay = FormatConfidence(*f.Confidence)
	}
	if trend, ok := DetectTrend(qty); ok {
		f.Trend = trend
	}
	if len(qty) >= rangeMinHistory {
		f.Range = &QuantityRange{Min: floats.Min(qty), Max: floats.Max(qty)}
	}
	return f, nil
}

// FormatConfidence shows scores in [0, 1] as a percentage and larger scores as-is
func FormatConfidence(c float64) string {
	if c <= 1 {
		return fmt.Sprintf("%.1f%%", c*100)
	}
	return fmt.Sprintf("%.1f", c)
}
