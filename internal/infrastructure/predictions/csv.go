package predictions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
)

// Header candidates, first match wins
var (
	customerColumns   = []string{"Customer_ID", "customer_id", "Customer", "customer"}
	productColumns    = []string{"Product_code", "product_code", "Product", "product"}
	predictionColumns = []string{"predicted_quantity", "prediction", "forecast", "quantity_predicted"}
	confidenceColumns = []string{"confidence_score", "confidence", "score"}
)

type columns struct {
	customer, product, prediction, confidence int
}

func resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	find := func(candidates []string) int {
		for _, c := range candidates {
			if i, ok := index[c]; ok {
				return i
			}
		}
		return -1
	}

	cols := columns{
		customer:   find(customerColumns),
		product:    find(productColumns),
		prediction: find(predictionColumns),
		confidence: find(confidenceColumns),
	}
	if cols.customer < 0 || cols.product < 0 {
		return cols, shared.InvalidInput("prediction file has no customer or product column")
	}
	return cols, nil
}

// DecodeCSV reads an exported prediction file. Values that are empty or not
// numeric decode as nil.
func DecodeCSV(r io.Reader, month analytics.PredictionMonth, source string) (*analytics.PredictionSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, shared.InvalidInput("prediction file is empty")
	}
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeInvalidInput, "prediction file is not valid CSV", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	set := &analytics.PredictionSet{Month: month, Source: source}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, shared.WrapDomainError(shared.CodeInvalidInput,
				fmt.Sprintf("prediction file has a malformed row at line %d", line), err)
		}
		set.Rows = append(set.Rows, analytics.Prediction{
			CustomerID:        field(record, cols.customer),
			ProductCode:       field(record, cols.product),
			PredictedQuantity: number(record, cols.prediction),
			Confidence:        number(record, cols.confidence),
		})
	}
	return set, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func number(record []string, i int) *float64 {
	s := field(record, i)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
