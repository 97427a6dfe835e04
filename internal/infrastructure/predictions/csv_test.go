package predictions

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
)

func TestDecodeCSV(t *testing.T) {
	t.Run("canonical headers", func(t *testing.T) {
		in := "Customer_ID,Product_code,predicted_quantity,confidence_score\n" +
			"C-1,P-1,120.5,0.87\n" +
			"C-2,P-1,n/a,\n"
		set, err := DecodeCSV(strings.NewReader(in), "2025_07", "bucket/key.csv")
		require.NoError(t, err)
		require.Len(t, set.Rows, 2)
		assert.Equal(t, "bucket/key.csv", set.Source)

		first := set.Rows[0]
		assert.Equal(t, "C-1", first.CustomerID)
		assert.Equal(t, "P-1", first.ProductCode)
		require.NotNil(t, first.PredictedQuantity)
		assert.Equal(t, 120.5, *first.PredictedQuantity)
		require.NotNil(t, first.Confidence)
		assert.Equal(t, 0.87, *first.Confidence)

		assert.Nil(t, set.Rows[1].PredictedQuantity)
		assert.Nil(t, set.Rows[1].Confidence)
	})

	t.Run("alternate headers with BOM", func(t *testing.T) {
		in := "\ufeffcustomer,product,forecast,score\nC-9, P-3 ,7,91\n"
		set, err := DecodeCSV(strings.NewReader(in), "2025_06", "")
		require.NoError(t, err)
		require.Len(t, set.Rows, 1)
		assert.Equal(t, "C-9", set.Rows[0].CustomerID)
		assert.Equal(t, "P-3", set.Rows[0].ProductCode)
		assert.Equal(t, 7.0, *set.Rows[0].PredictedQuantity)
		assert.Equal(t, 91.0, *set.Rows[0].Confidence)
	})

	t.Run("first candidate wins", func(t *testing.T) {
		in := "customer,Customer_ID,Product_code,prediction,predicted_quantity\nlow,HIGH,P-1,1,2\n"
		set, err := DecodeCSV(strings.NewReader(in), "2025_06", "")
		require.NoError(t, err)
		assert.Equal(t, "HIGH", set.Rows[0].CustomerID)
		assert.Equal(t, 2.0, *set.Rows[0].PredictedQuantity)
	})

	t.Run("non-finite values stay nil", func(t *testing.T) {
		in := "Customer_ID,Product_code,predicted_quantity,confidence_score\n" +
			"C-1,P-1,NaN,nan\n" +
			"C-2,P-1,inf,+Inf\n" +
			"C-3,P-1,-Infinity,0.5\n"
		set, err := DecodeCSV(strings.NewReader(in), "2025_07", "")
		require.NoError(t, err)
		require.Len(t, set.Rows, 3)
		for _, row := range set.Rows {
			assert.Nil(t, row.PredictedQuantity, row.CustomerID)
		}
		assert.Nil(t, set.Rows[0].Confidence)
		assert.Nil(t, set.Rows[1].Confidence)
		require.NotNil(t, set.Rows[2].Confidence)

		_, err = json.Marshal(set)
		assert.NoError(t, err)
	})

	t.Run("no prediction column keeps nil values", func(t *testing.T) {
		set, err := DecodeCSV(strings.NewReader("Customer_ID,Product_code\nC-1,P-1\n"), "2025_06", "")
		require.NoError(t, err)
		require.Len(t, set.Rows, 1)
		assert.Nil(t, set.Rows[0].PredictedQuantity)
	})

	t.Run("missing product column", func(t *testing.T) {
		_, err := DecodeCSV(strings.NewReader("Customer_ID,predicted_quantity\nC-1,3\n"), "2025_06", "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := DecodeCSV(strings.NewReader(""), "2025_06", "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
