package predictions

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/analytics"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/objectstore"
)

const testPrefix = "streamlit_exports/predictions_"

func newTestRepository(t *testing.T, files map[string]string) *Repository {
	t.Helper()
	root := t.TempDir()
	for key, content := range files {
		p := filepath.Join(root, filepath.FromSlash(key))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	store, err := objectstore.NewFileStore(root)
	require.NoError(t, err)
	return NewRepository(store, testPrefix, zaptest.NewLogger(t))
}

func TestRepository_ListMonths(t *testing.T) {
	repo := newTestRepository(t, map[string]string{
		"streamlit_exports/predictions_2025_07_20250801.csv": "",
		"streamlit_exports/predictions_2025_07_20250802.csv": "",
		"streamlit_exports/predictions_2025_05_20250601.csv": "",
		"streamlit_exports/predictions_2025_13_20250601.csv": "",
		"streamlit_exports/predictions_2025_06_20250701.json": "",
		"streamlit_exports/predictions_latest.csv":            "",
	})

	months, err := repo.ListMonths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []analytics.PredictionMonth{"2025_07", "2025_05"}, months)
}

func TestRepository_LoadMonth(t *testing.T) {
	repo := newTestRepository(t, map[string]string{
		"streamlit_exports/predictions_2025_07_b.csv": "Customer_ID,Product_code,predicted_quantity\nC-1,P-1,99\n",
		"streamlit_exports/predictions_2025_07_a.csv": "Customer_ID,Product_code,predicted_quantity\nC-1,P-1,10\nC-2,P-1,5\n",
		"streamlit_exports/predictions_2025_06_a.csv": "predicted_quantity\n1\n",
	})
	ctx := context.Background()

	t.Run("first export in key order", func(t *testing.T) {
		set, err := repo.LoadMonth(ctx, "2025_07")
		require.NoError(t, err)
		assert.Equal(t, analytics.PredictionMonth("2025_07"), set.Month)
		require.Len(t, set.Rows, 2)
		assert.Equal(t, 10.0, *set.Rows[0].PredictedQuantity)
		assert.Contains(t, set.Source, "predictions_2025_07_a.csv")

		total, ok := set.ProductTotal("P-1")
		require.True(t, ok)
		assert.Equal(t, 15.0, total.TotalPredictedQuantity)
	})

	t.Run("month without export is being finalized", func(t *testing.T) {
		_, err := repo.LoadMonth(ctx, "2025_08")
		require.ErrorIs(t, err, shared.ErrNotFound)
		assert.Contains(t, err.Error(), "August 2025 are being finalized")
	})

	t.Run("export without key columns is rejected", func(t *testing.T) {
		_, err := repo.LoadMonth(ctx, "2025_06")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

type failingStore struct{}

func (failingStore) Bucket() string { return "broken" }
func (failingStore) Close() error { return nil }

func (failingStore) List(context.Context, string) ([]objectstore.ObjectInfo, error) {
	return nil, errors.New("permission denied")
}

func (failingStore) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}

func TestRepository_UpstreamFailure(t *testing.T) {
	repo := NewRepository(failingStore{}, testPrefix, nil)

	_, err := repo.ListMonths(context.Background())
	assert.ErrorIs(t, err, shared.ErrUpstream)

	_, err = repo.LoadMonth(context.Background(), "2025_07")
	assert.ErrorIs(t, err, shared.ErrUpstream)
}
