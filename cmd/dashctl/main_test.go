package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func sqliteEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DASH_WAREHOUSE_BACKEND", "sql")
	t.Setenv("DASH_SQL_DRIVER", "sqlite")
	t.Setenv("DASH_SQL_PATH", filepath.Join(dir, "mirror.db"))
	t.Setenv("DASH_STORAGE_BACKEND", "file")
	t.Setenv("DASH_STORAGE_LOCAL_DIR", dir)
	t.Setenv("DASH_CACHE_BACKEND", "memory")
}

func TestPrinter(t *testing.T) {
	v := map[string]any{"month": "2025-06", "orders": 12}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		p, err := newPrinter("json")
		require.NoError(t, err)
		require.NoError(t, p.Print(&buf, v))
		assert.JSONEq(t, `{"month":"2025-06","orders":12}`, buf.String())
	})

	t.Run("yaml uses json names", func(t *testing.T) {
		type row struct {
			ReportMonth string `json:"report_month"`
		}
		var buf bytes.Buffer
		p, err := newPrinter("yaml")
		require.NoError(t, err)
		require.NoError(t, p.Print(&buf, []row{{ReportMonth: "June 2025"}}))
		assert.Equal(t, "- report_month: June 2025\n", buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := newPrinter("xml")
		assert.Error(t, err)
	})
}

func TestHashKeyCmd(t *testing.T) {
	out, err := run(t, "s3cret\n", "hash-key")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err = run(t, "", "hash-key")
	assert.Error(t, err)
}

func TestSeedThenQuery(t *testing.T) {
	sqliteEnv(t)

	out, err := run(t, "", "seed", "--seed", "3", "--customers", "20", "--products", "8", "--months", "12", "--end", "2025-06")
	require.NoError(t, err)
	var summary seedSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "sqlite", summary.Driver)
	assert.Positive(t, summary.SalesRows)
	assert.Positive(t, summary.KPIMonths)

	out, err = run(t, "", "kpis", "--month", "latest", "-o", "yaml")
	require.NoError(t, err)
	var kpi map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &kpi))
	assert.Equal(t, "2025-06", kpi["key"])

	out, err = run(t, "", "months")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	_, err = run(t, "", "kpis", "--month", "2031-01")
	assert.Error(t, err)
}

func TestSeedRequiresSQLBackend(t *testing.T) {
	t.Setenv("DASH_WAREHOUSE_BACKEND", "bigquery")
	_, err := run(t, "", "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warehouse.backend")
}

func TestRefreshRejectsUnknownDataset(t *testing.T) {
	_, err := run(t, "", "refresh", "everything")
	assert.Error(t, err)
}

func TestBadOutputFormat(t *testing.T) {
	_, err := run(t, "", "hash-key", "abc", "-o", "xml")
	assert.Error(t, err)
}
