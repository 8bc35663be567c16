package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oakline/ledger/internal/application/dashboard"
	"github.com/oakline/ledger/internal/bootstrap"
	"github.com/oakline/ledger/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testOpener(t *testing.T) Opener {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Name: "ledger", Env: "development"},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			Path:         filepath.Join(t.TempDir(), "ledger.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			LogLevel:     "silent",
		},
		Export: config.ExportConfig{Delay: time.Hour, RequestTimeout: time.Second, ConfigStore: "memory"},
	}

	// seed one project through a separate open
	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, app.Store.Load(ctx))
	_, err = app.Store.AddProject(ctx, dashboard.CreateProjectInput{Code: "CLI-1", ClientName: "Harper"})
	require.NoError(t, err)
	app.Close(ctx)

	return func(ctx context.Context) (*bootstrap.App, error) {
		return bootstrap.New(ctx, cfg, zap.NewNop())
	}
}

func run(t *testing.T, open Opener, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(open, "test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func failingOpener(context.Context) (*bootstrap.App, error) {
	return nil, errors.New("no database")
}

func TestPreviewCmd(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		out, err := run(t, failingOpener, "preview", "--value", "10000", "--plan", "account_cp")
		require.NoError(t, err)
		assert.Contains(t, out, "Upfront")
		assert.Contains(t, out, "£1,200.00")
		assert.Contains(t, out, "£6,000.00")
		assert.Contains(t, out, "£4,000.00")
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, failingOpener, "preview", "--value", "500", "--json")
		require.NoError(t, err)
		var breakdown struct {
			Plan         string          `json:"plan"`
			AccountTotal decimal.Decimal `json:"accountTotal"`
			CashTotal    decimal.Decimal `json:"cashTotal"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &breakdown))
		assert.Equal(t, "full_account", breakdown.Plan)
		assert.Equal(t, "500", breakdown.AccountTotal.String())
		assert.True(t, breakdown.CashTotal.IsZero())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := run(t, failingOpener, "preview", "--value", "lots")
		assert.Error(t, err)

		_, err = run(t, failingOpener, "preview", "--value", "100", "--plan", "weekly")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "weekly")
	})
}

func TestSummaryCmd(t *testing.T) {
	open := testOpener(t)

	out, err := run(t, open, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Active Projects")
	assert.Contains(t, out, "Net Profit")

	out, err = run(t, open, "summary", "--json")
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.EqualValues(t, 1, summary["projectCount"])

	_, err = run(t, failingOpener, "summary")
	assert.EqualError(t, err, "no database")
}

func TestWorkbookCmd(t *testing.T) {
	open := testOpener(t)

	dir := t.TempDir()
	out, err := run(t, open, "workbook", "--out", dir)
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".zip"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))

	explicit := filepath.Join(dir, "ledger.zip")
	_, err = run(t, open, "workbook", "-o", explicit)
	require.NoError(t, err)
	assert.FileExists(t, explicit)

	_, err = run(t, open, "workbook", "--publish")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage is not configured")
}

func TestSyncCmd_NotConfigured(t *testing.T) {
	_, err := run(t, testOpener(t), "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No export endpoint")
}
