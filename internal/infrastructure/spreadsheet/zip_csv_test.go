package spreadsheet

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"testing"
	"time"

	"github.com/oakline/ledger/internal/application/export"
	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readSheet(t *testing.T, f *zip.File, comma rune) [][]string {
	t.Helper()
	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	r.Comma = comma
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestSheetFileName(t *testing.T) {
	tests := []struct {
		index    int
		name     string
		expected string
	}{
		{0, "Summary", "01-summary.csv"},
		{3, "Client Payments", "04-client-payments.csv"},
		{6, "Variable Costs", "07-variable-costs.csv"},
		{9, "  Odd / Name ", "10-odd-name.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SheetFileName(tt.index, tt.name))
	}
}

func TestZipCSVRenderer_Render(t *testing.T) {
	wb := export.Workbook{
		GeneratedAt: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
		Sheets: []export.Sheet{
			{Name: "Summary", Header: []string{"Metric", "Value"}, Rows: [][]string{{"Net profit", "£1,200.00"}}},
			{Name: "Client Payments", Header: []string{"Date", "Description"}, Rows: [][]string{
				{"2025-01-10", "Deposit, kitchen"},
				{"2025-01-20", `Says "thanks"`},
			}},
		},
	}

	var buf bytes.Buffer
	r := NewZipCSVRenderer()
	require.NoError(t, r.Render(&buf, wb))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "01-summary.csv", zr.File[0].Name)
	assert.Equal(t, "02-client-payments.csv", zr.File[1].Name)

	summary := readSheet(t, zr.File[0], ',')
	assert.Equal(t, [][]string{{"Metric", "Value"}, {"Net profit", "£1,200.00"}}, summary)

	payments := readSheet(t, zr.File[1], ',')
	require.Len(t, payments, 3)
	assert.Equal(t, "Deposit, kitchen", payments[1][1])
	assert.Equal(t, `Says "thanks"`, payments[2][1])

	assert.Equal(t, "application/zip", r.ContentType())
	assert.Equal(t, ".zip", r.Extension())
}

func TestZipCSVRenderer_Options(t *testing.T) {
	wb := export.Workbook{Sheets: []export.Sheet{{Name: "Projects", Header: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}}}

	var buf bytes.Buffer
	require.NoError(t, NewZipCSVRenderer(WithDelimiter(';'), WithBOM(false)).Render(&buf, wb))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()

	assert.Equal(t, "a;b\n1;2\n", string(raw))
}

func TestZipCSVRenderer_FullWorkbook(t *testing.T) {
	state := ledger.EmptyState()
	state.OperationalCosts = ledger.DefaultOperationalCosts()

	var buf bytes.Buffer
	require.NoError(t, NewZipCSVRenderer().Render(&buf, export.BuildWorkbook(state, time.Now())))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"01-summary.csv",
		"02-projects.csv",
		"03-valuations.csv",
		"04-client-payments.csv",
		"05-supplier-costs.csv",
		"06-fixed-costs.csv",
		"07-variable-costs.csv",
	}, names)

	fixed := readSheet(t, zr.File[5], ',')
	assert.Greater(t, len(fixed), 1)
}
