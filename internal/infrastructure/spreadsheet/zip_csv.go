// Package spreadsheet renders export workbooks as a zip archive holding one
// CSV file per sheet.
package spreadsheet

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/oakline/ledger/internal/application/export"
)

// utf8BOM lets spreadsheet applications detect the encoding
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ZipCSVRenderer implements export.WorkbookRenderer
type ZipCSVRenderer struct {
	delimiter rune
	bom       bool
}

// RendererOption is a functional option for ZipCSVRenderer configuration
type RendererOption func(*ZipCSVRenderer)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) RendererOption {
	return func(r *ZipCSVRenderer) {
		r.delimiter = d
	}
}

// WithBOM controls whether each sheet starts with a UTF-8 byte order mark (default true)
func WithBOM(enabled bool) RendererOption {
	return func(r *ZipCSVRenderer) {
		r.bom = enabled
	}
}

// NewZipCSVRenderer creates a renderer
func NewZipCSVRenderer(opts ...RendererOption) *ZipCSVRenderer {
	r := &ZipCSVRenderer{delimiter: ',', bom: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes wb to w. Sheets keep their order and are numbered so they
// sort the same way when extracted.
func (r *ZipCSVRenderer) Render(w io.Writer, wb export.Workbook) error {
	zw := zip.NewWriter(w)
	for i, sheet := range wb.Sheets {
		header := &zip.FileHeader{
			Name:     SheetFileName(i, sheet.Name),
			Method:   zip.Deflate,
			Modified: wb.GeneratedAt,
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet.Name, err)
		}
		if err := r.writeSheet(fw, sheet); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet.Name, err)
		}
	}
	return zw.Close()
}

func (r *ZipCSVRenderer) writeSheet(w io.Writer, sheet export.Sheet) error {
	if r.bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	cw.Comma = r.delimiter
	if len(sheet.Header) > 0 {
		if err := cw.Write(sheet.Header); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(sheet.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// ContentType implements export.WorkbookRenderer
func (r *ZipCSVRenderer) ContentType() string {
	return "application/zip"
}

// Extension implements export.WorkbookRenderer
func (r *ZipCSVRenderer) Extension() string {
	return ".zip"
}

// SheetFileName returns the archive entry for the index-th sheet,
// e.g. "04-client-payments.csv"
func SheetFileName(index int, name string) string {
	var b strings.Builder
	dash := false
	for _, c := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(c)
		default:
			dash = true
		}
	}
	return fmt.Sprintf("%02d-%s.csv", index+1, b.String())
}

var _ export.WorkbookRenderer = (*ZipCSVRenderer)(nil)
