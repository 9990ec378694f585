// Package xlsx reads the festival dataset from an Excel workbook and writes
// festival reports back out as workbooks.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/festival-guide/internal/domain"
	"github.com/xuri/excelize/v2"
)

// EncodingXLSX is reported as the table encoding for workbook sources.
const EncodingXLSX = "xlsx"

// Reader loads the first sheet of a workbook into a domain.Table, using the
// first row as headers.
type Reader struct {
	path string
}

// NewReader creates a workbook Reader for path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Load opens the workbook and reads its first sheet.
func (r *Reader) Load(ctx context.Context) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open workbook %s: %w", r.path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return domain.Table{}, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return domain.Table{}, fmt.Errorf("sheet %q is empty", sheet)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	tbl := domain.Table{Headers: headers, Encoding: EncodingXLSX}
	for _, row := range rows[1:] {
		// GetRows drops trailing empty cells, so pad to the header width.
		cells := make([]string, len(headers))
		copy(cells, row)
		tbl.Rows = append(tbl.Rows, cells)
	}
	return tbl, nil
}
