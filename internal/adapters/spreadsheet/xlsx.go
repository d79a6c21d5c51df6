package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"katgen/internal/core/domain"
	"katgen/internal/core/ports"
)

// XLSXReader parses .xlsx workbooks with excelize. The first sheet is
// the data sheet and its first row holds the column headers.
type XLSXReader struct{}

// NewXLSXReader creates a new xlsx reader
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

// Ensure it implements the interface
var _ ports.SpreadsheetReader = (*XLSXReader)(nil)

// Read parses the workbook bytes into a Table.
func (r *XLSXReader) Read(ctx context.Context, data []byte) (*domain.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &domain.Table{Headers: headers}
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, padRow(row, len(headers)))
	}

	return table, nil
}

// padRow widens a ragged row to the header width.
func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
