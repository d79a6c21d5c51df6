package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"katgen/internal/core/domain"
	"katgen/internal/core/ports"
)

// CSVReader parses delimited text exports. Polish spreadsheet tools
// commonly export with a semicolon, so the delimiter is sniffed from
// the header line.
type CSVReader struct{}

// NewCSVReader creates a new csv reader
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// Ensure it implements the interface
var _ ports.SpreadsheetReader = (*CSVReader)(nil)

// Read parses the delimited bytes into a Table.
func (r *CSVReader) Read(ctx context.Context, data []byte) (*domain.Table, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv file is empty")
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

// sniffDelimiter picks ';' when the header line carries semicolons
// and no commas, ',' otherwise.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.ContainsRune(line, ';') && !bytes.ContainsRune(line, ',') {
		return ';'
	}
	return ','
}

// ForFile returns the reader matching a spreadsheet filename
// extension, defaulting to xlsx.
func ForFile(filename string) ports.SpreadsheetReader {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return NewCSVReader()
	default:
		return NewXLSXReader()
	}
}
