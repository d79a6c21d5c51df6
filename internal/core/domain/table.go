package domain

// Table is the raw tabular content of an uploaded spreadsheet:
// trimmed headers plus string cell rows. Rows may be ragged; Cell
// treats out-of-range columns as empty.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the value at (row, col) or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// ColumnIndex returns the position of a header, or -1.
func (t *Table) ColumnIndex(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}
