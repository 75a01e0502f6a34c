// Package table provides the row/column model for capture spreadsheets and
// the excelize-backed load, concatenate and write operations over it.
package table

// Table is an in-memory row/column view of one spreadsheet sheet. Cells are
// kept as strings; numeric interpretation is deferred to consumers.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NumRows returns the number of data rows (excluding the header).
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col), or "" when the row is ragged and
// does not reach that column.
func (t *Table) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Concat combines tables row-wise in order, unioning columns by name.
//
// Columns appear in first-seen order across the inputs. Rows from a table
// missing some union column get empty strings there. Row order is table
// order, then original row order within each table. Nil and empty tables
// contribute nothing.
func Concat(tables []*Table) *Table {
	combined := &Table{}
	colIndex := make(map[string]int)

	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := colIndex[c]; !ok {
				colIndex[c] = len(combined.Columns)
				combined.Columns = append(combined.Columns, c)
			}
		}
	}

	for _, t := range tables {
		if t == nil {
			continue
		}
		for i := range t.Rows {
			row := make([]string, len(combined.Columns))
			for j, c := range t.Columns {
				row[colIndex[c]] = t.Cell(i, j)
			}
			combined.Rows = append(combined.Rows, row)
		}
	}

	return combined
}
