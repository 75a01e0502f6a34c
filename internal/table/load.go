package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Load reads the first sheet of an .xlsx/.xls workbook into a Table.
//
// The first row is taken as the header; remaining rows are data. An empty
// sheet yields an empty table. Any open or read failure is returned as an
// error; callers treat it as a recoverable per-file loss.
func Load(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in workbook %s", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	t := &Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
