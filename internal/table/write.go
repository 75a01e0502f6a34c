package table

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// Write serializes a table to an .xlsx workbook at path, header row first.
//
// Each column's display width is set to the longest of its header and cell
// values plus one unit of padding. The width adjustment is cosmetic; a
// failure there does not fail the write.
func Write(t *Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(sheetName, "A1", &t.Columns); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to locate row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	autoSizeColumns(f, t)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func autoSizeColumns(f *excelize.File, t *Table) {
	for j, header := range t.Columns {
		width := len(header)
		for i := range t.Rows {
			if l := len(t.Cell(i, j)); l > width {
				width = l
			}
		}
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			continue
		}
		// +1 keeps a little breathing room past the longest value.
		f.SetColWidth(sheetName, col, col, float64(width+1))
	}
}
