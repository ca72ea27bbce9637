package export

import (
	"fmt"
	"io"

	"github.com/grvbrk/ytcomments/internal/models"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Yorumlar"

// WriteXLSX writes the same table as WriteCSV into a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []models.ExportRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRow(f, 1, Header); err != nil {
		return err
	}
	for i, r := range rows {
		if err := writeRow(f, i+2, record(r)); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, rowIndex int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("write xlsx row %d: %w", rowIndex, err)
	}
	return nil
}
