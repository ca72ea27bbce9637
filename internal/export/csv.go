package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/grvbrk/ytcomments/internal/models"
)

// WriteCSV writes the header and one record per row, with CRLF line endings.
func WriteCSV(w io.Writer, rows []models.ExportRow) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
