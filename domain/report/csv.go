package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

var csvHeader = []string{"Date", "Title", "Influencer", "Platform", "Status"}

// WriteCSV writes rows as ';' separated CSV with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.StartAt, r.Title, r.Influencer, r.Platform, r.StatusLabel}); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
