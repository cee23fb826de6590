package exports

import (
	"encoding/csv"
	"fmt"
	"os"

	"blotter-backend/internal/models"
)

// writeCSV renders the report list as a CSV file at path.
func writeCSV(path string, reports []models.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(reportColumns); err != nil {
		return err
	}
	for _, r := range reports {
		row := make([]string, 0, len(reportColumns))
		for _, v := range reportRow(r) {
			row = append(row, fmt.Sprint(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
