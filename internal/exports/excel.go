package exports

import (
	"blotter-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

var reportColumns = []string{
	"Case Number", "Incident Type", "Incident Date", "Incident Time",
	"Location", "Status", "Priority", "Assigned Officer", "Complainant", "Filed By",
}

func reportRow(r models.Report) []interface{} {
	return []interface{}{
		r.CaseNumber, r.IncidentType, r.IncidentDate, r.IncidentTime,
		r.IncidentLocation, string(r.Status), string(r.Priority),
		r.AssignedOfficer, r.ComplainantName, r.FiledBy,
	}
}

// writeExcel renders the report list as an .xlsx workbook at path.
func writeExcel(path, title string, reports []models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Reports"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F5496"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", title)
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	for i, col := range reportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(sheet, cell, col)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(reportColumns), 3)
	f.SetCellStyle(sheet, "A3", lastHeader, headerStyle)

	for rowIdx, r := range reports {
		for colIdx, v := range reportRow(r) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+4)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "B", 20)
	f.SetColWidth(sheet, "C", "J", 18)

	return f.SaveAs(path)
}
