package exports

import (
	"fmt"
	"time"

	"blotter-backend/internal/models"

	"github.com/go-pdf/fpdf"
)

// writeReportListPDF renders a tabular case listing.
func writeReportListPDF(path, title string, reports []models.Report) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	headers := []string{"Case Number", "Type", "Date", "Location", "Status", "Priority", "Officer"}
	widths := []float64{42, 38, 24, 60, 26, 24, 45}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(47, 84, 150)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	for _, r := range reports {
		pdf.SetFillColor(240, 243, 248)
		cells := []string{
			r.CaseNumber, r.IncidentType, r.IncidentDate,
			r.IncidentLocation, string(r.Status), string(r.Priority), r.AssignedOfficer,
		}
		for i, v := range cells {
			pdf.CellFormat(widths[i], 7, v, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	pdf.SetFont("Arial", "I", 8)
	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("Total cases: %d", len(reports)))

	return pdf.OutputFileAndClose(path)
}

// writeCasePDF renders a single case as a printable blotter sheet.
func writeCasePDF(path string, report models.Report, suspects []models.Suspect, witnesses []models.Witness, evidence []models.Evidence) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Blotter Report "+report.CaseNumber)
	pdf.Ln(12)

	field := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(45, 7, label)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 7, value, "", "L", false)
	}

	field("Incident Type:", report.IncidentType)
	field("Date / Time:", report.IncidentDate+" "+report.IncidentTime)
	field("Location:", report.IncidentLocation)
	field("Status:", string(report.Status))
	field("Priority:", string(report.Priority))
	field("Assigned Officer:", report.AssignedOfficer)
	field("Complainant:", report.ComplainantName)
	field("Contact:", report.ComplainantContact)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Narrative")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, report.Narrative, "", "L", false)
	pdf.Ln(4)

	section := func(name string, rows []string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, name)
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		if len(rows) == 0 {
			pdf.Cell(0, 6, "None recorded")
			pdf.Ln(8)
			return
		}
		for _, row := range rows {
			pdf.MultiCell(0, 6, "- "+row, "", "L", false)
		}
		pdf.Ln(4)
	}

	var suspectRows []string
	for _, s := range suspects {
		suspectRows = append(suspectRows, s.Name+" "+s.Description)
	}
	var witnessRows []string
	for _, w := range witnesses {
		witnessRows = append(witnessRows, w.Name+" "+w.Statement)
	}
	var evidenceRows []string
	for _, e := range evidence {
		evidenceRows = append(evidenceRows, e.EvidenceType+": "+e.Description)
	}

	section("Suspects", suspectRows)
	section("Witnesses", witnessRows)
	section("Evidence", evidenceRows)

	return pdf.OutputFileAndClose(path)
}
