package exports

import (
	"fmt"
	"os"
	"path/filepath"

	"blotter-backend/internal/config"
	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Exporter writes export artifacts under the configured directory. Files are
// served back through the static /exports route.
type Exporter struct {
	Dir string
}

func NewExporter(cfg *config.Config) (*Exporter, error) {
	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &Exporter{Dir: cfg.ExportDir}, nil
}

func (e *Exporter) artifact(name string) (fullPath, urlPath string) {
	return filepath.Join(e.Dir, name), "/exports/" + name
}

func queryReports(q *gorm.DB, c *fiber.Ctx) *gorm.DB {
	if s := c.Query("status"); s != "" {
		q = q.Where("status = ?", s)
	}
	if c.Query("archived") != "true" {
		q = q.Where("is_archived = ?", false)
	}
	if from := c.Query("dateFrom"); from != "" {
		q = q.Where("incident_date >= ?", from)
	}
	if to := c.Query("dateTo"); to != "" {
		q = q.Where("incident_date <= ?", to)
	}
	return q
}

func exportResponse(c *fiber.Ctx, urlPath string, count int) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Export generated",
		"data": fiber.Map{
			"url":   urlPath,
			"count": count,
		},
	})
}

// selectedReports loads the explicitly requested cases, newest first.
func selectedReports(reportIDs []uint) ([]models.Report, error) {
	var reports []models.Report
	err := database.DB.Where("id IN ?", reportIDs).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

type selectionRequest struct {
	ReportIDs []uint `json:"reportIds"`
}

func parseSelection(c *fiber.Ctx) ([]models.Report, error) {
	var body selectionRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if len(body.ReportIDs) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "reportIds is required")
	}
	reports, err := selectedReports(body.ReportIDs)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not fetch reports")
	}
	if len(reports) == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "No matching reports found")
	}
	return reports, nil
}

// POST /api/exports/reports/excel with {"reportIds": [...]}
func (e *Exporter) SelectedExcelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reports, err := parseSelection(c)
		if err != nil {
			return err
		}
		full, urlPath := e.artifact(fmt.Sprintf("reports-%s.xlsx", uuid.NewString()))
		if err := writeExcel(full, "Blotter Reports", reports); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate Excel file")
		}
		return exportResponse(c, urlPath, len(reports))
	}
}

// POST /api/exports/reports/csv with {"reportIds": [...]}
func (e *Exporter) SelectedCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reports, err := parseSelection(c)
		if err != nil {
			return err
		}
		full, urlPath := e.artifact(fmt.Sprintf("reports-%s.csv", uuid.NewString()))
		if err := writeCSV(full, reports); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate CSV file")
		}
		return exportResponse(c, urlPath, len(reports))
	}
}

// POST /api/exports/reports/pdf with {"reportIds": [...]}
func (e *Exporter) SelectedPDFHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reports, err := parseSelection(c)
		if err != nil {
			return err
		}
		full, urlPath := e.artifact(fmt.Sprintf("reports-%s.pdf", uuid.NewString()))
		if err := writeReportListPDF(full, "Blotter Reports", reports); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate PDF file")
		}
		return exportResponse(c, urlPath, len(reports))
	}
}

// GET /api/exports/reports/excel
func (e *Exporter) ReportsExcelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reports []models.Report
		if err := queryReports(database.DB.Model(&models.Report{}), c).
			Order("created_at DESC").Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch reports")
		}

		full, urlPath := e.artifact(fmt.Sprintf("reports-%s.xlsx", uuid.NewString()))
		if err := writeExcel(full, "Blotter Reports", reports); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate Excel file")
		}
		return exportResponse(c, urlPath, len(reports))
	}
}

// GET /api/exports/reports/csv
func (e *Exporter) ReportsCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reports []models.Report
		if err := queryReports(database.DB.Model(&models.Report{}), c).
			Order("created_at DESC").Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch reports")
		}

		full, urlPath := e.artifact(fmt.Sprintf("reports-%s.csv", uuid.NewString()))
		if err := writeCSV(full, reports); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate CSV file")
		}
		return exportResponse(c, urlPath, len(reports))
	}
}

// GET /api/exports/reports/pdf
func (e *Exporter) ReportsPDFHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reports []models.Report
		if err := queryReports(database.DB.Model(&models.Report{}), c).
			Order("created_at DESC").Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch reports")
		}

		full, urlPath := e.artifact(fmt.Sprintf("reports-%s.pdf", uuid.NewString()))
		if err := writeReportListPDF(full, "Blotter Reports", reports); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate PDF file")
		}
		return exportResponse(c, urlPath, len(reports))
	}
}

// GET /api/exports/reports/:id/pdf
func (e *Exporter) CasePDFHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var report models.Report
		if err := database.DB.First(&report, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Report not found")
		}

		var suspects []models.Suspect
		database.DB.Where("report_id = ?", report.ID).Find(&suspects)
		var witnesses []models.Witness
		database.DB.Where("report_id = ?", report.ID).Find(&witnesses)
		var evidence []models.Evidence
		database.DB.Where("report_id = ?", report.ID).Find(&evidence)

		full, urlPath := e.artifact(fmt.Sprintf("case-%s-%s.pdf", report.CaseNumber, uuid.NewString()[:8]))
		if err := writeCasePDF(full, report, suspects, witnesses, evidence); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate PDF file")
		}
		return exportResponse(c, urlPath, 1)
	}
}

// GET /api/exports/monthly?month=8&year=2026
func (e *Exporter) MonthlyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		month := c.QueryInt("month")
		year := c.QueryInt("year")
		if month < 1 || month > 12 || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "Valid month and year are required")
		}

		prefix := fmt.Sprintf("%04d-%02d-", year, month)
		var reports []models.Report
		err := database.DB.Where("incident_date LIKE ?", prefix+"%").
			Order("incident_date ASC").
			Find(&reports).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch reports")
		}

		title := fmt.Sprintf("Monthly Blotter Report %04d-%02d", year, month)
		full, urlPath := e.artifact(fmt.Sprintf("monthly-%04d-%02d-%s.xlsx", year, month, uuid.NewString()[:8]))
		if err := writeExcel(full, title, reports); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate Excel file")
		}
		return exportResponse(c, urlPath, len(reports))
	}
}

// GET /api/exports/annual?year=2026
func (e *Exporter) AnnualHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("year")
		if year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "A valid year is required")
		}

		prefix := fmt.Sprintf("%04d-", year)
		var reports []models.Report
		err := database.DB.Where("incident_date LIKE ?", prefix+"%").
			Order("incident_date ASC").
			Find(&reports).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch reports")
		}

		title := fmt.Sprintf("Annual Blotter Report %04d", year)
		full, urlPath := e.artifact(fmt.Sprintf("annual-%04d-%s.xlsx", year, uuid.NewString()[:8]))
		if err := writeExcel(full, title, reports); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate Excel file")
		}
		return exportResponse(c, urlPath, len(reports))
	}
}
