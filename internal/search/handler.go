package search

import (
	"strings"

	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func likeTerm(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// GET /api/search/reports?q=theft&status=Pending&type=Robbery&priority=High
func ReportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Report{}).Where("is_archived = ?", false)

		if term := c.Query("q"); term != "" {
			pattern := likeTerm(term)
			q = q.Where(
				"LOWER(case_number) LIKE ? OR LOWER(incident_type) LIKE ? OR LOWER(incident_location) LIKE ? OR LOWER(narrative) LIKE ?",
				pattern, pattern, pattern, pattern)
		}
		if t := c.Query("type"); t != "" {
			q = q.Where("incident_type = ?", t)
		}
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}
		if p := c.Query("priority"); p != "" {
			q = q.Where("priority = ?", p)
		}

		var reports []models.Report
		if err := q.Order("created_at DESC").Limit(200).Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Search failed")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    reports,
			"count":   len(reports),
		})
	}
}

type AdvancedSearchRequest struct {
	Query            string `json:"query"`
	CaseNumber       string `json:"caseNumber"`
	IncidentType     string `json:"incidentType"`
	IncidentLocation string `json:"incidentLocation"`
	Status           string `json:"status"`
	Priority         string `json:"priority"`
	AssignedOfficer  string `json:"assignedOfficer"`
	DateFrom         string `json:"dateFrom"`
	DateTo           string `json:"dateTo"`
	IncludeArchived  bool   `json:"includeArchived"`
}

func (r AdvancedSearchRequest) apply(q *gorm.DB) *gorm.DB {
	if !r.IncludeArchived {
		q = q.Where("is_archived = ?", false)
	}
	if r.Query != "" {
		pattern := likeTerm(r.Query)
		q = q.Where(
			"LOWER(case_number) LIKE ? OR LOWER(incident_type) LIKE ? OR LOWER(incident_location) LIKE ? OR LOWER(narrative) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if r.CaseNumber != "" {
		q = q.Where("LOWER(case_number) LIKE ?", likeTerm(r.CaseNumber))
	}
	if r.IncidentType != "" {
		q = q.Where("incident_type = ?", r.IncidentType)
	}
	if r.IncidentLocation != "" {
		q = q.Where("LOWER(incident_location) LIKE ?", likeTerm(r.IncidentLocation))
	}
	if r.Status != "" {
		q = q.Where("status = ?", r.Status)
	}
	if r.Priority != "" {
		q = q.Where("priority = ?", r.Priority)
	}
	if r.AssignedOfficer != "" {
		q = q.Where("LOWER(assigned_officer) LIKE ?", likeTerm(r.AssignedOfficer))
	}
	if r.DateFrom != "" {
		q = q.Where("incident_date >= ?", r.DateFrom)
	}
	if r.DateTo != "" {
		q = q.Where("incident_date <= ?", r.DateTo)
	}
	return q
}

// POST /api/search/advanced
func AdvancedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AdvancedSearchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		q := body.apply(database.DB.Model(&models.Report{}))

		var reports []models.Report
		if err := q.Order("incident_date DESC").Limit(500).Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Search failed")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    reports,
			"count":   len(reports),
		})
	}
}

// GET /api/search/incident-types
func IncidentTypesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var types []string
		err := database.DB.Model(&models.Report{}).
			Distinct("incident_type").
			Order("incident_type ASC").
			Pluck("incident_type", &types).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch incident types")
		}
		return c.JSON(fiber.Map{"success": true, "data": types})
	}
}

// GET /api/search/statuses
func StatusesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"data": []models.ReportStatus{
				models.StatusPending, models.StatusAssigned, models.StatusOngoing,
				models.StatusResolved, models.StatusClosed,
			},
		})
	}
}

// GET /api/search/priorities
func PrioritiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"data": []models.ReportPriority{
				models.PriorityLow, models.PriorityNormal,
				models.PriorityHigh, models.PriorityUrgent,
			},
		})
	}
}
