package analytics

import (
	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type typeCount struct {
	IncidentType string `json:"incidentType"`
	Count        int64  `json:"count"`
}

func countReports(conds ...interface{}) int64 {
	var n int64
	q := database.DB.Model(&models.Report{})
	if len(conds) > 0 {
		q = q.Where(conds[0], conds[1:]...)
	}
	q.Count(&n)
	return n
}

// GET /api/analytics/dashboard
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		total := countReports()
		archived := countReports("is_archived = ?", true)

		var byStatus []statusCount
		database.DB.Model(&models.Report{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Scan(&byStatus)

		var byType []typeCount
		database.DB.Model(&models.Report{}).
			Select("incident_type, COUNT(*) AS count").
			Group("incident_type").
			Order("count DESC").
			Limit(10).
			Scan(&byType)

		var officerCount int64
		database.DB.Model(&models.Officer{}).Count(&officerCount)
		var userCount int64
		database.DB.Model(&models.User{}).Count(&userCount)

		resolved := countReports("status IN ?", []string{string(models.StatusResolved), string(models.StatusClosed)})

		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"totalReports":    total,
				"archivedReports": archived,
				"byStatus":        byStatus,
				"topIncidentTypes": byType,
				"officerCount":    officerCount,
				"userCount":       userCount,
				"resolutionRate":  ResolutionRate(resolved, total),
			},
		})
	}
}

// GET /api/analytics/officer/:userId
func OfficerStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var officer models.Officer
		err := database.DB.Preload("User").Where("user_id = ?", c.Params("userId")).First(&officer).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Officer not found")
		}

		var assigned int64
		database.DB.Model(&models.Report{}).
			Where("assigned_officer_id = ?", officer.UserID).
			Count(&assigned)

		var resolved int64
		database.DB.Model(&models.Report{}).
			Where("assigned_officer_id = ? AND status IN ?", officer.UserID,
				[]string{string(models.StatusResolved), string(models.StatusClosed)}).
			Count(&resolved)

		var ongoing int64
		database.DB.Model(&models.Report{}).
			Where("assigned_officer_id = ? AND status IN ?", officer.UserID,
				[]string{string(models.StatusAssigned), string(models.StatusOngoing)}).
			Count(&ongoing)

		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"officer":        officer,
				"assignedCases":  assigned,
				"resolvedCases":  resolved,
				"ongoingCases":   ongoing,
				"resolutionRate": ResolutionRate(resolved, assigned),
			},
		})
	}
}

// GET /api/analytics/officer/:userId/reports?dateFrom=2026-01-01&dateTo=2026-06-30
func OfficerReportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Where("assigned_officer_id = ?", c.Params("userId"))
		if from := c.Query("dateFrom"); from != "" {
			q = q.Where("incident_date >= ?", from)
		}
		if to := c.Query("dateTo"); to != "" {
			q = q.Where("incident_date <= ?", to)
		}
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var reports []models.Report
		if err := q.Order("incident_date DESC").Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch reports")
		}
		return c.JSON(fiber.Map{"success": true, "data": reports})
	}
}
