package dashboard

import (
	"time"

	"blotter-backend/internal/auth"
	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func count(model interface{}, query string, args ...interface{}) int64 {
	var n int64
	q := database.DB.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	q.Count(&n)
	return n
}

// GET /api/dashboard/admin
func AdminSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var recent []models.Report
		database.DB.Where("is_archived = ?", false).
			Order("created_at DESC").
			Limit(5).
			Find(&recent)

		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"totalReports":    count(&models.Report{}, ""),
				"pendingReports":  count(&models.Report{}, "status = ?", models.StatusPending),
				"ongoingReports":  count(&models.Report{}, "status IN ?", []string{string(models.StatusAssigned), string(models.StatusOngoing)}),
				"resolvedReports": count(&models.Report{}, "status IN ?", []string{string(models.StatusResolved), string(models.StatusClosed)}),
				"totalOfficers":   count(&models.Officer{}, ""),
				"totalUsers":      count(&models.User{}, ""),
				"recentReports":   recent,
			},
		})
	}
}

// GET /api/dashboard/officer
//
// Summary for the authenticated officer.
func OfficerSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := auth.UserID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "User information unavailable")
		}

		var assigned []models.Report
		database.DB.Where("assigned_officer_id = ? AND is_archived = ?", userID, false).
			Order("created_at DESC").
			Find(&assigned)

		var hearingsToday []models.Hearing
		today := time.Now().Format("2006-01-02")
		database.DB.Where("hearing_date = ?", today).
			Order("hearing_time ASC").
			Find(&hearingsToday)

		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"assignedReports": assigned,
				"activeCount":     count(&models.Report{}, "assigned_officer_id = ? AND status IN ?", userID, []string{string(models.StatusAssigned), string(models.StatusOngoing)}),
				"resolvedCount":   count(&models.Report{}, "assigned_officer_id = ? AND status IN ?", userID, []string{string(models.StatusResolved), string(models.StatusClosed)}),
				"hearingsToday":   hearingsToday,
			},
		})
	}
}

// GET /api/dashboard/stats
//
// Filing volume for today, this week and this month.
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"filedToday":     count(&models.Report{}, "created_at >= ?", startOfDay),
				"filedThisWeek":  count(&models.Report{}, "created_at >= ?", startOfWeek),
				"filedThisMonth": count(&models.Report{}, "created_at >= ?", startOfMonth),
			},
		})
	}
}

// GET /api/dashboard/pending-actions
func PendingActionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		today := time.Now().Format("2006-01-02")

		var hearingsToday []models.Hearing
		database.DB.Where("hearing_date = ? AND status = ?", today, models.HearingStatusScheduled).
			Order("hearing_time ASC").
			Find(&hearingsToday)

		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"pendingReports":       count(&models.Report{}, "status = ? AND is_archived = ?", models.StatusPending, false),
				"unassignedReports":    count(&models.Report{}, "assigned_officer_id IS NULL AND is_archived = ?", false),
				"pendingResolutions":   count(&models.Resolution{}, "status = ?", models.ResolutionStatusPending),
				"hearingsToday":        hearingsToday,
			},
		})
	}
}
