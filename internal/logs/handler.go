package logs

import (
	"time"

	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func limitFrom(c *fiber.Ctx) int {
	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	return limit
}

// GET /api/logs/activity?userId=3&limit=50
func ActivityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at DESC").Limit(limitFrom(c))
		if userID := c.Query("userId"); userID != "" {
			q = q.Where("user_id = ?", userID)
		}
		if action := c.Query("action"); action != "" {
			q = q.Where("action = ?", action)
		}

		var entries []models.ActivityLog
		if err := q.Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch activity logs")
		}
		return c.JSON(fiber.Map{"success": true, "data": entries})
	}
}

// GET /api/logs/audit?reportId=12
func AuditHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at DESC").Limit(limitFrom(c))
		if reportID := c.Query("reportId"); reportID != "" {
			q = q.Where("report_id = ?", reportID)
		}

		var entries []models.ReportAuditLog
		if err := q.Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch audit logs")
		}
		return c.JSON(fiber.Map{"success": true, "data": entries})
	}
}

// GET /api/logs/login?userId=3&status=failed
func LoginHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at DESC").Limit(limitFrom(c))
		if userID := c.Query("userId"); userID != "" {
			q = q.Where("user_id = ?", userID)
		}
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var entries []models.LoginLog
		if err := q.Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch login logs")
		}
		return c.JSON(fiber.Map{"success": true, "data": entries})
	}
}

// GET /api/logs/errors?severity=error
func ErrorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at DESC").Limit(limitFrom(c))
		if severity := c.Query("severity"); severity != "" {
			q = q.Where("severity = ?", severity)
		}

		var entries []models.ErrorLog
		if err := q.Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch error logs")
		}
		return c.JSON(fiber.Map{"success": true, "data": entries})
	}
}

// DELETE /api/logs/clear?daysOld=90
//
// Prunes every log table in one pass. Entries newer than the cutoff survive.
func ClearHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		daysOld := c.QueryInt("daysOld", 90)
		if daysOld < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "daysOld must be at least 1")
		}
		cutoff := time.Now().AddDate(0, 0, -daysOld)

		removed := map[string]int64{}
		for name, model := range map[string]interface{}{
			"activity": &models.ActivityLog{},
			"audit":    &models.ReportAuditLog{},
			"login":    &models.LoginLog{},
			"errors":   &models.ErrorLog{},
		} {
			res := database.DB.Where("created_at < ?", cutoff).Delete(model)
			if res.Error != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not prune logs")
			}
			removed[name] = res.RowsAffected
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Old log entries removed",
			"data":    removed,
		})
	}
}
