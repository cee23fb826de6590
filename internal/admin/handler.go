package admin

import (
	"blotter-backend/internal/auth"
	"blotter-backend/internal/database"
	"blotter-backend/internal/logs"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/admin/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at DESC")
		if role := c.Query("role"); role != "" {
			q = q.Where("role = ?", role)
		}

		var users []models.User
		if err := q.Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch users")
		}
		return c.JSON(fiber.Map{"success": true, "data": users})
	}
}

// GET /api/admin/reports
//
// Admin listing includes archived cases.
func ListReportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reports []models.Report
		if err := database.DB.Order("created_at DESC").Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch reports")
		}
		return c.JSON(fiber.Map{"success": true, "data": reports})
	}
}

// GET /api/admin/reports/filter?status=Pending&priority=High&dateFrom=...&dateTo=...
func FilterReportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Report{})
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}
		if p := c.Query("priority"); p != "" {
			q = q.Where("priority = ?", p)
		}
		if t := c.Query("type"); t != "" {
			q = q.Where("incident_type = ?", t)
		}
		if from := c.Query("dateFrom"); from != "" {
			q = q.Where("incident_date >= ?", from)
		}
		if to := c.Query("dateTo"); to != "" {
			q = q.Where("incident_date <= ?", to)
		}
		if c.Query("archived") == "true" {
			q = q.Where("is_archived = ?", true)
		} else if c.Query("archived") == "false" {
			q = q.Where("is_archived = ?", false)
		}

		var reports []models.Report
		if err := q.Order("created_at DESC").Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch reports")
		}
		return c.JSON(fiber.Map{"success": true, "data": reports})
	}
}

// GET /api/admin/statistics
func StatisticsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		counters := map[string]int64{}
		for name, model := range map[string]interface{}{
			"users":         &models.User{},
			"officers":      &models.Officer{},
			"reports":       &models.Report{},
			"hearings":      &models.Hearing{},
			"resolutions":   &models.Resolution{},
			"notifications": &models.Notification{},
		} {
			var n int64
			database.DB.Model(model).Count(&n)
			counters[name] = n
		}

		var failedLogins int64
		database.DB.Model(&models.LoginLog{}).
			Where("status = ?", models.LoginStatusFailed).
			Count(&failedLogins)

		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"totals":       counters,
				"failedLogins": failedLogins,
			},
		})
	}
}

// PUT /api/admin/users/:id/status
func SetUserStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			IsActive bool `json:"isActive"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		status := models.UserStatusActive
		if !body.IsActive {
			status = "inactive"
		}

		res := database.DB.Model(&models.User{}).
			Where("id = ?", c.Params("id")).
			Updates(map[string]interface{}{
				"is_active": body.IsActive,
				"status":    status,
			})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update user status")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		if actorID, ok := auth.UserID(c); ok {
			action := "deactivate"
			if body.IsActive {
				action = "activate"
			}
			logs.RecordActivity(actorID, action, "user", 0, "user "+c.Params("id"), c.IP(), c.Get("User-Agent"))
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "User status updated",
		})
	}
}
