package officers

import (
	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type departmentSummary struct {
	Department   string `json:"department"`
	OfficerCount int64  `json:"officerCount"`
}

// GET /api/departments
func ListDepartmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var departments []departmentSummary
		err := database.DB.Model(&models.Officer{}).
			Select("department, COUNT(*) AS officer_count").
			Group("department").
			Order("department ASC").
			Scan(&departments).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch departments")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    departments,
		})
	}
}

// GET /api/departments/:name/officers
func OfficersByDepartmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var officers []models.Officer
		err := database.DB.Preload("User").
			Where("department = ?", c.Params("name")).
			Order("created_at DESC").
			Find(&officers).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch officers")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    officers,
		})
	}
}
