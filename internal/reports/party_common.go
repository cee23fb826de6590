package reports

import (
	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// requireReport returns a 404 error when the parent case does not exist.
func requireReport(id string) error {
	var count int64
	if err := database.DB.Model(&models.Report{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not verify report")
	}
	if count == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Report not found")
	}
	return nil
}

// reportIDParam validates the parent case and returns its numeric id.
func reportIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid report id")
	}
	if err := requireReport(c.Params("id")); err != nil {
		return 0, err
	}
	return uint(id), nil
}
