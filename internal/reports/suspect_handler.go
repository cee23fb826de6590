package reports

import (
	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/reports/:id/suspects
func ListSuspectsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireReport(c.Params("id")); err != nil {
			return err
		}
		var suspects []models.Suspect
		if err := database.DB.Where("report_id = ?", c.Params("id")).Order("created_at ASC").Find(&suspects).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch suspects")
		}
		return c.JSON(fiber.Map{"success": true, "data": suspects})
	}
}

// POST /api/reports/:id/suspects
func AddSuspectHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportID, err := reportIDParam(c)
		if err != nil {
			return err
		}

		var body struct {
			Name        string `json:"name"`
			Age         *int   `json:"age"`
			Address     string `json:"address"`
			Description string `json:"description"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Suspect name is required")
		}

		suspect := models.Suspect{
			ReportID:    reportID,
			Name:        body.Name,
			Age:         body.Age,
			Address:     body.Address,
			Description: body.Description,
		}
		if err := database.DB.Create(&suspect).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not add suspect")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Suspect added",
			"data":    suspect,
		})
	}
}

// PUT /api/reports/:id/suspects/:suspectId
func UpdateSuspectHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suspect models.Suspect
		err := database.DB.Where("id = ? AND report_id = ?", c.Params("suspectId"), c.Params("id")).
			First(&suspect).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Suspect not found")
		}

		var body struct {
			Name        *string `json:"name"`
			Age         *int    `json:"age"`
			Address     *string `json:"address"`
			Description *string `json:"description"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		updates := map[string]interface{}{}
		if body.Name != nil {
			updates["name"] = *body.Name
		}
		if body.Age != nil {
			updates["age"] = *body.Age
		}
		if body.Address != nil {
			updates["address"] = *body.Address
		}
		if body.Description != nil {
			updates["description"] = *body.Description
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No fields to update")
		}

		if err := database.DB.Model(&suspect).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update suspect")
		}
		return c.JSON(fiber.Map{"success": true, "message": "Suspect updated", "data": suspect})
	}
}

// DELETE /api/reports/:id/suspects/:suspectId
func DeleteSuspectHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := database.DB.Where("id = ? AND report_id = ?", c.Params("suspectId"), c.Params("id")).
			Delete(&models.Suspect{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete suspect")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Suspect not found")
		}
		return c.JSON(fiber.Map{"success": true, "message": "Suspect deleted"})
	}
}
