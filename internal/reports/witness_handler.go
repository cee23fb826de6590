package reports

import (
	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/reports/:id/witnesses
func ListWitnessesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireReport(c.Params("id")); err != nil {
			return err
		}
		var witnesses []models.Witness
		if err := database.DB.Where("report_id = ?", c.Params("id")).Order("created_at ASC").Find(&witnesses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch witnesses")
		}
		return c.JSON(fiber.Map{"success": true, "data": witnesses})
	}
}

// POST /api/reports/:id/witnesses
func AddWitnessHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportID, err := reportIDParam(c)
		if err != nil {
			return err
		}

		var body struct {
			Name          string `json:"name"`
			ContactNumber string `json:"contactNumber"`
			Address       string `json:"address"`
			Statement     string `json:"statement"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Witness name is required")
		}

		witness := models.Witness{
			ReportID:      reportID,
			Name:          body.Name,
			ContactNumber: body.ContactNumber,
			Address:       body.Address,
			Statement:     body.Statement,
		}
		if err := database.DB.Create(&witness).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not add witness")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Witness added",
			"data":    witness,
		})
	}
}

// PUT /api/reports/:id/witnesses/:witnessId
func UpdateWitnessHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var witness models.Witness
		err := database.DB.Where("id = ? AND report_id = ?", c.Params("witnessId"), c.Params("id")).
			First(&witness).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Witness not found")
		}

		var body struct {
			Name          *string `json:"name"`
			ContactNumber *string `json:"contactNumber"`
			Address       *string `json:"address"`
			Statement     *string `json:"statement"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		updates := map[string]interface{}{}
		if body.Name != nil {
			updates["name"] = *body.Name
		}
		if body.ContactNumber != nil {
			updates["contact_number"] = *body.ContactNumber
		}
		if body.Address != nil {
			updates["address"] = *body.Address
		}
		if body.Statement != nil {
			updates["statement"] = *body.Statement
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No fields to update")
		}

		if err := database.DB.Model(&witness).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update witness")
		}
		return c.JSON(fiber.Map{"success": true, "message": "Witness updated", "data": witness})
	}
}

// DELETE /api/reports/:id/witnesses/:witnessId
func DeleteWitnessHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := database.DB.Where("id = ? AND report_id = ?", c.Params("witnessId"), c.Params("id")).
			Delete(&models.Witness{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete witness")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Witness not found")
		}
		return c.JSON(fiber.Map{"success": true, "message": "Witness deleted"})
	}
}
