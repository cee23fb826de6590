package resolutions

import (
	"time"

	"blotter-backend/internal/audit"
	"blotter-backend/internal/auth"
	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/reports/:id/resolution
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resolution models.Resolution
		err := database.DB.Where("report_id = ?", c.Params("id")).First(&resolution).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No resolution recorded for this report")
		}
		return c.JSON(fiber.Map{"success": true, "data": resolution})
	}
}

// POST /api/reports/:id/resolution
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportID, err := c.ParamsInt("id")
		if err != nil || reportID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid report id")
		}

		var reportCount int64
		database.DB.Model(&models.Report{}).Where("id = ?", reportID).Count(&reportCount)
		if reportCount == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Report not found")
		}

		var existing int64
		database.DB.Model(&models.Resolution{}).Where("report_id = ?", reportID).Count(&existing)
		if existing > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "This report already has a resolution")
		}

		var body struct {
			ResolutionDate string `json:"resolutionDate"`
			ResolutionType string `json:"resolutionType"`
			Description    string `json:"description"`
			Outcome        string `json:"outcome"`
			DocumentURI    string `json:"documentUri"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Resolution description is required")
		}
		if body.ResolutionDate == "" {
			body.ResolutionDate = time.Now().Format("2006-01-02")
		} else if _, err := time.Parse("2006-01-02", body.ResolutionDate); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Resolution date must be in YYYY-MM-DD format")
		}

		resolution := models.Resolution{
			ReportID:       uint(reportID),
			ResolutionDate: body.ResolutionDate,
			ResolutionType: body.ResolutionType,
			Description:    body.Description,
			Outcome:        body.Outcome,
			DocumentURI:    body.DocumentURI,
			Status:         models.ResolutionStatusPending,
		}
		if err := database.DB.Create(&resolution).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record resolution")
		}

		actorID, _ := auth.UserID(c)
		audit.RecordAction(uint(reportID), actorID, "resolution", body.ResolutionType)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Resolution recorded",
			"data":    resolution,
		})
	}
}

// PUT /api/reports/:id/resolution
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resolution models.Resolution
		err := database.DB.Where("report_id = ?", c.Params("id")).First(&resolution).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No resolution recorded for this report")
		}

		var body struct {
			ResolutionDate *string `json:"resolutionDate"`
			ResolutionType *string `json:"resolutionType"`
			Description    *string `json:"description"`
			Outcome        *string `json:"outcome"`
			DocumentURI    *string `json:"documentUri"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		updates := map[string]interface{}{}
		if body.ResolutionDate != nil {
			if _, err := time.Parse("2006-01-02", *body.ResolutionDate); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Resolution date must be in YYYY-MM-DD format")
			}
			updates["resolution_date"] = *body.ResolutionDate
		}
		if body.ResolutionType != nil {
			updates["resolution_type"] = *body.ResolutionType
		}
		if body.Description != nil {
			updates["description"] = *body.Description
		}
		if body.Outcome != nil {
			updates["outcome"] = *body.Outcome
		}
		if body.DocumentURI != nil {
			updates["document_uri"] = *body.DocumentURI
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No fields to update")
		}

		if err := database.DB.Model(&resolution).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update resolution")
		}
		return c.JSON(fiber.Map{"success": true, "message": "Resolution updated", "data": resolution})
	}
}

// PUT /api/reports/:id/resolution/approve
func ApproveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resolution models.Resolution
		err := database.DB.Where("report_id = ?", c.Params("id")).First(&resolution).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No resolution recorded for this report")
		}

		approver := ""
		if actorID, ok := auth.UserID(c); ok {
			var user models.User
			if err := database.DB.Select("first_name", "last_name").First(&user, actorID).Error; err == nil {
				approver = user.FirstName + " " + user.LastName
			}
		}

		updates := map[string]interface{}{
			"status":      models.ResolutionStatusApproved,
			"approved_by": approver,
		}
		if err := database.DB.Model(&resolution).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not approve resolution")
		}

		actorID, _ := auth.UserID(c)
		audit.RecordAction(resolution.ReportID, actorID, "resolution_approved", approver)

		return c.JSON(fiber.Map{"success": true, "message": "Resolution approved", "data": resolution})
	}
}
