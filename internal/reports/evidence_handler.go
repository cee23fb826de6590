package reports

import (
	"context"
	"time"

	"blotter-backend/internal/database"
	"blotter-backend/internal/models"
	"blotter-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GET /api/reports/:id/evidence
func ListEvidenceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireReport(c.Params("id")); err != nil {
			return err
		}
		var items []models.Evidence
		if err := database.DB.Where("report_id = ?", c.Params("id")).Order("created_at ASC").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch evidence")
		}
		return c.JSON(fiber.Map{"success": true, "data": items})
	}
}

// POST /api/reports/:id/evidence
//
// When a photo URI is supplied and uploads are configured, the photo is
// re-hosted before the record is stored. The upload is the point of the
// request, so its failure is the request's failure.
func AddEvidenceHandler(uploader storage.ImageUploader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportID, err := reportIDParam(c)
		if err != nil {
			return err
		}

		var body struct {
			EvidenceType  string `json:"evidenceType"`
			Description   string `json:"description"`
			LocationFound string `json:"locationFound"`
			PhotoURI      string `json:"photoUri"`
			CollectedBy   string `json:"collectedBy"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Evidence description is required")
		}

		photoURI := body.PhotoURI
		if photoURI != "" && uploader != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			hosted, err := uploader.UploadFromURL(ctx, photoURI, "evidence")
			if err != nil {
				return fiber.NewError(fiber.StatusBadGateway, "Evidence photo upload failed")
			}
			photoURI = hosted
		}

		item := models.Evidence{
			ReportID:      reportID,
			EvidenceType:  body.EvidenceType,
			Description:   body.Description,
			LocationFound: body.LocationFound,
			PhotoURI:      photoURI,
			CollectedBy:   body.CollectedBy,
		}
		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not add evidence")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Evidence added",
			"data":    item,
		})
	}
}

// PUT /api/reports/:id/evidence/:evidenceId
func UpdateEvidenceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var item models.Evidence
		err := database.DB.Where("id = ? AND report_id = ?", c.Params("evidenceId"), c.Params("id")).
			First(&item).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Evidence not found")
		}

		var body struct {
			EvidenceType  *string `json:"evidenceType"`
			Description   *string `json:"description"`
			LocationFound *string `json:"locationFound"`
			PhotoURI      *string `json:"photoUri"`
			CollectedBy   *string `json:"collectedBy"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		updates := map[string]interface{}{}
		if body.EvidenceType != nil {
			updates["evidence_type"] = *body.EvidenceType
		}
		if body.Description != nil {
			updates["description"] = *body.Description
		}
		if body.LocationFound != nil {
			updates["location_found"] = *body.LocationFound
		}
		if body.PhotoURI != nil {
			updates["photo_uri"] = *body.PhotoURI
		}
		if body.CollectedBy != nil {
			updates["collected_by"] = *body.CollectedBy
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No fields to update")
		}

		if err := database.DB.Model(&item).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update evidence")
		}
		return c.JSON(fiber.Map{"success": true, "message": "Evidence updated", "data": item})
	}
}

// DELETE /api/reports/:id/evidence/:evidenceId
func DeleteEvidenceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := database.DB.Where("id = ? AND report_id = ?", c.Params("evidenceId"), c.Params("id")).
			Delete(&models.Evidence{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete evidence")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Evidence not found")
		}
		return c.JSON(fiber.Map{"success": true, "message": "Evidence deleted"})
	}
}
