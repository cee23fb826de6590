package hearings

import (
	"fmt"
	"time"

	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/hearings
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("hearing_date ASC, hearing_time ASC")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var hearings []models.Hearing
		if err := q.Find(&hearings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch hearings")
		}
		return c.JSON(fiber.Map{"success": true, "data": hearings})
	}
}

// GET /api/hearings/report/:reportId
func ListByReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var hearings []models.Hearing
		err := database.DB.Where("report_id = ?", c.Params("reportId")).
			Order("hearing_date ASC, hearing_time ASC").
			Find(&hearings).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch hearings")
		}
		return c.JSON(fiber.Map{"success": true, "data": hearings})
	}
}

// GET /api/hearings/calendar?month=8&year=2026
//
// Hearing dates are stored as YYYY-MM-DD, so a month is a prefix match.
func CalendarHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		month := c.QueryInt("month")
		year := c.QueryInt("year")
		if month < 1 || month > 12 || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "Valid month and year are required")
		}

		prefix := fmt.Sprintf("%04d-%02d-", year, month)
		var hearings []models.Hearing
		err := database.DB.Where("hearing_date LIKE ?", prefix+"%").
			Order("hearing_date ASC, hearing_time ASC").
			Find(&hearings).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch hearings")
		}
		return c.JSON(fiber.Map{"success": true, "data": hearings})
	}
}

// POST /api/hearings
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			ReportID    uint   `json:"reportId"`
			HearingDate string `json:"hearingDate"`
			HearingTime string `json:"hearingTime"`
			Location    string `json:"location"`
			Purpose     string `json:"purpose"`
			Presider    string `json:"presider"`
			Attendees   string `json:"attendees"`
			Notes       string `json:"notes"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.ReportID == 0 || body.HearingDate == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Report and hearing date are required")
		}
		if _, err := time.Parse("2006-01-02", body.HearingDate); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Hearing date must be in YYYY-MM-DD format")
		}

		var reportCount int64
		database.DB.Model(&models.Report{}).Where("id = ?", body.ReportID).Count(&reportCount)
		if reportCount == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Report not found")
		}

		hearing := models.Hearing{
			ReportID:    body.ReportID,
			HearingDate: body.HearingDate,
			HearingTime: body.HearingTime,
			Location:    body.Location,
			Purpose:     body.Purpose,
			Presider:    body.Presider,
			Attendees:   body.Attendees,
			Notes:       body.Notes,
			Status:      models.HearingStatusScheduled,
		}
		if err := database.DB.Create(&hearing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not schedule hearing")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Hearing scheduled",
			"data":    hearing,
		})
	}
}

// PUT /api/hearings/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var hearing models.Hearing
		if err := database.DB.First(&hearing, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hearing not found")
		}

		var body struct {
			HearingDate *string `json:"hearingDate"`
			HearingTime *string `json:"hearingTime"`
			Location    *string `json:"location"`
			Purpose     *string `json:"purpose"`
			Presider    *string `json:"presider"`
			Attendees   *string `json:"attendees"`
			Notes       *string `json:"notes"`
			Status      *string `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		updates := map[string]interface{}{}
		if body.HearingDate != nil {
			if _, err := time.Parse("2006-01-02", *body.HearingDate); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Hearing date must be in YYYY-MM-DD format")
			}
			updates["hearing_date"] = *body.HearingDate
		}
		if body.HearingTime != nil {
			updates["hearing_time"] = *body.HearingTime
		}
		if body.Location != nil {
			updates["location"] = *body.Location
		}
		if body.Purpose != nil {
			updates["purpose"] = *body.Purpose
		}
		if body.Presider != nil {
			updates["presider"] = *body.Presider
		}
		if body.Attendees != nil {
			updates["attendees"] = *body.Attendees
		}
		if body.Notes != nil {
			updates["notes"] = *body.Notes
		}
		if body.Status != nil {
			updates["status"] = *body.Status
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No fields to update")
		}

		if err := database.DB.Model(&hearing).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update hearing")
		}
		return c.JSON(fiber.Map{"success": true, "message": "Hearing updated", "data": hearing})
	}
}

// DELETE /api/hearings/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := database.DB.Delete(&models.Hearing{}, c.Params("id"))
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete hearing")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Hearing not found")
		}
		return c.JSON(fiber.Map{"success": true, "message": "Hearing deleted"})
	}
}
