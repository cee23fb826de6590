package reports

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"blotter-backend/internal/audit"
	"blotter-backend/internal/auth"
	"blotter-backend/internal/database"
	"blotter-backend/internal/logs"
	"blotter-backend/internal/models"
	"blotter-backend/internal/notifications"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateReportRequest struct {
	CaseNumber         string `json:"caseNumber"`
	IncidentType       string `json:"incidentType" validate:"required"`
	IncidentDate       string `json:"incidentDate" validate:"required"`
	IncidentTime       string `json:"incidentTime"`
	IncidentLocation   string `json:"incidentLocation" validate:"required"`
	Narrative          string `json:"narrative" validate:"required"`
	ComplainantName    string `json:"complainantName"`
	ComplainantContact string `json:"complainantContact"`
	ComplainantAddress string `json:"complainantAddress"`
	ComplainantEmail   string `json:"complainantEmail"`
	Priority           string `json:"priority"`
}

func newCaseNumber() string {
	return fmt.Sprintf("BLTR-%d-%s", time.Now().Year(), strings.ToUpper(uuid.NewString()[:8]))
}

func hasResolution(db *gorm.DB, reportID uint) bool {
	var count int64
	db.Model(&models.Resolution{}).Where("report_id = ?", reportID).Count(&count)
	return count > 0
}

// GET /api/reports
//
// Archived cases are hidden unless ?archived=true.
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at DESC")
		if c.Query("archived") != "true" {
			q = q.Where("is_archived = ?", false)
		}
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var reports []models.Report
		if err := q.Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch reports")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    reports,
		})
	}
}

// GET /api/reports/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var report models.Report
		if err := database.DB.First(&report, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Report not found")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    report,
		})
	}
}

// GET /api/reports/status/:status
func ListByStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := models.ReportStatus(c.Params("status"))
		if !ValidStatus(status) {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown status")
		}

		var reports []models.Report
		err := database.DB.Where("status = ? AND is_archived = ?", status, false).
			Order("created_at DESC").
			Find(&reports).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch reports")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    reports,
		})
	}
}

// GET /api/reports/user/:userId
func ListByUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reports []models.Report
		err := database.DB.Where("filed_by_id = ?", c.Params("userId")).
			Order("created_at DESC").
			Find(&reports).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch reports")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    reports,
		})
	}
}

// POST /api/reports
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateReportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Incident type, date, location and narrative are required")
		}
		if _, err := time.Parse("2006-01-02", body.IncidentDate); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Incident date must be in YYYY-MM-DD format")
		}

		priority := models.PriorityNormal
		if body.Priority != "" {
			priority = models.ReportPriority(body.Priority)
			if !ValidPriority(priority) {
				return fiber.NewError(fiber.StatusBadRequest, "Unknown priority")
			}
		}

		caseNumber := body.CaseNumber
		if caseNumber == "" {
			caseNumber = newCaseNumber()
		}

		report := models.Report{
			CaseNumber:         caseNumber,
			IncidentType:       body.IncidentType,
			IncidentDate:       body.IncidentDate,
			IncidentTime:       body.IncidentTime,
			IncidentLocation:   body.IncidentLocation,
			Narrative:          body.Narrative,
			ComplainantName:    body.ComplainantName,
			ComplainantContact: body.ComplainantContact,
			ComplainantAddress: body.ComplainantAddress,
			ComplainantEmail:   body.ComplainantEmail,
			Status:             models.StatusPending,
			Priority:           priority,
		}

		if userID, ok := auth.UserID(c); ok {
			report.FiledByID = &userID
			var filer models.User
			if err := database.DB.Select("first_name", "last_name").First(&filer, userID).Error; err == nil {
				report.FiledBy = strings.TrimSpace(filer.FirstName + " " + filer.LastName)
			}
		}

		if err := database.DB.Create(&report).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "Case number already exists")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create report")
		}

		if userID, ok := auth.UserID(c); ok {
			logs.RecordActivity(userID, "create", "report", report.ID, "filed case "+report.CaseNumber, c.IP(), c.Get("User-Agent"))
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Report filed successfully",
			"data":    report,
		})
	}
}

type UpdateReportRequest struct {
	IncidentType       *string `json:"incidentType"`
	IncidentDate       *string `json:"incidentDate"`
	IncidentTime       *string `json:"incidentTime"`
	IncidentLocation   *string `json:"incidentLocation"`
	Narrative          *string `json:"narrative"`
	ComplainantName    *string `json:"complainantName"`
	ComplainantContact *string `json:"complainantContact"`
	ComplainantAddress *string `json:"complainantAddress"`
	ComplainantEmail   *string `json:"complainantEmail"`
	Status             *string `json:"status"`
	Priority           *string `json:"priority"`
	ReopenReason       string  `json:"reopenReason"`
}

// PUT /api/reports/:id
//
// Field updates are audited per field; status changes go through the
// transition rules.
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var report models.Report
		if err := database.DB.First(&report, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Report not found")
		}

		var body UpdateReportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		updates := map[string]interface{}{}
		var changes []audit.FieldChange

		setField := func(column string, oldV string, newV *string) {
			if newV != nil && *newV != oldV {
				updates[column] = *newV
				changes = append(changes, audit.Change(column, oldV, *newV))
			}
		}

		if body.IncidentDate != nil {
			if _, err := time.Parse("2006-01-02", *body.IncidentDate); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Incident date must be in YYYY-MM-DD format")
			}
		}

		setField("incident_type", report.IncidentType, body.IncidentType)
		setField("incident_date", report.IncidentDate, body.IncidentDate)
		setField("incident_time", report.IncidentTime, body.IncidentTime)
		setField("incident_location", report.IncidentLocation, body.IncidentLocation)
		setField("narrative", report.Narrative, body.Narrative)
		setField("complainant_name", report.ComplainantName, body.ComplainantName)
		setField("complainant_contact", report.ComplainantContact, body.ComplainantContact)
		setField("complainant_address", report.ComplainantAddress, body.ComplainantAddress)
		setField("complainant_email", report.ComplainantEmail, body.ComplainantEmail)

		if body.Priority != nil && models.ReportPriority(*body.Priority) != report.Priority {
			p := models.ReportPriority(*body.Priority)
			if !ValidPriority(p) {
				return fiber.NewError(fiber.StatusBadRequest, "Unknown priority")
			}
			updates["priority"] = p
			changes = append(changes, audit.Change("priority", report.Priority, p))
		}

		reopened := false
		if body.Status != nil {
			newStatus := models.ReportStatus(*body.Status)
			err := checkTransition(report.Status, newStatus, hasResolution(database.DB, report.ID), body.ReopenReason)
			switch {
			case err == nil:
				updates["status"] = newStatus
				changes = append(changes, audit.Change("status", report.Status, newStatus))
				reopened = statusOrder[newStatus] < statusOrder[report.Status]
			case errors.Is(err, errSameStatus):
				// no-op
			case errors.Is(err, errNeedsResolution):
				return fiber.NewError(fiber.StatusBadRequest, "A resolution must be recorded before the case can be resolved or closed")
			case errors.Is(err, errReopenNeedsNote):
				return fiber.NewError(fiber.StatusBadRequest, "A reason is required to reopen a resolved case")
			case errors.Is(err, errUnknownStatus):
				return fiber.NewError(fiber.StatusBadRequest, "Unknown status")
			default:
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Invalid status transition from %s to %s", report.Status, *body.Status))
			}
		}

		if len(updates) == 0 {
			return c.JSON(fiber.Map{
				"success": true,
				"message": "No changes",
				"data":    report,
			})
		}

		if err := database.DB.Model(&report).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update report")
		}

		actorID, _ := auth.UserID(c)
		audit.RecordChanges(report.ID, actorID, "update", changes)
		if reopened {
			audit.RecordAction(report.ID, actorID, "reopen", body.ReopenReason)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Report updated successfully",
			"data":    report,
		})
	}
}

// PUT /api/reports/:id/assign
func AssignHandler(dispatcher *notifications.Dispatcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			OfficerID uint `json:"officerId"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var report models.Report
		if err := database.DB.First(&report, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Report not found")
		}

		var officer models.Officer
		if err := database.DB.Preload("User").First(&officer, body.OfficerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Officer not found")
		}

		officerName := ""
		if officer.User != nil {
			officerName = strings.TrimSpace(officer.User.FirstName + " " + officer.User.LastName)
		}

		updates := map[string]interface{}{
			"assigned_officer":    officerName,
			"assigned_officer_id": officer.UserID,
		}
		if report.Status == models.StatusPending {
			updates["status"] = models.StatusAssigned
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&report).Updates(updates).Error; err != nil {
				return err
			}
			return tx.Model(&officer).
				Update("assigned_cases", gorm.Expr("assigned_cases + 1")).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not assign officer")
		}

		actorID, _ := auth.UserID(c)
		audit.RecordAction(report.ID, actorID, "assign", "assigned to "+officerName)

		if dispatcher != nil {
			reportID := report.ID
			dispatcher.Notify(officer.UserID,
				"New Case Assignment",
				fmt.Sprintf("You have been assigned to case %s (%s).", report.CaseNumber, report.IncidentType),
				"assignment", &reportID)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Officer assigned successfully",
			"data":    report,
		})
	}
}

// PUT /api/reports/:id/unassign
func UnassignHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var report models.Report
		if err := database.DB.First(&report, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Report not found")
		}
		if report.AssignedOfficerID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Report has no assigned officer")
		}

		err := database.DB.Model(&report).Updates(map[string]interface{}{
			"assigned_officer":    "",
			"assigned_officer_id": nil,
		}).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not unassign officer")
		}

		actorID, _ := auth.UserID(c)
		audit.RecordAction(report.ID, actorID, "unassign", "removed "+report.AssignedOfficer)

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Officer unassigned",
		})
	}
}

// PUT /api/reports/:id/archive
func ArchiveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Archived *bool `json:"archived"`
		}
		if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		archived := true
		if body.Archived != nil {
			archived = *body.Archived
		}

		res := database.DB.Model(&models.Report{}).
			Where("id = ?", c.Params("id")).
			Update("is_archived", archived)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not archive report")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Report not found")
		}

		actorID, _ := auth.UserID(c)
		action := "archive"
		if !archived {
			action = "unarchive"
		}
		if id, err := c.ParamsInt("id"); err == nil {
			audit.RecordAction(uint(id), actorID, action, "")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Report archive state updated",
		})
	}
}

// DELETE /api/reports/:id
//
// Deletes the case together with its suspects, witnesses, evidence, hearings
// and resolutions in one transaction.
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var report models.Report
		if err := database.DB.First(&report, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Report not found")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			for _, child := range []interface{}{
				&models.Suspect{}, &models.Witness{}, &models.Evidence{},
				&models.Hearing{}, &models.Resolution{},
			} {
				if err := tx.Where("report_id = ?", report.ID).Delete(child).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&report).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete report")
		}

		if actorID, ok := auth.UserID(c); ok {
			logs.RecordActivity(actorID, "delete", "report", report.ID, "deleted case "+report.CaseNumber, c.IP(), c.Get("User-Agent"))
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Report and related records deleted",
		})
	}
}
