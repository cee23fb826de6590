package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"blotter-backend/internal/database"
	"blotter-backend/internal/models"
	"blotter-backend/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	database.DB = db

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"success": false, "message": err.Error()})
		},
	})

	dispatcher := notifications.NewDispatcher(nil)

	app.Get("/reports", ListHandler())
	app.Post("/reports", CreateHandler())
	app.Get("/reports/status/:status", ListByStatusHandler())
	app.Get("/reports/:id", GetHandler())
	app.Put("/reports/:id", UpdateHandler())
	app.Delete("/reports/:id", DeleteHandler())
	app.Put("/reports/:id/assign", AssignHandler(dispatcher))
	app.Put("/reports/:id/archive", ArchiveHandler())
	app.Get("/reports/:id/suspects", ListSuspectsHandler())
	app.Post("/reports/:id/suspects", AddSuspectHandler())
	app.Post("/reports/:id/witnesses", AddWitnessHandler())
	app.Post("/reports/:id/evidence", AddEvidenceHandler(nil))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) *http.Response {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	return resp
}

func createTestReport(t *testing.T, app *fiber.App) models.Report {
	t.Helper()
	resp := doJSON(t, app, "POST", "/reports", map[string]string{
		"incidentType":     "Theft",
		"incidentDate":     "2026-08-15",
		"incidentLocation": "Main Street Market",
		"narrative":        "Complainant reports a stolen bicycle.",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create report status = %d, want 201", resp.StatusCode)
	}
	var out struct {
		Data models.Report `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	return out.Data
}

func TestCreateReportDefaults(t *testing.T) {
	app := setupTestApp(t)
	report := createTestReport(t, app)

	if report.Status != models.StatusPending {
		t.Errorf("status = %q, want Pending", report.Status)
	}
	if report.Priority != models.PriorityNormal {
		t.Errorf("priority = %q, want Normal", report.Priority)
	}
	if report.CaseNumber == "" {
		t.Error("case number was not generated")
	}
	if report.IsArchived {
		t.Error("new report should not be archived")
	}
}

func TestCreateReportRejectsBadDate(t *testing.T) {
	app := setupTestApp(t)
	resp := doJSON(t, app, "POST", "/reports", map[string]string{
		"incidentType":     "Theft",
		"incidentDate":     "15/08/2026",
		"incidentLocation": "Main Street",
		"narrative":        "Bad date format.",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAssignOfficerMovesPendingToAssigned(t *testing.T) {
	app := setupTestApp(t)
	report := createTestReport(t, app)

	username := "p.garcia"
	user := models.User{Username: &username, Email: "garcia@test.local", PasswordHash: "x",
		FirstName: "Pedro", LastName: "Garcia", Role: models.RoleOfficer, Status: models.UserStatusActive, IsActive: true}
	database.DB.Create(&user)
	officer := models.Officer{UserID: user.ID, Department: "Investigation", IsAvailable: true}
	database.DB.Create(&officer)

	resp := doJSON(t, app, "PUT", "/reports/"+itoa(report.ID)+"/assign", map[string]uint{
		"officerId": officer.ID,
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("assign status = %d, want 200", resp.StatusCode)
	}

	var updated models.Report
	database.DB.First(&updated, report.ID)
	if updated.Status != models.StatusAssigned {
		t.Errorf("status = %q, want Assigned", updated.Status)
	}
	if updated.AssignedOfficer != "Pedro Garcia" {
		t.Errorf("assigned officer = %q, want Pedro Garcia", updated.AssignedOfficer)
	}
	if updated.AssignedOfficerID == nil || *updated.AssignedOfficerID != user.ID {
		t.Error("assigned officer id not set")
	}

	var counted models.Officer
	database.DB.First(&counted, officer.ID)
	if counted.AssignedCases != 1 {
		t.Errorf("assigned cases = %d, want 1", counted.AssignedCases)
	}

	var notif int64
	database.DB.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&notif)
	if notif != 1 {
		t.Errorf("assignment notifications = %d, want 1", notif)
	}
}

func TestResolveRequiresResolution(t *testing.T) {
	app := setupTestApp(t)
	report := createTestReport(t, app)

	resp := doJSON(t, app, "PUT", "/reports/"+itoa(report.ID), map[string]string{
		"status": "Resolved",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("resolve without resolution status = %d, want 400", resp.StatusCode)
	}

	database.DB.Create(&models.Resolution{
		ReportID:       report.ID,
		ResolutionDate: "2026-08-20",
		ResolutionType: "Settled",
		Description:    "Parties reached an agreement.",
	})

	resp = doJSON(t, app, "PUT", "/reports/"+itoa(report.ID), map[string]string{
		"status": "Resolved",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("resolve with resolution status = %d, want 200", resp.StatusCode)
	}

	var updated models.Report
	database.DB.First(&updated, report.ID)
	if updated.Status != models.StatusResolved {
		t.Errorf("status = %q, want Resolved", updated.Status)
	}
}

func TestReopenRequiresReason(t *testing.T) {
	app := setupTestApp(t)
	report := createTestReport(t, app)
	database.DB.Create(&models.Resolution{ReportID: report.ID, ResolutionDate: "2026-08-20", ResolutionType: "Settled"})
	database.DB.Model(&models.Report{}).Where("id = ?", report.ID).Update("status", models.StatusResolved)

	resp := doJSON(t, app, "PUT", "/reports/"+itoa(report.ID), map[string]string{
		"status": "Ongoing",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("reopen without reason status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, app, "PUT", "/reports/"+itoa(report.ID), map[string]string{
		"status":       "Ongoing",
		"reopenReason": "new evidence surfaced",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("reopen with reason status = %d, want 200", resp.StatusCode)
	}

	var reopenRows int64
	database.DB.Model(&models.ReportAuditLog{}).
		Where("report_id = ? AND action = ?", report.ID, "reopen").
		Count(&reopenRows)
	if reopenRows != 1 {
		t.Errorf("reopen audit rows = %d, want 1", reopenRows)
	}
}

func TestInvalidBackwardTransition(t *testing.T) {
	app := setupTestApp(t)
	report := createTestReport(t, app)
	database.DB.Model(&models.Report{}).Where("id = ?", report.ID).Update("status", models.StatusClosed)

	resp := doJSON(t, app, "PUT", "/reports/"+itoa(report.ID), map[string]string{
		"status":       "Pending",
		"reopenReason": "whatever",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("Closed -> Pending status = %d, want 400", resp.StatusCode)
	}
}

func TestUpdateWritesAuditRows(t *testing.T) {
	app := setupTestApp(t)
	report := createTestReport(t, app)

	resp := doJSON(t, app, "PUT", "/reports/"+itoa(report.ID), map[string]string{
		"incidentLocation": "Corner of 5th and Rizal",
		"priority":         "High",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("update status = %d, want 200", resp.StatusCode)
	}

	var rows []models.ReportAuditLog
	database.DB.Where("report_id = ?", report.ID).Find(&rows)
	if len(rows) != 2 {
		t.Fatalf("audit rows = %d, want 2", len(rows))
	}
	fields := map[string]bool{}
	for _, r := range rows {
		fields[r.FieldName] = true
	}
	if !fields["incident_location"] || !fields["priority"] {
		t.Errorf("audited fields = %v, want incident_location and priority", fields)
	}
}

func TestArchiveHidesFromDefaultListing(t *testing.T) {
	app := setupTestApp(t)
	report := createTestReport(t, app)

	resp := doJSON(t, app, "PUT", "/reports/"+itoa(report.ID)+"/archive", map[string]bool{"archived": true})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("archive status = %d, want 200", resp.StatusCode)
	}

	listCount := func(path string) int {
		resp := doJSON(t, app, "GET", path, nil)
		var out struct {
			Data []models.Report `json:"data"`
		}
		json.NewDecoder(resp.Body).Decode(&out)
		return len(out.Data)
	}

	if n := listCount("/reports"); n != 0 {
		t.Errorf("default listing rows = %d, want 0", n)
	}
	if n := listCount("/reports?archived=true"); n != 1 {
		t.Errorf("archived listing rows = %d, want 1", n)
	}
}

func TestDeleteCascadesToChildren(t *testing.T) {
	app := setupTestApp(t)
	report := createTestReport(t, app)

	doJSON(t, app, "POST", "/reports/"+itoa(report.ID)+"/suspects", map[string]string{"name": "Unknown male"})
	doJSON(t, app, "POST", "/reports/"+itoa(report.ID)+"/witnesses", map[string]string{"name": "Aling Nena"})
	doJSON(t, app, "POST", "/reports/"+itoa(report.ID)+"/evidence", map[string]string{"evidenceType": "Photo", "description": "CCTV still"})
	database.DB.Create(&models.Hearing{ReportID: report.ID, HearingDate: "2026-09-01", HearingTime: "10:00", Location: "Barangay Hall"})

	resp := doJSON(t, app, "DELETE", "/reports/"+itoa(report.ID), nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}

	for name, model := range map[string]interface{}{
		"suspects":  &models.Suspect{},
		"witnesses": &models.Witness{},
		"evidence":  &models.Evidence{},
		"hearings":  &models.Hearing{},
	} {
		var n int64
		database.DB.Model(model).Where("report_id = ?", report.ID).Count(&n)
		if n != 0 {
			t.Errorf("%s rows after delete = %d, want 0", name, n)
		}
	}

	resp = doJSON(t, app, "GET", "/reports/"+itoa(report.ID), nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("get deleted report status = %d, want 404", resp.StatusCode)
	}
}

func TestChildEndpointsRequireExistingReport(t *testing.T) {
	app := setupTestApp(t)
	resp := doJSON(t, app, "POST", "/reports/9999/suspects", map[string]string{"name": "Ghost"})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListByStatus(t *testing.T) {
	app := setupTestApp(t)
	createTestReport(t, app)

	resp := doJSON(t, app, "GET", "/reports/status/Pending", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out struct {
		Data []models.Report `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&out)
	if len(out.Data) != 1 {
		t.Errorf("Pending rows = %d, want 1", len(out.Data))
	}

	resp = doJSON(t, app, "GET", "/reports/status/Bogus", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("unknown status code = %d, want 400", resp.StatusCode)
	}
}

func itoa(id uint) string {
	return fmt.Sprint(id)
}
