package officers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupOfficerApp(t *testing.T) *fiber.App {
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
	app.Post("/officers", CreateHandler(nil))
	app.Delete("/officers/:id", DeleteHandler())
	app.Get("/departments", ListDepartmentsHandler())
	return app
}

func TestCreateOfficerGeneratesCredentials(t *testing.T) {
	app := setupOfficerApp(t)

	payload, _ := json.Marshal(map[string]interface{}{
		"email":      "rosa.cruz@test.local",
		"firstName":  "Rosa",
		"lastName":   "Cruz",
		"department": "Patrol",
	})
	req := httptest.NewRequest(http.MethodPost, "/officers", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var out struct {
		Data struct {
			Credentials struct {
				Username string `json:"username"`
				Password string `json:"password"`
			} `json:"credentials"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	creds := out.Data.Credentials
	if !strings.HasPrefix(creds.Username, "rosa.cruz.") {
		t.Errorf("username = %q, want rosa.cruz.XXXX", creds.Username)
	}
	if len(creds.Password) != 12 {
		t.Errorf("password length = %d, want 12", len(creds.Password))
	}

	var user models.User
	if err := database.DB.Where("email = ?", "rosa.cruz@test.local").First(&user).Error; err != nil {
		t.Fatalf("officer user not created: %v", err)
	}
	if user.Role != models.RoleOfficer {
		t.Errorf("role = %q, want officer", user.Role)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		t.Error("stored hash does not match returned password")
	}

	var officer models.Officer
	if err := database.DB.Where("user_id = ?", user.ID).First(&officer).Error; err != nil {
		t.Fatalf("officer row not created: %v", err)
	}
	if officer.Department != "Patrol" {
		t.Errorf("department = %q, want Patrol", officer.Department)
	}
}

func TestDeleteOfficerRemovesUserAccount(t *testing.T) {
	app := setupOfficerApp(t)

	user := models.User{Email: "gone@test.local", PasswordHash: "x", Role: models.RoleOfficer,
		Status: models.UserStatusActive, IsActive: true}
	database.DB.Create(&user)
	officer := models.Officer{UserID: user.ID, Department: "Patrol"}
	database.DB.Create(&officer)

	req := httptest.NewRequest(http.MethodDelete, "/officers/1", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var users int64
	database.DB.Model(&models.User{}).Where("id = ?", user.ID).Count(&users)
	if users != 0 {
		t.Error("user account survived officer deletion")
	}
}

func TestDepartmentCounts(t *testing.T) {
	app := setupOfficerApp(t)

	for i, dep := range []string{"Patrol", "Patrol", "Investigation"} {
		u := models.User{Email: fmt.Sprintf("o%d@test.local", i), PasswordHash: "x",
			Role: models.RoleOfficer, Status: models.UserStatusActive, IsActive: true}
		database.DB.Create(&u)
		database.DB.Create(&models.Officer{UserID: u.ID, Department: dep})
	}

	req := httptest.NewRequest(http.MethodGet, "/departments", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var out struct {
		Data []struct {
			Department   string `json:"department"`
			OfficerCount int64  `json:"officerCount"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data) != 2 {
		t.Fatalf("departments = %d, want 2", len(out.Data))
	}
	counts := map[string]int64{}
	for _, d := range out.Data {
		counts[d.Department] = d.OfficerCount
	}
	if counts["Patrol"] != 2 || counts["Investigation"] != 1 {
		t.Errorf("counts = %v, want Patrol:2 Investigation:1", counts)
	}
}
