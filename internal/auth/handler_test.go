package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blotter-backend/internal/config"
	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
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

	cfg := &config.Config{JWTSecret: "test-secret-test-secret-test-secret!"}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"success": false, "message": err.Error()})
		},
	})
	app.Post("/auth/register", RegisterHandler(cfg, nil))
	app.Post("/auth/login", LoginHandler(cfg))
	app.Post("/auth/verify-email", VerifyEmailHandler())
	app.Post("/auth/forgot-password", ForgotPasswordHandler(nil))
	app.Post("/auth/reset-password", ResetPasswordHandler())
	app.Post("/auth/google-signin", GoogleSignInHandler(cfg))
	return app
}

func jsonRequest(t *testing.T, app *fiber.App, method, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func registerPayload(email string) map[string]string {
	return map[string]string{
		"email":           email,
		"password":        "secret123",
		"confirmPassword": "secret123",
		"firstName":       "Juan",
		"lastName":        "Dela Cruz",
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	app := setupTestApp(t)

	payload := registerPayload("mismatch@test.local")
	payload["confirmPassword"] = "different"
	resp := jsonRequest(t, app, "POST", "/auth/register", payload)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("user count = %d after rejected registration, want 0", count)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	app := setupTestApp(t)

	resp := jsonRequest(t, app, "POST", "/auth/register", registerPayload("juan@test.local"))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	if data["token"] == "" || data["token"] == nil {
		t.Error("register response missing token")
	}

	var stored models.User
	if err := database.DB.Where("email = ?", "juan@test.local").First(&stored).Error; err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if stored.PasswordHash == "secret123" {
		t.Error("password stored in plaintext")
	}
	if !strings.HasPrefix(stored.PasswordHash, "$2") {
		t.Errorf("password hash %q is not bcrypt", stored.PasswordHash[:4])
	}
	if !stored.EmailVerified {
		t.Error("registered account should be email-verified")
	}

	resp = jsonRequest(t, app, "POST", "/auth/login", map[string]string{
		"username": "juan@test.local",
		"password": "secret123",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	data = body["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	if _, leaked := user["password"]; leaked {
		t.Error("login response leaks password field")
	}
	if data["token"] == nil {
		t.Error("login response missing token")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := setupTestApp(t)

	resp := jsonRequest(t, app, "POST", "/auth/register", registerPayload("dup@test.local"))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("first register status = %d, want 201", resp.StatusCode)
	}

	resp = jsonRequest(t, app, "POST", "/auth/register", registerPayload("dup@test.local"))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("duplicate register status = %d, want 400", resp.StatusCode)
	}

	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", "dup@test.local").Count(&count)
	if count != 1 {
		t.Errorf("user rows for duplicate email = %d, want 1", count)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupTestApp(t)
	jsonRequest(t, app, "POST", "/auth/register", registerPayload("wrong@test.local"))

	resp := jsonRequest(t, app, "POST", "/auth/login", map[string]string{
		"username": "wrong@test.local",
		"password": "not-the-password",
	})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	var failed int64
	database.DB.Model(&models.LoginLog{}).Where("status = ?", models.LoginStatusFailed).Count(&failed)
	if failed != 1 {
		t.Errorf("failed login log rows = %d, want 1", failed)
	}
}

func TestLoginUpgradesLegacyPlaintextPassword(t *testing.T) {
	app := setupTestApp(t)

	legacy := models.User{
		Email:        "legacy@test.local",
		PasswordHash: "oldplaintext",
		FirstName:    "Old",
		LastName:     "Account",
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
		IsActive:     true,
	}
	if err := database.DB.Create(&legacy).Error; err != nil {
		t.Fatalf("seed legacy user: %v", err)
	}

	resp := jsonRequest(t, app, "POST", "/auth/login", map[string]string{
		"username": "legacy@test.local",
		"password": "oldplaintext",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("legacy login status = %d, want 200", resp.StatusCode)
	}

	var upgraded models.User
	database.DB.First(&upgraded, legacy.ID)
	if !strings.HasPrefix(upgraded.PasswordHash, "$2") {
		t.Fatal("legacy password was not rehashed after login")
	}
	if bcrypt.CompareHashAndPassword([]byte(upgraded.PasswordHash), []byte("oldplaintext")) != nil {
		t.Error("rehashed password does not verify against the original")
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	app := setupTestApp(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := models.User{
		Email:        "inactive@test.local",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       "inactive",
		IsActive:     false,
	}
	database.DB.Create(&user)

	resp := jsonRequest(t, app, "POST", "/auth/login", map[string]string{
		"username": "inactive@test.local",
		"password": "secret123",
	})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func seedUserWithCode(t *testing.T, email, code string, expiry time.Time) models.User {
	t.Helper()
	millis := expiry.UnixMilli()
	user := models.User{
		Email:           email,
		PasswordHash:    "$2a$10$placeholderplaceholderplaceh",
		Role:            models.RoleUser,
		Status:          models.UserStatusActive,
		IsActive:        true,
		ResetCode:       &code,
		ResetCodeExpiry: &millis,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestVerifyEmailCodeIsSingleUse(t *testing.T) {
	app := setupTestApp(t)
	seedUserWithCode(t, "verify@test.local", "123456", time.Now().Add(10*time.Minute))

	payload := map[string]string{"email": "verify@test.local", "code": "123456"}

	resp := jsonRequest(t, app, "POST", "/auth/verify-email", payload)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("first redemption status = %d, want 200", resp.StatusCode)
	}

	var user models.User
	database.DB.Where("email = ?", "verify@test.local").First(&user)
	if !user.EmailVerified {
		t.Error("email not marked verified")
	}
	if user.ResetCode != nil {
		t.Error("code not cleared after redemption")
	}

	resp = jsonRequest(t, app, "POST", "/auth/verify-email", payload)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("second redemption status = %d, want 400", resp.StatusCode)
	}
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	app := setupTestApp(t)
	seedUserWithCode(t, "expired@test.local", "654321", time.Now().Add(-time.Minute))

	resp := jsonRequest(t, app, "POST", "/auth/verify-email", map[string]string{
		"email": "expired@test.local",
		"code":  "654321",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if msg, _ := body["message"].(string); !strings.Contains(msg, "expired") {
		t.Errorf("message = %q, want mention of expiry", msg)
	}
}

func TestVerifyEmailUnknownUser(t *testing.T) {
	app := setupTestApp(t)
	resp := jsonRequest(t, app, "POST", "/auth/verify-email", map[string]string{
		"email": "nobody@test.local",
		"code":  "000000",
	})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	app := setupTestApp(t)
	jsonRequest(t, app, "POST", "/auth/register", registerPayload("reset@test.local"))

	resp := jsonRequest(t, app, "POST", "/auth/forgot-password", map[string]string{
		"email": "reset@test.local",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("forgot-password status = %d, want 200", resp.StatusCode)
	}

	var user models.User
	database.DB.Where("email = ?", "reset@test.local").First(&user)
	if user.ResetCode == nil {
		t.Fatal("no reset code stored")
	}

	resp = jsonRequest(t, app, "POST", "/auth/reset-password", map[string]string{
		"email":       "reset@test.local",
		"code":        *user.ResetCode,
		"newPassword": "brandnew456",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("reset-password status = %d, want 200", resp.StatusCode)
	}

	resp = jsonRequest(t, app, "POST", "/auth/login", map[string]string{
		"username": "reset@test.local",
		"password": "brandnew456",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login with new password status = %d, want 200", resp.StatusCode)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	app := setupTestApp(t)
	resp := jsonRequest(t, app, "POST", "/auth/forgot-password", map[string]string{
		"email": "ghost@test.local",
	})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGoogleSignInCreatesAndReuses(t *testing.T) {
	app := setupTestApp(t)

	payload := map[string]string{
		"email":       "gmail@test.local",
		"displayName": "Maria Santos",
	}
	resp := jsonRequest(t, app, "POST", "/auth/google-signin", payload)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("first sign-in status = %d, want 200", resp.StatusCode)
	}

	resp = jsonRequest(t, app, "POST", "/auth/google-signin", payload)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("second sign-in status = %d, want 200", resp.StatusCode)
	}

	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", "gmail@test.local").Count(&count)
	if count != 1 {
		t.Errorf("user rows = %d, want 1", count)
	}

	var user models.User
	database.DB.Where("email = ?", "gmail@test.local").First(&user)
	if user.FirstName != "Maria" || user.LastName != "Santos" {
		t.Errorf("name = %q %q, want Maria Santos", user.FirstName, user.LastName)
	}
	if user.AuthMethod != models.AuthMethodGoogle {
		t.Errorf("auth method = %q, want GOOGLE", user.AuthMethod)
	}
}

func TestGoogleSignInConflictsWithPasswordAccount(t *testing.T) {
	app := setupTestApp(t)
	jsonRequest(t, app, "POST", "/auth/register", registerPayload("taken@test.local"))

	resp := jsonRequest(t, app, "POST", "/auth/google-signin", map[string]string{
		"email": "taken@test.local",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
