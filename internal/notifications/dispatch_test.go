package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type failingSender struct{ calls chan struct{} }

func (f *failingSender) Send(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	if f.calls != nil {
		f.calls <- struct{}{}
	}
	return "", errors.New("gateway unreachable")
}

func setupTestDB(t *testing.T) {
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
}

func TestNotifyPersistsWhenPushFails(t *testing.T) {
	setupTestDB(t)

	user := models.User{Email: "push@test.local", PasswordHash: "x", FCMToken: "device-token-1",
		Role: models.RoleUser, Status: models.UserStatusActive, IsActive: true}
	database.DB.Create(&user)

	sender := &failingSender{calls: make(chan struct{}, 1)}
	d := NewDispatcher(sender)

	n, err := d.Notify(user.ID, "Case Update", "Your case was assigned.", "assignment", nil)
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if n.ID == 0 {
		t.Fatal("notification was not persisted")
	}

	select {
	case <-sender.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("push sender was never invoked")
	}

	var count int64
	database.DB.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("stored notifications = %d, want 1", count)
	}
}

func TestNotifyWithoutPushSender(t *testing.T) {
	setupTestDB(t)

	d := NewDispatcher(nil)
	n, err := d.Notify(42, "Hello", "No push configured.", "info", nil)
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if n.IsRead {
		t.Error("new notification should be unread")
	}
}

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"success": false, "message": err.Error()})
		},
	})
	app.Get("/notifications/:userId", ListByUserHandler())
	app.Put("/notifications/:userId/read-all", MarkAllReadHandler())
	app.Put("/notifications/:id/read", MarkReadHandler())
	app.Delete("/notifications/:id", DeleteHandler())
	return app
}

func TestMarkReadUnknownNotification(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPut, "/notifications/9999/read", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListAndMarkAllRead(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	d := NewDispatcher(nil)
	d.Notify(7, "First", "msg", "info", nil)
	d.Notify(7, "Second", "msg", "info", nil)
	d.Notify(8, "Other user", "msg", "info", nil)

	req := httptest.NewRequest(http.MethodGet, "/notifications/7", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	var out struct {
		Data struct {
			Notifications []models.Notification `json:"notifications"`
			UnreadCount   int64                 `json:"unreadCount"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data.Notifications) != 2 {
		t.Errorf("notifications = %d, want 2", len(out.Data.Notifications))
	}
	if out.Data.UnreadCount != 2 {
		t.Errorf("unread = %d, want 2", out.Data.UnreadCount)
	}

	req = httptest.NewRequest(http.MethodPut, "/notifications/7/read-all", bytes.NewReader(nil))
	if _, err := app.Test(req, -1); err != nil {
		t.Fatalf("read-all request failed: %v", err)
	}

	var unread int64
	database.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", 7, false).Count(&unread)
	if unread != 0 {
		t.Errorf("unread after read-all = %d, want 0", unread)
	}
}
