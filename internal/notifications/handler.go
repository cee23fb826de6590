package notifications

import (
	"context"
	"time"

	"blotter-backend/internal/database"
	"blotter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/notifications/:userId
func ListByUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.Notification
		err := database.DB.Where("user_id = ?", c.Params("userId")).
			Order("created_at DESC").
			Limit(100).
			Find(&items).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch notifications")
		}

		var unread int64
		database.DB.Model(&models.Notification{}).
			Where("user_id = ? AND is_read = ?", c.Params("userId"), false).
			Count(&unread)

		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"notifications": items,
				"unreadCount":   unread,
			},
		})
	}
}

// POST /api/notifications
func CreateHandler(d *Dispatcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			UserID          uint   `json:"userId"`
			Title           string `json:"title"`
			Message         string `json:"message"`
			Type            string `json:"type"`
			RelatedReportID *uint  `json:"relatedReportId"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.UserID == 0 || body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "User and title are required")
		}

		n, err := d.Notify(body.UserID, body.Title, body.Message, body.Type, body.RelatedReportID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create notification")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Notification created",
			"data":    n,
		})
	}
}

// PUT /api/notifications/:id/read
func MarkReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		res := database.DB.Model(&models.Notification{}).
			Where("id = ?", c.Params("id")).
			Updates(map[string]interface{}{
				"is_read": true,
				"read_at": now,
			})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update notification")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Notification not found")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Notification marked as read",
		})
	}
}

// PUT /api/notifications/:userId/read-all
func MarkAllReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		res := database.DB.Model(&models.Notification{}).
			Where("user_id = ? AND is_read = ?", c.Params("userId"), false).
			Updates(map[string]interface{}{
				"is_read": true,
				"read_at": now,
			})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update notifications")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "All notifications marked as read",
			"data":    fiber.Map{"updated": res.RowsAffected},
		})
	}
}

// DELETE /api/notifications/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := database.DB.Delete(&models.Notification{}, c.Params("id"))
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete notification")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Notification not found")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Notification deleted",
		})
	}
}

// POST /api/notifications/send-push
//
// Direct push without a stored notification. Unlike Notify, the push result is
// the whole point here, so failures are reported to the caller.
func SendPushHandler(d *Dispatcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			UserID  uint              `json:"userId"`
			Title   string            `json:"title"`
			Message string            `json:"message"`
			Data    map[string]string `json:"data"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if d == nil || d.Push == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Push notifications are not configured")
		}

		var user models.User
		if err := database.DB.First(&user, body.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		if user.FCMToken == "" {
			return fiber.NewError(fiber.StatusBadRequest, "User has no registered device token")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		messageID, err := d.Push.Send(ctx, user.FCMToken, body.Title, body.Message, body.Data)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Push delivery failed")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Push notification sent",
			"data":    fiber.Map{"messageId": messageID},
		})
	}
}
