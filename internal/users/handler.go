package users

import (
	"context"
	"strings"
	"time"

	"blotter-backend/internal/auth"
	"blotter-backend/internal/database"
	"blotter-backend/internal/logs"
	"blotter-backend/internal/models"
	"blotter-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// GET /api/users
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch users")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    users,
		})
	}
}

// GET /api/users/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		if err := database.DB.First(&user, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    user,
		})
	}
}

// PUT /api/users/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		if err := database.DB.First(&user, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		var body struct {
			FirstName    *string `json:"firstName"`
			LastName     *string `json:"lastName"`
			Username     *string `json:"username"`
			ProfilePhoto *string `json:"profilePhotoUri"`
			DeviceID     *string `json:"deviceId"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		updates := map[string]interface{}{}
		if body.FirstName != nil {
			updates["first_name"] = *body.FirstName
		}
		if body.LastName != nil {
			updates["last_name"] = *body.LastName
		}
		if body.Username != nil {
			updates["username"] = *body.Username
		}
		if body.ProfilePhoto != nil {
			updates["profile_photo"] = *body.ProfilePhoto
		}
		if body.DeviceID != nil {
			updates["device_id"] = *body.DeviceID
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No fields to update")
		}

		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update user")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "User updated successfully",
			"data":    user,
		})
	}
}

// DELETE /api/users/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := database.DB.Delete(&models.User{}, c.Params("id"))
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete user")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		if actorID, ok := auth.UserID(c); ok {
			logs.RecordActivity(actorID, "delete", "user", 0, "deleted user "+c.Params("id"), c.IP(), c.Get("User-Agent"))
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "User deleted successfully",
		})
	}
}

// POST /api/users/fcm-token
func SaveFCMTokenHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			UserID   uint   `json:"userId"`
			FCMToken string `json:"fcmToken"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.FCMToken == "" {
			return fiber.NewError(fiber.StatusBadRequest, "FCM token is required")
		}

		userID := body.UserID
		if userID == 0 {
			if id, ok := auth.UserID(c); ok {
				userID = id
			}
		}

		res := database.DB.Model(&models.User{}).
			Where("id = ?", userID).
			Update("fcm_token", body.FCMToken)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save FCM token")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "FCM token saved",
		})
	}
}

// POST /api/users/:id/change-password
func ChangePasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.NewPassword) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 6 characters")
		}

		var user models.User
		if err := database.DB.First(&user, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		if strings.HasPrefix(user.PasswordHash, "$2") {
			if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.CurrentPassword)) != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "Current password is incorrect")
			}
		} else if user.PasswordHash != body.CurrentPassword {
			return fiber.NewError(fiber.StatusUnauthorized, "Current password is incorrect")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		if err := database.DB.Model(&user).Update("password", string(hash)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not change password")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Password changed successfully",
		})
	}
}

// POST /api/users/:id/upload-photo
func UploadPhotoHandler(uploader storage.ImageUploader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if uploader == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Image uploads are not configured")
		}

		var body struct {
			ImageURI string `json:"imageUri"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.ImageURI == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Image URI is required")
		}

		var user models.User
		if err := database.DB.First(&user, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		photoURL, err := uploader.UploadFromURL(ctx, body.ImageURI, "profile_photos")
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Image upload failed")
		}

		if err := database.DB.Model(&user).Update("profile_photo", photoURL).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save photo")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Profile photo updated",
			"data":    fiber.Map{"profilePhotoUri": photoURL},
		})
	}
}
