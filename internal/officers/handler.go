package officers

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"blotter-backend/internal/auth"
	"blotter-backend/internal/database"
	"blotter-backend/internal/logs"
	"blotter-backend/internal/mail"
	"blotter-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%"

func generateUsername(firstName, lastName string) string {
	first := strings.ToLower(strings.ReplaceAll(firstName, " ", ""))
	last := strings.ToLower(strings.ReplaceAll(lastName, " ", ""))
	return fmt.Sprintf("%s.%s.%04d", first, last, rand.Intn(10000))
}

func generatePassword() string {
	b := make([]byte, 12)
	for i := range b {
		b[i] = passwordCharset[rand.Intn(len(passwordCharset))]
	}
	return string(b)
}

type CreateOfficerRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	FirstName      string  `json:"firstName" validate:"required"`
	LastName       string  `json:"lastName" validate:"required"`
	BadgeNumber    *string `json:"badgeNumber"`
	Rank           string  `json:"rank"`
	Department     string  `json:"department" validate:"required"`
	YearsOfService int     `json:"yearsOfService"`
}

// GET /api/officers
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var officers []models.Officer
		if err := database.DB.Preload("User").Order("created_at DESC").Find(&officers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not fetch officers")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    officers,
		})
	}
}

// GET /api/officers/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var officer models.Officer
		if err := database.DB.Preload("User").First(&officer, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Officer not found")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    officer,
		})
	}
}

// POST /api/officers
//
// Creates the user account and the officer profile in one transaction, and
// returns the generated credentials exactly once in the response.
func CreateHandler(mailer mail.Mailer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOfficerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Email, name and department are required")
		}

		username := generateUsername(body.FirstName, body.LastName)
		password := generatePassword()

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Username:      &username,
			Email:         body.Email,
			PasswordHash:  string(hash),
			FirstName:     body.FirstName,
			LastName:      body.LastName,
			Role:          models.RoleOfficer,
			Status:        models.UserStatusActive,
			EmailVerified: true,
			IsActive:      true,
			AuthMethod:    models.AuthMethodPassword,
		}
		officer := models.Officer{
			BadgeNumber:    body.BadgeNumber,
			Rank:           body.Rank,
			Department:     body.Department,
			YearsOfService: body.YearsOfService,
			IsAvailable:    true,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			officer.UserID = user.ID
			return tx.Create(&officer).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "Email or badge number already exists")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create officer")
		}

		subject, htmlBody := mail.OfficerCredentialsEmail(body.FirstName, username, password)
		mail.SendAsync(mailer, body.Email, subject, htmlBody)

		if actorID, ok := auth.UserID(c); ok {
			logs.RecordActivity(actorID, "create", "officer", officer.ID, "created officer "+body.Email, c.IP(), c.Get("User-Agent"))
		}

		officer.User = &user
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Officer created successfully",
			"data": fiber.Map{
				"officer": officer,
				"credentials": fiber.Map{
					"username": username,
					"password": password,
				},
			},
		})
	}
}

// PUT /api/officers/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var officer models.Officer
		if err := database.DB.First(&officer, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Officer not found")
		}

		var body struct {
			BadgeNumber       *string  `json:"badgeNumber"`
			Rank              *string  `json:"rank"`
			Department        *string  `json:"department"`
			YearsOfService    *int    `json:"yearsOfService"`
			PerformanceRating *string `json:"performanceRating"`
			IsAvailable       *bool   `json:"isAvailable"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		updates := map[string]interface{}{}
		if body.BadgeNumber != nil {
			updates["badge_number"] = *body.BadgeNumber
		}
		if body.Rank != nil {
			updates["rank"] = *body.Rank
		}
		if body.Department != nil {
			updates["department"] = *body.Department
		}
		if body.YearsOfService != nil {
			updates["years_of_service"] = *body.YearsOfService
		}
		if body.PerformanceRating != nil {
			updates["performance_rating"] = *body.PerformanceRating
		}
		if body.IsAvailable != nil {
			updates["is_available"] = *body.IsAvailable
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No fields to update")
		}

		if err := database.DB.Model(&officer).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "Badge number already exists")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update officer")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Officer updated successfully",
			"data":    officer,
		})
	}
}

// DELETE /api/officers/:id
//
// Removes the officer profile and its user account together.
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var officer models.Officer
		if err := database.DB.First(&officer, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Officer not found")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&officer).Error; err != nil {
				return err
			}
			return tx.Delete(&models.User{}, officer.UserID).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete officer")
		}

		if actorID, ok := auth.UserID(c); ok {
			logs.RecordActivity(actorID, "delete", "officer", officer.ID, "", c.IP(), c.Get("User-Agent"))
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Officer deleted successfully",
		})
	}
}

// PUT /api/officers/:id/availability
func SetAvailabilityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			IsAvailable bool `json:"isAvailable"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		res := database.DB.Model(&models.Officer{}).
			Where("id = ?", c.Params("id")).
			Update("is_available", body.IsAvailable)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update availability")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Officer not found")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Availability updated",
		})
	}
}

// PUT /api/officers/:id/status
//
// Activates or deactivates the officer's user account. Deactivation is
// logical; the records stay.
func SetStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			IsActive bool `json:"isActive"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var officer models.Officer
		if err := database.DB.First(&officer, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Officer not found")
		}

		status := models.UserStatusActive
		if !body.IsActive {
			status = "inactive"
		}
		err := database.DB.Model(&models.User{}).
			Where("id = ?", officer.UserID).
			Updates(map[string]interface{}{
				"is_active": body.IsActive,
				"status":    status,
			}).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update officer status")
		}

		if actorID, ok := auth.UserID(c); ok {
			action := "deactivate"
			if body.IsActive {
				action = "activate"
			}
			logs.RecordActivity(actorID, action, "officer", officer.ID, "", c.IP(), c.Get("User-Agent"))
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Officer status updated",
		})
	}
}

// POST /api/officers/:id/send-credentials
//
// Resets the officer's password and emails the new credentials.
func SendCredentialsHandler(mailer mail.Mailer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var officer models.Officer
		if err := database.DB.Preload("User").First(&officer, c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Officer not found")
		}
		if officer.User == nil {
			return fiber.NewError(fiber.StatusNotFound, "Officer account not found")
		}
		if mailer == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Email delivery is not configured")
		}

		password := generatePassword()
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}
		if err := database.DB.Model(officer.User).Update("password", string(hash)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not reset password")
		}

		username := officer.User.Email
		if officer.User.Username != nil {
			username = *officer.User.Username
		}
		subject, htmlBody := mail.OfficerCredentialsEmail(officer.User.FirstName, username, password)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mailer.Send(ctx, officer.User.Email, subject, htmlBody); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Could not send credentials email")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Credentials sent to " + officer.User.Email,
		})
	}
}
