package auth

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"blotter-backend/internal/config"
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

const (
	verificationCodeTTL = 10 * time.Minute
	resetCodeTTL        = time.Hour
)

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	ProfilePhoto    string `json:"profilePhoto"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// userPayload is the sanitized user projection returned by the auth endpoints.
// It never includes the password hash.
func userPayload(u *models.User) fiber.Map {
	username := u.FirstName
	if u.Username != nil && *u.Username != "" {
		username = *u.Username
	}
	return fiber.Map{
		"id":               u.ID,
		"username":         username,
		"firstName":        u.FirstName,
		"lastName":         u.LastName,
		"email":            u.Email,
		"role":             u.Role,
		"profilePhotoUri":  u.ProfilePhoto,
		"profileCompleted": u.ProfileCompleted,
	}
}

func generateCode() string {
	return fmt.Sprintf("%06d", rand.Intn(900000)+100000)
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$")
}

// POST /api/auth/register
func RegisterHandler(cfg *config.Config, mailer mail.Mailer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}
		if body.Password != body.ConfirmPassword {
			return fiber.NewError(fiber.StatusBadRequest, "Passwords do not match")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Email:        body.Email,
			PasswordHash: string(hash),
			FirstName:    body.FirstName,
			LastName:     body.LastName,
			Role:         models.RoleUser,
			Status:       models.UserStatusActive,
			IsActive:     true,
			AuthMethod:   models.AuthMethodPassword,
			ProfilePhoto: body.ProfilePhoto,
		}
		if body.Username != "" {
			user.Username = &body.Username
		}

		// The unique index on email is the uniqueness guard; a pre-check
		// would race with concurrent registrations.
		if err := database.DB.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "Email already exists")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		// The verification gate is disabled: accounts are promoted immediately,
		// the emailed code is informational.
		code := generateCode()
		expiry := time.Now().Add(verificationCodeTTL).UnixMilli()
		database.DB.Model(&user).Updates(map[string]interface{}{
			"email_verified":    true,
			"reset_code":        code,
			"reset_code_expiry": expiry,
		})

		subject, htmlBody := mail.VerificationEmail(code, body.FirstName)
		mail.SendAsync(mailer, body.Email, subject, htmlBody)

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		logs.RecordActivity(user.ID, "register", "user", user.ID, "", c.IP(), c.Get("User-Agent"))

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "Registration successful. Verification code sent to your email.",
			"data": fiber.Map{
				"user":  userPayload(&user),
				"token": token,
			},
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		identity := strings.TrimSpace(strings.ToLower(body.Username))

		var user models.User
		if err := database.DB.Where("email = ?", identity).First(&user).Error; err != nil {
			logs.RecordLogin(0, c.IP(), "", c.Get("User-Agent"), models.LoginStatusFailed, "unknown email")
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		var passwordMatch bool
		if isBcryptHash(user.PasswordHash) {
			passwordMatch = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)) == nil
		} else {
			// Legacy rows hold plaintext passwords. Upgrade to bcrypt
			// transparently on the first successful login.
			passwordMatch = user.PasswordHash == body.Password
			if passwordMatch {
				if hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost); err == nil {
					database.DB.Model(&user).Update("password", string(hash))
				}
			}
		}
		if !passwordMatch {
			logs.RecordLogin(user.ID, c.IP(), "", c.Get("User-Agent"), models.LoginStatusFailed, "wrong password")
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		if user.Status != models.UserStatusActive || !user.IsActive {
			logs.RecordLogin(user.ID, c.IP(), "", c.Get("User-Agent"), models.LoginStatusFailed, "inactive account")
			return fiber.NewError(fiber.StatusForbidden, "Account is inactive")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		now := time.Now()
		database.DB.Model(&user).Update("last_login", now)
		logs.RecordLogin(user.ID, c.IP(), user.DeviceID, c.Get("User-Agent"), models.LoginStatusSuccess, "")

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Login successful",
			"data": fiber.Map{
				"user":  userPayload(&user),
				"token": token,
			},
		})
	}
}

// POST /api/auth/send-verification-code
func SendVerificationCodeHandler(mailer mail.Mailer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Email string `json:"email" validate:"required,email"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "A valid email is required")
		}

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		code := generateCode()
		expiry := time.Now().Add(verificationCodeTTL).UnixMilli()
		if err := database.DB.Model(&user).Updates(map[string]interface{}{
			"reset_code":        code,
			"reset_code_expiry": expiry,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not store verification code")
		}

		subject, htmlBody := mail.VerificationEmail(code, user.FirstName)
		mail.SendAsync(mailer, body.Email, subject, htmlBody)

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Verification code sent to your email",
		})
	}
}

// redeemCode atomically consumes a pending code: the conditional UPDATE is the
// race guard, so exactly one of N concurrent redemptions succeeds. The follow-up
// read only picks the right error message.
func redeemCode(email, code string, updates map[string]interface{}, kind string) error {
	updates["reset_code"] = nil
	updates["reset_code_expiry"] = nil

	res := database.DB.Model(&models.User{}).
		Where("email = ? AND reset_code = ? AND reset_code_expiry >= ?", email, code, time.Now().UnixMilli()).
		Updates(updates)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not verify code")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if user.ResetCode == nil || *user.ResetCode != code {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid "+kind+" code")
	}
	return fiber.NewError(fiber.StatusBadRequest, "The "+kind+" code has expired")
}

// POST /api/auth/verify-email
func VerifyEmailHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Email string `json:"email"`
			Code  string `json:"code"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if err := redeemCode(body.Email, body.Code, map[string]interface{}{
			"email_verified": true,
		}, "verification"); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Email verified successfully",
		})
	}
}

// POST /api/auth/forgot-password
func ForgotPasswordHandler(mailer mail.Mailer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Email string `json:"email"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Email not found")
		}

		code := generateCode()
		expiry := time.Now().Add(resetCodeTTL).UnixMilli()
		if err := database.DB.Model(&user).Updates(map[string]interface{}{
			"reset_code":        code,
			"reset_code_expiry": expiry,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not store reset code")
		}

		// Email failure does not fail the request; the code is valid either way.
		subject, htmlBody := mail.PasswordResetEmail(code, user.FirstName)
		mail.SendAsync(mailer, body.Email, subject, htmlBody)

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Password reset code sent to your email",
		})
	}
}

// POST /api/auth/reset-password
func ResetPasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Email       string `json:"email"`
			Code        string `json:"code"`
			NewPassword string `json:"newPassword"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if len(body.NewPassword) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 6 characters")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		if err := redeemCode(body.Email, body.Code, map[string]interface{}{
			"password": string(hash),
		}, "reset"); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Password reset successfully",
		})
	}
}

// POST /api/auth/google-signin
func GoogleSignInHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Email       string `json:"email" validate:"required,email"`
			DisplayName string `json:"displayName"`
			PhotoURL    string `json:"photoUrl"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "A valid email is required")
		}

		var user models.User
		err := database.DB.Where("email = ?", body.Email).First(&user).Error
		switch {
		case err == nil:
			if user.AuthMethod != "" && user.AuthMethod != models.AuthMethodGoogle {
				return fiber.NewError(fiber.StatusBadRequest,
					"This email is already registered. Please sign in with username and password.")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			firstName, lastName := "User", "Account"
			if name := strings.TrimSpace(body.DisplayName); name != "" {
				parts := strings.SplitN(name, " ", 2)
				firstName = parts[0]
				if len(parts) > 1 {
					lastName = parts[1]
				}
			}
			username := strings.SplitN(body.Email, "@", 2)[0]

			user = models.User{
				Username:         &username,
				Email:            body.Email,
				FirstName:        firstName,
				LastName:         lastName,
				Role:             models.RoleUser,
				Status:           models.UserStatusActive,
				EmailVerified:    true,
				IsActive:         true,
				ProfilePhoto:     body.PhotoURL,
				AuthMethod:       models.AuthMethodGoogle,
				ProfileCompleted: false,
			}
			if err := database.DB.Create(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Lost a race with a concurrent sign-in for the same email.
					if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
						return fiber.NewError(fiber.StatusInternalServerError, "Google Sign-In failed")
					}
				} else {
					return fiber.NewError(fiber.StatusInternalServerError, "Google Sign-In failed")
				}
			}
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Google Sign-In failed")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Google Sign-In successful",
			"data": fiber.Map{
				"user":  userPayload(&user),
				"token": token,
			},
		})
	}
}

// PUT /api/auth/profile/:userId
func UpdateProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			ProfilePhotoURI  string `json:"profilePhotoUri"`
			ProfileCompleted *bool  `json:"profileCompleted"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		completed := true
		if body.ProfileCompleted != nil {
			completed = *body.ProfileCompleted
		}

		res := database.DB.Model(&models.User{}).
			Where("id = ?", c.Params("userId")).
			Updates(map[string]interface{}{
				"profile_photo":     body.ProfilePhotoURI,
				"profile_completed": completed,
			})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update profile")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Profile updated successfully",
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "User information unavailable")
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    userPayload(&user),
		})
	}
}
