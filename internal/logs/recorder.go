package logs

import (
	"log"

	"blotter-backend/internal/database"
	"blotter-backend/internal/models"
)

// Recorders are best-effort: a failed insert is logged and swallowed so the
// primary operation never fails because of its paper trail.

func RecordActivity(userID uint, action, entityType string, entityID uint, details, ip, userAgent string) {
	entry := models.ActivityLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  ip,
		UserAgent:  userAgent,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("[WARN] activity log not recorded: %v", err)
	}
}

func RecordLogin(userID uint, ip, device, userAgent, status, failureReason string) {
	entry := models.LoginLog{
		UserID:        userID,
		IPAddress:     ip,
		Device:        device,
		UserAgent:     userAgent,
		Status:        status,
		FailureReason: failureReason,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("[WARN] login log not recorded: %v", err)
	}
}

func RecordError(severity, message, endpoint string, userID *uint) {
	entry := models.ErrorLog{
		Severity: severity,
		Message:  message,
		Endpoint: endpoint,
		UserID:   userID,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("[WARN] error log not recorded: %v", err)
	}
}
