package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"blotter-backend/internal/database"
	"blotter-backend/internal/models"
	"blotter-backend/internal/push"
)

// Dispatcher persists notifications and forwards them to the recipient's
// device when push is configured. The database row is the source of truth;
// push delivery is best-effort.
type Dispatcher struct {
	Push push.Sender
}

func NewDispatcher(sender push.Sender) *Dispatcher {
	return &Dispatcher{Push: sender}
}

// Notify stores the notification and fires a push in the background.
func (d *Dispatcher) Notify(userID uint, title, message, notifType string, reportID *uint) (*models.Notification, error) {
	n := models.Notification{
		UserID:          userID,
		Title:           title,
		Message:         message,
		Type:            notifType,
		RelatedReportID: reportID,
	}
	if err := database.DB.Create(&n).Error; err != nil {
		return nil, err
	}

	if d != nil && d.Push != nil {
		go d.sendPush(userID, title, message, reportID)
	}
	return &n, nil
}

func (d *Dispatcher) sendPush(userID uint, title, message string, reportID *uint) {
	var user models.User
	if err := database.DB.Select("fcm_token").First(&user, userID).Error; err != nil || user.FCMToken == "" {
		return
	}

	data := map[string]string{"type": "notification"}
	if reportID != nil {
		data["reportId"] = fmt.Sprint(*reportID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := d.Push.Send(ctx, user.FCMToken, title, message, data); err != nil {
		log.Printf("[WARN] push to user %d not delivered: %v", userID, err)
	}
}
