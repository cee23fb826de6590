package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"blotter-backend/internal/config"
)

// Sender is the push-notification capability. Delivery is best-effort; the
// persisted notification row is the source of truth.
type Sender interface {
	Send(ctx context.Context, deviceToken, title, body string, data map[string]string) (string, error)
}

// FCMClient talks to the FCM legacy HTTP endpoint. A single JSON POST, so a
// plain http.Client is all it needs.
type FCMClient struct {
	serverKey string
	endpoint  string
	client    *http.Client
}

// NewFCMClient returns nil when no server key is configured; callers must
// treat a nil Sender as "push disabled".
func NewFCMClient(cfg *config.Config) *FCMClient {
	if cfg.FCMServerKey == "" {
		return nil
	}
	return &FCMClient{
		serverKey: cfg.FCMServerKey,
		endpoint:  cfg.FCMEndpoint,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

func (f *FCMClient) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) (string, error) {
	if deviceToken == "" {
		return "", fmt.Errorf("device token is required")
	}

	payload, err := json.Marshal(fcmMessage{
		To:           deviceToken,
		Notification: fcmNotification{Title: title, Body: body},
		Data:         data,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+f.serverKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fcm returned status %d", resp.StatusCode)
	}

	var out fcmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Success < 1 || len(out.Results) == 0 {
		if len(out.Results) > 0 && out.Results[0].Error != "" {
			return "", fmt.Errorf("fcm error: %s", out.Results[0].Error)
		}
		return "", fmt.Errorf("fcm rejected the message")
	}

	return out.Results[0].MessageID, nil
}
