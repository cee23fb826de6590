package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blotter-backend/internal/config"
)

// ImageUploader is the image-storage capability. Unlike mail and push, an
// upload endpoint's whole purpose is this call, so its failure is the caller's
// failure.
type ImageUploader interface {
	UploadFromURL(ctx context.Context, sourceURL, folder string) (string, error)
}

// CloudinaryUploader uses the unsigned upload API: one form POST with the
// source URL as the file parameter.
type CloudinaryUploader struct {
	cloudName    string
	uploadPreset string
	client       *http.Client
}

// NewCloudinaryUploader returns nil when not configured.
func NewCloudinaryUploader(cfg *config.Config) *CloudinaryUploader {
	if cfg.CloudName == "" || cfg.UploadPreset == "" {
		return nil
	}
	return &CloudinaryUploader{
		cloudName:    cfg.CloudName,
		uploadPreset: cfg.UploadPreset,
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

func (u *CloudinaryUploader) UploadFromURL(ctx context.Context, sourceURL, folder string) (string, error) {
	form := url.Values{}
	form.Set("file", sourceURL)
	form.Set("upload_preset", u.uploadPreset)
	if folder != "" {
		form.Set("folder", folder)
	}

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload service returned status %d", resp.StatusCode)
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("upload service returned no URL")
	}
	return out.SecureURL, nil
}
