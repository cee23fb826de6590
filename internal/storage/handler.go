package storage

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// POST /api/upload/image
func UploadImageHandler(uploader ImageUploader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if uploader == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Image uploads are not configured")
		}

		var body struct {
			ImageURI string `json:"imageUri"`
			Folder   string `json:"folder"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.ImageURI == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Image URI is required")
		}
		if body.Folder == "" {
			body.Folder = "uploads"
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		hostedURL, err := uploader.UploadFromURL(ctx, body.ImageURI, body.Folder)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Image upload failed")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Image uploaded",
			"data":    fiber.Map{"url": hostedURL},
		})
	}
}
