package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Optional login rate limiting. Disabled when RedisAddr is empty.
	RedisAddr     string
	RedisPassword string

	// SMTP for the mailer capability. Mail sending is skipped when SMTPHost is empty.
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// FCM push gateway. Push is skipped when FCMServerKey is empty.
	FCMServerKey string
	FCMEndpoint  string

	// Cloudinary-style unsigned image upload.
	CloudName    string
	UploadPreset string

	// Directory where export artifacts (pdf/csv/xlsx) are written and served from.
	ExportDir string
}

func Load() *Config {
	// .env is optional, only for local development.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=blotter port=5432 sslmode=disable"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPass:      getEnv("SMTP_PASS", ""),
		MailFrom:      getEnv("MAIL_FROM", "noreply@bms.local"),
		FCMServerKey:  getEnv("FCM_SERVER_KEY", ""),
		FCMEndpoint:   getEnv("FCM_ENDPOINT", "https://fcm.googleapis.com/fcm/send"),
		CloudName:     getEnv("CLOUDINARY_CLOUD_NAME", ""),
		UploadPreset:  getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
		ExportDir:     getEnv("EXPORT_DIR", "./exports"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment variable is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.SMTPHost == "" {
		log.Println("[WARN] SMTP_HOST not set, outbound email disabled")
	}
	if cfg.FCMServerKey == "" {
		log.Println("[WARN] FCM_SERVER_KEY not set, push notifications disabled")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscan(v, &n); err != nil {
		return def
	}
	return n
}
