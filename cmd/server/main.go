package main

import (
	"errors"
	"log"
	"strings"
	"time"

	"blotter-backend/internal/admin"
	"blotter-backend/internal/analytics"
	"blotter-backend/internal/auth"
	"blotter-backend/internal/config"
	"blotter-backend/internal/dashboard"
	"blotter-backend/internal/database"
	"blotter-backend/internal/exports"
	"blotter-backend/internal/hearings"
	"blotter-backend/internal/logs"
	"blotter-backend/internal/mail"
	"blotter-backend/internal/models"
	"blotter-backend/internal/notifications"
	"blotter-backend/internal/officers"
	"blotter-backend/internal/push"
	"blotter-backend/internal/ratelimit"
	"blotter-backend/internal/reports"
	"blotter-backend/internal/resolutions"
	"blotter-backend/internal/search"
	"blotter-backend/internal/storage"
	"blotter-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= 500 {
		var userID *uint
		if id, ok := auth.UserID(c); ok {
			userID = &id
		}
		logs.RecordError("error", err.Error(), c.Path(), userID)
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func main() {
	cfg := config.Load()
	database.Init(cfg)

	var mailer mail.Mailer
	if m := mail.NewSMTPMailer(cfg); m != nil {
		mailer = m
	}
	var pusher push.Sender
	if p := push.NewFCMClient(cfg); p != nil {
		pusher = p
	}
	var uploader storage.ImageUploader
	if u := storage.NewCloudinaryUploader(cfg); u != nil {
		uploader = u
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	dispatcher := notifications.NewDispatcher(pusher)

	exporter, err := exports.NewExporter(cfg)
	if err != nil {
		log.Fatalf("Could not prepare export directory: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "blotter-backend",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(splitAndTrim(cfg.CORSOrigins), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Static("/exports", cfg.ExportDir)

	api := app.Group("/api")

	// Public credential endpoints.
	authGroup := api.Group("/auth")
	authGroup.Post("/register", auth.RegisterHandler(cfg, mailer))
	authGroup.Post("/login", ratelimit.LoginLimiter(redisClient, 10, time.Minute), auth.LoginHandler(cfg))
	authGroup.Post("/send-verification-code", auth.SendVerificationCodeHandler(mailer))
	authGroup.Post("/verify-email", auth.VerifyEmailHandler())
	authGroup.Post("/forgot-password", auth.ForgotPasswordHandler(mailer))
	authGroup.Post("/reset-password", auth.ResetPasswordHandler())
	authGroup.Post("/google-signin", auth.GoogleSignInHandler(cfg))

	// Everything below requires a valid token.
	api.Use(auth.JWTMiddleware(cfg))

	authGroup.Get("/me", auth.MeHandler())
	authGroup.Put("/profile/:userId", auth.UpdateProfileHandler())

	userGroup := api.Group("/users")
	userGroup.Get("/", users.ListHandler())
	userGroup.Post("/fcm-token", users.SaveFCMTokenHandler())
	userGroup.Get("/:id", users.GetHandler())
	userGroup.Put("/:id", users.UpdateHandler())
	userGroup.Delete("/:id", auth.RequireRole(models.RoleAdmin), users.DeleteHandler())
	userGroup.Post("/:id/change-password", users.ChangePasswordHandler())
	userGroup.Post("/:id/upload-photo", users.UploadPhotoHandler(uploader))

	officerGroup := api.Group("/officers")
	officerGroup.Get("/", officers.ListHandler())
	officerGroup.Post("/", auth.RequireRole(models.RoleAdmin), officers.CreateHandler(mailer))
	officerGroup.Get("/:id", officers.GetHandler())
	officerGroup.Put("/:id", auth.RequireRole(models.RoleAdmin), officers.UpdateHandler())
	officerGroup.Delete("/:id", auth.RequireRole(models.RoleAdmin), officers.DeleteHandler())
	officerGroup.Put("/:id/availability", officers.SetAvailabilityHandler())
	officerGroup.Put("/:id/status", auth.RequireRole(models.RoleAdmin), officers.SetStatusHandler())
	officerGroup.Post("/:id/send-credentials", auth.RequireRole(models.RoleAdmin), officers.SendCredentialsHandler(mailer))

	api.Get("/departments", officers.ListDepartmentsHandler())
	api.Get("/departments/:name/officers", officers.OfficersByDepartmentHandler())

	reportGroup := api.Group("/reports")
	reportGroup.Get("/", reports.ListHandler())
	reportGroup.Post("/", reports.CreateHandler())
	reportGroup.Get("/status/:status", reports.ListByStatusHandler())
	reportGroup.Get("/user/:userId", reports.ListByUserHandler())
	reportGroup.Get("/:id", reports.GetHandler())
	reportGroup.Put("/:id", reports.UpdateHandler())
	reportGroup.Delete("/:id", auth.RequireRole(models.RoleAdmin), reports.DeleteHandler())
	reportGroup.Put("/:id/assign", auth.RequireRole(models.RoleAdmin, models.RoleOfficer), reports.AssignHandler(dispatcher))
	reportGroup.Put("/:id/unassign", auth.RequireRole(models.RoleAdmin, models.RoleOfficer), reports.UnassignHandler())
	reportGroup.Put("/:id/archive", auth.RequireRole(models.RoleAdmin, models.RoleOfficer), reports.ArchiveHandler())

	reportGroup.Get("/:id/suspects", reports.ListSuspectsHandler())
	reportGroup.Post("/:id/suspects", reports.AddSuspectHandler())
	reportGroup.Put("/:id/suspects/:suspectId", reports.UpdateSuspectHandler())
	reportGroup.Delete("/:id/suspects/:suspectId", reports.DeleteSuspectHandler())

	reportGroup.Get("/:id/witnesses", reports.ListWitnessesHandler())
	reportGroup.Post("/:id/witnesses", reports.AddWitnessHandler())
	reportGroup.Put("/:id/witnesses/:witnessId", reports.UpdateWitnessHandler())
	reportGroup.Delete("/:id/witnesses/:witnessId", reports.DeleteWitnessHandler())

	reportGroup.Get("/:id/evidence", reports.ListEvidenceHandler())
	reportGroup.Post("/:id/evidence", reports.AddEvidenceHandler(uploader))
	reportGroup.Put("/:id/evidence/:evidenceId", reports.UpdateEvidenceHandler())
	reportGroup.Delete("/:id/evidence/:evidenceId", reports.DeleteEvidenceHandler())

	reportGroup.Get("/:id/resolution", resolutions.GetHandler())
	reportGroup.Post("/:id/resolution", resolutions.CreateHandler())
	reportGroup.Put("/:id/resolution", resolutions.UpdateHandler())
	reportGroup.Put("/:id/resolution/approve", auth.RequireRole(models.RoleAdmin), resolutions.ApproveHandler())

	hearingGroup := api.Group("/hearings")
	hearingGroup.Get("/", hearings.ListHandler())
	hearingGroup.Get("/calendar", hearings.CalendarHandler())
	hearingGroup.Get("/report/:reportId", hearings.ListByReportHandler())
	hearingGroup.Post("/", hearings.CreateHandler())
	hearingGroup.Put("/:id", hearings.UpdateHandler())
	hearingGroup.Delete("/:id", hearings.DeleteHandler())

	notifGroup := api.Group("/notifications")
	notifGroup.Post("/", notifications.CreateHandler(dispatcher))
	notifGroup.Post("/send-push", notifications.SendPushHandler(dispatcher))
	notifGroup.Get("/:userId", notifications.ListByUserHandler())
	notifGroup.Put("/:userId/read-all", notifications.MarkAllReadHandler())
	notifGroup.Put("/:id/read", notifications.MarkReadHandler())
	notifGroup.Delete("/:id", notifications.DeleteHandler())

	analyticsGroup := api.Group("/analytics")
	analyticsGroup.Get("/dashboard", analytics.DashboardHandler())
	analyticsGroup.Get("/officer/:userId", analytics.OfficerStatsHandler())
	analyticsGroup.Get("/officer/:userId/reports", analytics.OfficerReportsHandler())

	dashboardGroup := api.Group("/dashboard")
	dashboardGroup.Get("/admin", auth.RequireRole(models.RoleAdmin), dashboard.AdminSummaryHandler())
	dashboardGroup.Get("/officer", dashboard.OfficerSummaryHandler())
	dashboardGroup.Get("/stats", dashboard.StatsHandler())
	dashboardGroup.Get("/pending-actions", dashboard.PendingActionsHandler())

	searchGroup := api.Group("/search")
	searchGroup.Get("/reports", search.ReportsHandler())
	searchGroup.Post("/advanced", search.AdvancedHandler())
	searchGroup.Get("/incident-types", search.IncidentTypesHandler())
	searchGroup.Get("/statuses", search.StatusesHandler())
	searchGroup.Get("/priorities", search.PrioritiesHandler())

	exportGroup := api.Group("/exports")
	exportGroup.Get("/reports/excel", exporter.ReportsExcelHandler())
	exportGroup.Get("/reports/csv", exporter.ReportsCSVHandler())
	exportGroup.Get("/reports/pdf", exporter.ReportsPDFHandler())
	exportGroup.Post("/reports/excel", exporter.SelectedExcelHandler())
	exportGroup.Post("/reports/csv", exporter.SelectedCSVHandler())
	exportGroup.Post("/reports/pdf", exporter.SelectedPDFHandler())
	exportGroup.Get("/reports/:id/pdf", exporter.CasePDFHandler())
	exportGroup.Get("/monthly", exporter.MonthlyHandler())
	exportGroup.Get("/annual", exporter.AnnualHandler())

	adminGroup := api.Group("/admin", auth.RequireRole(models.RoleAdmin))
	adminGroup.Get("/users", admin.ListUsersHandler())
	adminGroup.Get("/reports", admin.ListReportsHandler())
	adminGroup.Get("/reports/filter", admin.FilterReportsHandler())
	adminGroup.Get("/statistics", admin.StatisticsHandler())
	adminGroup.Put("/users/:id/status", admin.SetUserStatusHandler())

	logGroup := api.Group("/logs", auth.RequireRole(models.RoleAdmin))
	logGroup.Get("/activity", logs.ActivityHandler())
	logGroup.Get("/audit", logs.AuditHandler())
	logGroup.Get("/login", logs.LoginHandler())
	logGroup.Get("/errors", logs.ErrorsHandler())
	logGroup.Delete("/clear", logs.ClearHandler())

	api.Post("/upload/image", storage.UploadImageHandler(uploader))

	log.Printf("Server listening on port %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
