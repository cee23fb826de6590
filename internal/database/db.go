package database

import (
	"log"

	"blotter-backend/internal/config"
	"blotter-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// TranslateError makes unique-constraint violations surface as
	// gorm.ErrDuplicatedKey. The constraints are the real uniqueness guard;
	// an application-level pre-check alone would race.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connected, migration complete.")
}

// Migrate is separate from Init so tests can run it against their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Officer{},
		&models.Report{},
		&models.Suspect{},
		&models.Witness{},
		&models.Evidence{},
		&models.Hearing{},
		&models.Resolution{},
		&models.Notification{},
		&models.ActivityLog{},
		&models.ReportAuditLog{},
		&models.LoginLog{},
		&models.ErrorLog{},
	)
}
