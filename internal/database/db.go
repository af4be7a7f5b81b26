package database

import (
	"fmt"
	"log/slog"

	"github.com/justsurfingit/jobs-in-germany/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the postgres database behind dsn.
func Connect(dsn string, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("database connection established")
	return db, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Resume{},
		&models.Course{},
		&models.Payment{},
		&models.Company{},
		&models.Job{},
	)
}

// DefaultCourses is the catalog offered on the payment page.
var DefaultCourses = []models.Course{
	{Code: "A1", Title: "German A1 Beginner", Description: "Everyday phrases and basic conversation.", PriceCents: 29900},
	{Code: "A2", Title: "German A2 Elementary", Description: "Routine tasks and simple workplace exchanges.", PriceCents: 29900},
	{Code: "B1", Title: "German B1 Intermediate", Description: "Independent use at work; required by most employers.", PriceCents: 34900},
	{Code: "B2", Title: "German B2 Upper intermediate", Description: "Professional fluency for skilled-worker visas.", PriceCents: 39900},
	{Code: "C1", Title: "German C1 Advanced", Description: "Academic and regulated-profession level.", PriceCents: 44900},
	{Code: "PLACEMENT", Title: "Placement programme", Description: "CV review, interview coaching and employer matching.", PriceCents: 99000},
}

// SeedCourses inserts the default catalog entries that do not exist yet.
func SeedCourses(db *gorm.DB) (int, error) {
	created := 0
	for _, c := range DefaultCourses {
		course := c
		course.Currency = "EUR"
		res := db.Where(models.Course{Code: c.Code}).FirstOrCreate(&course)
		if res.Error != nil {
			return created, fmt.Errorf("seed course %s: %w", c.Code, res.Error)
		}
		created += int(res.RowsAffected)
	}
	return created, nil
}
