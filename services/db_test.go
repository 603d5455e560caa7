package services

import (
	"testing"

	"flashcard-review-system/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a private in-memory database migrated to the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// A :memory: database exists per connection; keep the pool at one so
	// every query sees the same schema.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Deck{},
		&models.Card{},
		&models.ReviewLog{},
		&models.UserProgress{},
		&models.XPTransaction{},
		&models.Achievement{},
		&models.UserAchievement{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := models.SeedAchievements(db); err != nil {
		t.Fatalf("seed achievements: %v", err)
	}
	return db
}
