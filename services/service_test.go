package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/models"
	"github.com/tasmeeapp/pairing_backend/notifications"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB points the service layer at a fresh in-memory SQLite store.
// A single connection keeps the in-memory database alive and serializes
// writers, standing in for the postgres advisory/row locks.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.QueueEntry{},
		&models.Invitation{},
		&models.Session{},
		&models.Rating{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	database.DB = db
	UseBus(notifications.NewMemoryBus())
}

func createTestProfile(t *testing.T, name, gender, role string) *models.Profile {
	t.Helper()

	user := models.User{
		Email:    name + "@example.com",
		Password: "not-a-real-hash",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", name, err)
	}

	profile := models.Profile{
		UserID: user.ID,
		Name:   name,
		Gender: gender,
		Role:   role,
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to create profile %s: %v", name, err)
	}
	return &profile
}

func countRows(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	q := database.DB.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

func reloadProfile(t *testing.T, id uuid.UUID) *models.Profile {
	t.Helper()

	profile, err := GetProfile(id)
	if err != nil {
		t.Fatalf("Failed to reload profile %s: %v", id, err)
	}
	return profile
}
