package jobs

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/models"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.QueueEntry{}, &models.Invitation{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	database.DB = db
}

func TestPurgeStaleQueueEntries(t *testing.T) {
	setupTestDB(t)

	stale := models.QueueEntry{
		ProfileID:   uuid.New(),
		Gender:      models.GenderMale,
		SessionType: models.SessionTypeCorrection,
		RoleSeeking: models.RoleStudent,
		CreatedAt:   time.Now().Add(-time.Hour),
	}
	fresh := models.QueueEntry{
		ProfileID:   uuid.New(),
		Gender:      models.GenderMale,
		SessionType: models.SessionTypeCorrection,
		RoleSeeking: models.RoleTeacher,
		CreatedAt:   time.Now(),
	}
	if err := database.DB.Create(&stale).Error; err != nil {
		t.Fatalf("Failed to seed stale entry: %v", err)
	}
	if err := database.DB.Create(&fresh).Error; err != nil {
		t.Fatalf("Failed to seed fresh entry: %v", err)
	}

	PurgeStaleQueueEntries()

	var remaining []models.QueueEntry
	if err := database.DB.Find(&remaining).Error; err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != fresh.ID {
		t.Errorf("Expected only the fresh entry to survive, got %+v", remaining)
	}
}

func TestExpireStaleInvitations(t *testing.T) {
	setupTestDB(t)

	past := time.Now().Add(-2 * time.Hour)
	missed := models.Invitation{
		InviterID:     uuid.New(),
		InviteeID:     uuid.New(),
		SessionType:   models.SessionTypeMemorization,
		Status:        models.InvitationPending,
		ScheduledTime: &past,
	}
	open := models.Invitation{
		InviterID:   uuid.New(),
		InviteeID:   uuid.New(),
		SessionType: models.SessionTypeCorrection,
		Status:      models.InvitationPending,
	}
	if err := database.DB.Create(&missed).Error; err != nil {
		t.Fatalf("Failed to seed missed invitation: %v", err)
	}
	if err := database.DB.Create(&open).Error; err != nil {
		t.Fatalf("Failed to seed open invitation: %v", err)
	}

	ExpireStaleInvitations()

	var reloaded models.Invitation
	if err := database.DB.First(&reloaded, "id = ?", missed.ID).Error; err != nil {
		t.Fatalf("Failed to reload invitation: %v", err)
	}
	if reloaded.Status != models.InvitationCancelled {
		t.Errorf("Missed invitation should be cancelled, got %q", reloaded.Status)
	}

	var reloadedOpen models.Invitation
	if err := database.DB.First(&reloadedOpen, "id = ?", open.ID).Error; err != nil {
		t.Fatalf("Failed to reload invitation: %v", err)
	}
	if reloadedOpen.Status != models.InvitationPending {
		t.Errorf("Recent unscheduled invitation must stay pending, got %q", reloadedOpen.Status)
	}
}
