package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/models"
	"gorm.io/gorm"
)

func GetProfile(profileID uuid.UUID) (*models.Profile, error) {
	return getProfileTx(database.DB, profileID)
}

func getProfileTx(tx *gorm.DB, profileID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := tx.First(&profile, "id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// IncrementSessionCounts bumps sessions_count for every given profile. Runs
// inside the caller's transaction so a rolled-back session end never counts.
func IncrementSessionCounts(tx *gorm.DB, profileIDs ...uuid.UUID) error {
	return tx.Model(&models.Profile{}).
		Where("id IN ?", profileIDs).
		UpdateColumn("sessions_count", gorm.Expr("sessions_count + 1")).Error
}

// SetReputation writes back a recomputed reputation. Scores are 1..5, so the
// mean is always inside the profile's [0,5] bound.
func SetReputation(tx *gorm.DB, profileID uuid.UUID, value float64) error {
	return tx.Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("rating", value).Error
}

// ListAvailableTeachers returns profiles the given participant could invite:
// same gender, able to take the teacher slot, best-rated first.
func ListAvailableTeachers(profileID uuid.UUID) ([]models.Profile, error) {
	caller, err := GetProfile(profileID)
	if err != nil {
		return nil, err
	}

	var teachers []models.Profile
	err = database.DB.
		Where("gender = ? AND id <> ?", caller.Gender, caller.ID).
		Where("role IN ?", []string{models.RoleTeacher, models.RoleBoth}).
		Order("rating DESC, sessions_count DESC").
		Find(&teachers).Error
	if err != nil {
		return nil, err
	}
	return teachers, nil
}
