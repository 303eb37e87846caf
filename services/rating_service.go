package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/models"
	"gorm.io/gorm"
)

// SubmitRating records a post-session score against the rater's counterpart
// and recomputes that participant's reputation as the arithmetic mean of
// every score they ever received, all in one transaction.
func SubmitRating(sessionID, ratedBy uuid.UUID, score int, comment *string) (*models.Rating, error) {
	if score < 1 || score > 5 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidScore, score)
	}

	var rating *models.Rating
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		session, err := loadSessionTx(tx, sessionID)
		if err != nil {
			return err
		}
		if !session.HasParticipant(ratedBy) {
			return fmt.Errorf("%w: only a participant may rate the session", ErrUnauthorized)
		}
		if session.Status != models.SessionCompleted {
			return fmt.Errorf("%w: session is %s, ratings need a completed session",
				ErrInvalidTransition, session.Status)
		}

		var existing int64
		err = tx.Model(&models.Rating{}).
			Where("session_id = ? AND rated_by = ?", sessionID, ratedBy).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateRating
		}

		// Holding the rated profile's row lock serializes concurrent raters so
		// the mean below never misses a rating committed in between.
		ratedUserID := session.PartnerOf(ratedBy)
		if _, err := getProfileTx(lockForUpdate(tx), ratedUserID); err != nil {
			return err
		}

		created := models.Rating{
			SessionID:   sessionID,
			RatedBy:     ratedBy,
			RatedUserID: ratedUserID,
			Score:       score,
			Comment:     comment,
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateRating
			}
			return err
		}

		var result struct {
			Avg float64
		}
		err = tx.Model(&models.Rating{}).
			Where("rated_user_id = ?", ratedUserID).
			Select("AVG(score) as avg").
			Scan(&result).Error
		if err != nil {
			return err
		}
		if err := SetReputation(tx, ratedUserID, result.Avg); err != nil {
			return err
		}

		rating = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}

// ListRatingsFor returns every rating a participant has received, newest
// first.
func ListRatingsFor(profileID uuid.UUID) ([]models.Rating, error) {
	var ratings []models.Rating
	err := database.DB.
		Where("rated_user_id = ?", profileID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
