package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/models"
	"github.com/tasmeeapp/pairing_backend/notifications"
	"gorm.io/gorm"
)

// matchAttempts bounds the internal retry of the atomic match step. Losing a
// compare-and-delete to a concurrent matcher is a transient store race and is
// retried here instead of being surfaced to the caller.
const matchAttempts = 3

var errMatchRaced = errors.New("matched entry was consumed concurrently")

// MatchResult is what EnterQueue hands back: either an immediate match
// (Matched, Session, Partner set) or the caller's own waiting entry.
type MatchResult struct {
	Matched bool               `json:"matched"`
	Entry   *models.QueueEntry `json:"entry,omitempty"`
	Session *models.Session    `json:"session,omitempty"`
	Partner *models.Profile    `json:"partner,omitempty"`

	notifyTopic string
	notifyEvent notifications.Event
}

// QueueState is the read-query view of a participant's queue position.
type QueueState struct {
	Waiting       bool               `json:"waiting"`
	Entry         *models.QueueEntry `json:"entry,omitempty"`
	ActiveSession *models.Session    `json:"active_session,omitempty"`
}

// EnterQueue atomically matches the caller against a compatible waiting
// entry, or enqueues the caller if none exists. On a match the consumed
// entry's owner is notified on their topic with the session and the caller's
// identity. Calling it while already queued returns the existing entry.
func EnterQueue(profileID uuid.UUID, sessionType string) (*MatchResult, error) {
	if err := validateSessionType(sessionType); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < matchAttempts; attempt++ {
		result, err := tryMatch(profileID, sessionType)
		if err == nil {
			if result.notifyTopic != "" {
				_ = bus.Publish(result.notifyTopic, result.notifyEvent)
			}
			return result, nil
		}
		if errors.Is(err, errMatchRaced) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: %v", ErrConflictLost, lastErr)
}

// tryMatch is one attempt of the match-or-enqueue step, executed as a single
// transaction so no third participant can observe or claim the consumed entry.
func tryMatch(profileID uuid.UUID, sessionType string) (*MatchResult, error) {
	result := &MatchResult{}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		caller, err := getProfileTx(tx, profileID)
		if err != nil {
			return err
		}

		// One matcher at a time per (gender, session type) partition.
		if err := lockPartition(tx, caller.Gender, sessionType); err != nil {
			return err
		}

		// Already waiting: hand back the live entry instead of duplicating it.
		var own models.QueueEntry
		err = tx.Where("profile_id = ? AND session_type = ?", caller.ID, sessionType).
			First(&own).Error
		if err == nil {
			result.Entry = &own
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		candidate, err := findCompatibleEntry(tx, caller, sessionType)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				entry := models.QueueEntry{
					ProfileID:   caller.ID,
					Gender:      caller.Gender,
					SessionType: sessionType,
					RoleSeeking: seekingRole(caller.Role),
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
				result.Entry = &entry
				return nil
			}
			return err
		}

		// Compare-and-delete: exactly one counterpart may consume an entry.
		del := tx.Where("id = ?", candidate.ID).Delete(&models.QueueEntry{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			return errMatchRaced
		}

		partner, err := getProfileTx(tx, candidate.ProfileID)
		if err != nil {
			return err
		}

		// The earlier-queued participant holds precedence for the teacher slot.
		teacherID, studentID := assignSessionRoles(partner, caller)
		session, err := createSessionTx(tx, teacherID, studentID, sessionType)
		if err != nil {
			return err
		}

		result.Matched = true
		result.Session = session
		result.Partner = partner
		result.notifyTopic = notifications.ProfileTopic(partner.ID)
		result.notifyEvent = notifications.Event{
			Type:          notifications.EventMatched,
			SessionID:     &session.ID,
			SessionType:   sessionType,
			PartnerID:     &caller.ID,
			PartnerName:   caller.Name,
			PartnerRating: caller.Rating,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// findCompatibleEntry selects the oldest live entry matching the caller:
// same session type, same gender, a different participant, and mutual role
// satisfaction. Ordering by (created_at, id) is the fixed tie-break.
func findCompatibleEntry(tx *gorm.DB, caller *models.Profile, sessionType string) (*models.QueueEntry, error) {
	query := lockForUpdate(tx).
		Select("matchmaking_queue.*").
		Joins("JOIN profiles ON profiles.id = matchmaking_queue.profile_id").
		Where("matchmaking_queue.session_type = ?", sessionType).
		Where("matchmaking_queue.gender = ?", caller.Gender).
		Where("matchmaking_queue.profile_id <> ?", caller.ID)

	// The waiting entry must be seeking someone like the caller.
	if caller.Role != models.RoleBoth {
		query = query.Where("matchmaking_queue.role_seeking IN ?",
			[]string{caller.Role, models.RoleBoth})
	}
	// And its owner must be someone the caller seeks.
	if seeking := seekingRole(caller.Role); seeking != models.RoleBoth {
		query = query.Where("profiles.role IN ?",
			[]string{seeking, models.RoleBoth})
	}

	var candidate models.QueueEntry
	err := query.
		Order("matchmaking_queue.created_at ASC, matchmaking_queue.id ASC").
		First(&candidate).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// LeaveQueue removes the caller's own waiting entry. Losing the race to a
// match is fine: the entry is already consumed and there is nothing to remove.
func LeaveQueue(profileID uuid.UUID, sessionType string) error {
	if err := validateSessionType(sessionType); err != nil {
		return err
	}
	return database.DB.
		Where("profile_id = ? AND session_type = ?", profileID, sessionType).
		Delete(&models.QueueEntry{}).Error
}

// GetQueueState reports whether the participant is still waiting and whether
// a session was created for them in the meantime.
func GetQueueState(profileID uuid.UUID, sessionType string) (*QueueState, error) {
	if err := validateSessionType(sessionType); err != nil {
		return nil, err
	}

	state := &QueueState{}

	var entry models.QueueEntry
	err := database.DB.
		Where("profile_id = ? AND session_type = ?", profileID, sessionType).
		First(&entry).Error
	if err == nil {
		state.Waiting = true
		state.Entry = &entry
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var session models.Session
	err = database.DB.
		Where("status = ? AND (teacher_id = ? OR student_id = ?)",
			models.SessionActive, profileID, profileID).
		Order("started_at DESC").
		First(&session).Error
	if err == nil {
		state.ActiveSession = &session
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return state, nil
}

// lockPartition serializes matchers of one (gender, session type) partition
// on postgres, closing the gap where two concurrent callers each see an empty
// queue and both enqueue instead of pairing. SQLite serializes writers itself.
func lockPartition(tx *gorm.DB, gender, sessionType string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", gender+":"+sessionType).Error
}

// seekingRole derives who a participant searches for: teachers seek students,
// students seek teachers, and "both" takes either side.
func seekingRole(role string) string {
	switch role {
	case models.RoleTeacher:
		return models.RoleStudent
	case models.RoleStudent:
		return models.RoleTeacher
	default:
		return models.RoleBoth
	}
}

func validateSessionType(sessionType string) error {
	if sessionType != models.SessionTypeCorrection && sessionType != models.SessionTypeMemorization {
		return fmt.Errorf("%w: unknown session type %q", ErrInvalidTarget, sessionType)
	}
	return nil
}
