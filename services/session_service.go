package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/models"
	"gorm.io/gorm"
)

// createSessionTx creates the active session a resolved match or accepted
// invitation ends in. It runs inside the caller's transaction so the match
// consumption and the session creation commit or roll back together.
func createSessionTx(tx *gorm.DB, teacherID, studentID uuid.UUID, sessionType string) (*models.Session, error) {
	if teacherID == studentID {
		return nil, fmt.Errorf("%w: a session needs two distinct participants", ErrInvalidTarget)
	}

	// One active pairing per participant, ever.
	participants := []uuid.UUID{teacherID, studentID}
	var active int64
	err := tx.Model(&models.Session{}).
		Where("status = ? AND (teacher_id IN ? OR student_id IN ?)",
			models.SessionActive, participants, participants).
		Count(&active).Error
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, fmt.Errorf("%w: a participant already has an active session", ErrInvalidTransition)
	}

	// A participant entering a session stops waiting anywhere. Clearing their
	// outstanding entries here keeps stale rows from blocking later matchers.
	err = tx.Where("profile_id IN ?", participants).
		Delete(&models.QueueEntry{}).Error
	if err != nil {
		return nil, err
	}

	session := models.Session{
		TeacherID:   teacherID,
		StudentID:   studentID,
		SessionType: sessionType,
		Status:      models.SessionActive,
		StartedAt:   time.Now(),
	}
	if err := tx.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// assignSessionRoles decides the teacher and student slots. Strict roles win
// outright; "both" yields to a strict counterpart; when both sides could take
// either slot, a (the earlier-queued participant, or the inviter) defaults to
// the teacher slot.
func assignSessionRoles(a, b *models.Profile) (teacherID, studentID uuid.UUID) {
	switch {
	case a.Role == models.RoleTeacher:
		return a.ID, b.ID
	case b.Role == models.RoleTeacher:
		return b.ID, a.ID
	case a.CanTeach() && b.Role == models.RoleStudent:
		return a.ID, b.ID
	case b.CanTeach() && a.Role == models.RoleStudent:
		return b.ID, a.ID
	default:
		return a.ID, b.ID
	}
}

// EndSession completes an active session: sets ended_at and the reported
// duration, then bumps both participants' session counts in the same
// transaction. A second end on the same session is rejected, never
// double-counted.
func EndSession(sessionID, by uuid.UUID, durationSeconds int) (*models.Session, error) {
	if durationSeconds < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", ErrInvalidTarget)
	}

	var ended *models.Session
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		session, err := loadSessionTx(lockForUpdate(tx), sessionID)
		if err != nil {
			return err
		}
		if !session.HasParticipant(by) {
			return fmt.Errorf("%w: only a participant may end the session", ErrUnauthorized)
		}
		if session.Status != models.SessionActive {
			return fmt.Errorf("%w: session is already %s", ErrInvalidTransition, session.Status)
		}

		now := time.Now()
		duration := durationSeconds
		session.Status = models.SessionCompleted
		session.EndedAt = &now
		session.DurationSeconds = &duration
		if err := tx.Save(session).Error; err != nil {
			return err
		}
		if err := IncrementSessionCounts(tx, session.TeacherID, session.StudentID); err != nil {
			return err
		}

		ended = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ended, nil
}

// CancelSession aborts an active session before completion. No counts are
// incremented for a session that never finished.
func CancelSession(sessionID, by uuid.UUID) (*models.Session, error) {
	var cancelled *models.Session
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		session, err := loadSessionTx(lockForUpdate(tx), sessionID)
		if err != nil {
			return err
		}
		if !session.HasParticipant(by) {
			return fmt.Errorf("%w: only a participant may cancel the session", ErrUnauthorized)
		}
		if session.Status != models.SessionActive {
			return fmt.Errorf("%w: session is already %s", ErrInvalidTransition, session.Status)
		}

		now := time.Now()
		session.Status = models.SessionCancelled
		session.EndedAt = &now
		if err := tx.Save(session).Error; err != nil {
			return err
		}

		cancelled = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// GetSessionFor returns the session if the caller is one of its participants.
func GetSessionFor(sessionID, profileID uuid.UUID) (*models.Session, error) {
	session, err := loadSessionTx(database.DB.Preload("Teacher").Preload("Student"), sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasParticipant(profileID) {
		return nil, fmt.Errorf("%w: session belongs to other participants", ErrUnauthorized)
	}
	return session, nil
}

// ListSessions returns a participant's session history, newest first.
func ListSessions(profileID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	err := database.DB.
		Preload("Teacher").
		Preload("Student").
		Where("teacher_id = ? OR student_id = ?", profileID, profileID).
		Order("started_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func loadSessionTx(tx *gorm.DB, sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}
