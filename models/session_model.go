package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

const (
	SessionTypeCorrection   = "correction"
	SessionTypeMemorization = "memorization"
)

// Session is a live teacher-student pairing. TeacherID and StudentID are
// always distinct; EndedAt and DurationSeconds stay nil until the session
// reaches a terminal status.
type Session struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TeacherID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacher_id"`
	StudentID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	SessionType     string     `gorm:"size:20;not null;default:'correction'" json:"session_type"`
	Status          string     `gorm:"size:20;not null;default:'active'" json:"status"`
	StartedAt       time.Time  `gorm:"not null" json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationSeconds *int       `json:"duration_seconds"`

	Teacher Profile `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Student Profile `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// HasParticipant reports whether the given profile is one of the two sides
// of the session.
func (s *Session) HasParticipant(profileID uuid.UUID) bool {
	return s.TeacherID == profileID || s.StudentID == profileID
}

// PartnerOf returns the counterpart of the given participant.
func (s *Session) PartnerOf(profileID uuid.UUID) uuid.UUID {
	if s.TeacherID == profileID {
		return s.StudentID
	}
	return s.TeacherID
}
