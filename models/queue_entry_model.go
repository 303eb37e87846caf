package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QueueEntry is a waiting participant's advertisement to be matched for a
// given session type. At most one live entry exists per (profile, session
// type); the unique index backs the invariant the matchmaking transaction
// enforces.
type QueueEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProfileID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_queue_profile_type" json:"profile_id"`
	Gender      string    `gorm:"size:10;not null;index:idx_queue_match" json:"gender"`
	SessionType string    `gorm:"size:20;not null;uniqueIndex:idx_queue_profile_type;index:idx_queue_match" json:"session_type"`
	RoleSeeking string    `gorm:"size:10;not null" json:"role_seeking"`

	Profile Profile `gorm:"foreignKey:ProfileID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (QueueEntry) TableName() string {
	return "matchmaking_queue"
}

func (e *QueueEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
