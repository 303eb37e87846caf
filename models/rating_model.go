package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is a post-session score, immutable once created. The unique index on
// (session_id, rated_by) rejects duplicate submissions at the store level.
type Rating struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SessionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_session_rater" json:"session_id"`
	RatedBy     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_session_rater" json:"rated_by"`
	RatedUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"rated_user_id"`
	Score       int       `gorm:"not null" json:"score"`
	Comment     *string   `gorm:"type:text" json:"comment"`

	Session   Session `gorm:"foreignKey:SessionID" json:"-"`
	RatedUser Profile `gorm:"foreignKey:RatedUserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
