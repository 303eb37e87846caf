package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvitationPending   = "pending"
	InvitationAccepted  = "accepted"
	InvitationRejected  = "rejected"
	InvitationCancelled = "cancelled"
)

// Invitation is a direct, non-queue pairing proposal. Status moves one way:
// pending -> accepted | rejected | cancelled, and is final once terminal.
type Invitation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	InviterID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"inviter_id"`
	InviteeID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"invitee_id"`
	SessionType   string     `gorm:"size:20;not null;default:'correction'" json:"session_type"`
	Status        string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	ScheduledTime *time.Time `json:"scheduled_time"`

	Inviter Profile `gorm:"foreignKey:InviterID" json:"inviter,omitempty"`
	Invitee Profile `gorm:"foreignKey:InviteeID" json:"invitee,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
