package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleBoth    = "both"
)

// Profile is the participant record the pairing core reads and updates.
// Rating stays nil until the first rating is received; once set it is the
// running mean of every score the participant was ever given.
type Profile struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Gender        string    `gorm:"size:10;not null" json:"gender"`
	Role          string    `gorm:"size:10;not null;default:'student'" json:"role"`
	Rating        *float64  `gorm:"type:numeric(3,2)" json:"rating"`
	SessionsCount int       `gorm:"not null;default:0" json:"sessions_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CanTeach reports whether the profile may take the teacher slot of a session.
func (p *Profile) CanTeach() bool {
	return p.Role == RoleTeacher || p.Role == RoleBoth
}
