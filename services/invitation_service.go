package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/models"
	"github.com/tasmeeapp/pairing_backend/notifications"
	"gorm.io/gorm"
)

// RespondResult carries the updated invitation and, on accept, the session
// the acceptance created.
type RespondResult struct {
	Invitation *models.Invitation `json:"invitation"`
	Session    *models.Session    `json:"session,omitempty"`
}

// InvitationList is the read-query view for the invitations screen: pending
// invitations addressed to the participant plus the ones they sent.
type InvitationList struct {
	Received []models.Invitation `json:"received"`
	Sent     []models.Invitation `json:"sent"`
}

// CreateInvitation opens a pending invitation from inviter to invitee and
// notifies the invitee on their topic.
func CreateInvitation(inviterID, inviteeID uuid.UUID, sessionType string, scheduledTime *time.Time) (*models.Invitation, error) {
	if err := validateSessionType(sessionType); err != nil {
		return nil, err
	}
	if inviterID == inviteeID {
		return nil, fmt.Errorf("%w: cannot invite yourself", ErrInvalidTarget)
	}

	var invitation models.Invitation
	var inviter *models.Profile
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		inviter, err = getProfileTx(tx, inviterID)
		if err != nil {
			return err
		}
		if _, err := getProfileTx(tx, inviteeID); err != nil {
			return err
		}

		invitation = models.Invitation{
			InviterID:     inviterID,
			InviteeID:     inviteeID,
			SessionType:   sessionType,
			Status:        models.InvitationPending,
			ScheduledTime: scheduledTime,
		}
		return tx.Create(&invitation).Error
	})
	if err != nil {
		return nil, err
	}

	_ = bus.Publish(notifications.ProfileTopic(inviteeID), notifications.Event{
		Type:          notifications.EventInvited,
		InvitationID:  &invitation.ID,
		SessionType:   sessionType,
		PartnerID:     &inviter.ID,
		PartnerName:   inviter.Name,
		PartnerRating: inviter.Rating,
	})
	return &invitation, nil
}

// RespondToInvitation accepts or rejects a pending invitation. Only the
// invitee may respond, only while pending. Acceptance creates the session in
// the same transaction that flips the status, so either both happen or
// neither does. The inviter is notified either way.
func RespondToInvitation(invitationID, responderID uuid.UUID, accept bool) (*RespondResult, error) {
	result := &RespondResult{}
	var invitee *models.Profile

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		invitation, err := loadInvitationTx(lockForUpdate(tx), invitationID)
		if err != nil {
			return err
		}
		if invitation.InviteeID != responderID {
			return fmt.Errorf("%w: only the invitee may respond", ErrUnauthorized)
		}
		if invitation.Status != models.InvitationPending {
			return fmt.Errorf("%w: invitation is already %s", ErrInvalidTransition, invitation.Status)
		}

		invitee, err = getProfileTx(tx, invitation.InviteeID)
		if err != nil {
			return err
		}

		if !accept {
			invitation.Status = models.InvitationRejected
			if err := tx.Save(invitation).Error; err != nil {
				return err
			}
			result.Invitation = invitation
			return nil
		}

		inviter, err := getProfileTx(tx, invitation.InviterID)
		if err != nil {
			return err
		}

		// The inviter holds precedence for the teacher slot.
		teacherID, studentID := assignSessionRoles(inviter, invitee)
		session, err := createSessionTx(tx, teacherID, studentID, invitation.SessionType)
		if err != nil {
			return err
		}

		invitation.Status = models.InvitationAccepted
		if err := tx.Save(invitation).Error; err != nil {
			return err
		}
		result.Invitation = invitation
		result.Session = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := notifications.Event{
		InvitationID:  &result.Invitation.ID,
		SessionType:   result.Invitation.SessionType,
		PartnerID:     &invitee.ID,
		PartnerName:   invitee.Name,
		PartnerRating: invitee.Rating,
	}
	if accept {
		event.Type = notifications.EventInvitationAccepted
		event.SessionID = &result.Session.ID
	} else {
		event.Type = notifications.EventInvitationRejected
	}
	_ = bus.Publish(notifications.ProfileTopic(result.Invitation.InviterID), event)

	return result, nil
}

// CancelInvitation withdraws a pending invitation. Cancelling one the invitee
// already settled is a race-safe no-op returning the current row.
func CancelInvitation(invitationID, inviterID uuid.UUID) (*models.Invitation, error) {
	var cancelled *models.Invitation
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		invitation, err := loadInvitationTx(lockForUpdate(tx), invitationID)
		if err != nil {
			return err
		}
		if invitation.InviterID != inviterID {
			return fmt.Errorf("%w: only the inviter may cancel", ErrUnauthorized)
		}
		if invitation.Status != models.InvitationPending {
			cancelled = invitation
			return nil
		}

		invitation.Status = models.InvitationCancelled
		if err := tx.Save(invitation).Error; err != nil {
			return err
		}
		cancelled = invitation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// ListInvitations returns the participant's pending invitations, received and
// sent, newest first.
func ListInvitations(profileID uuid.UUID) (*InvitationList, error) {
	list := &InvitationList{}

	err := database.DB.
		Preload("Inviter").
		Where("invitee_id = ? AND status = ?", profileID, models.InvitationPending).
		Order("created_at DESC").
		Find(&list.Received).Error
	if err != nil {
		return nil, err
	}

	err = database.DB.
		Preload("Invitee").
		Where("inviter_id = ? AND status = ?", profileID, models.InvitationPending).
		Order("created_at DESC").
		Find(&list.Sent).Error
	if err != nil {
		return nil, err
	}

	return list, nil
}

func loadInvitationTx(tx *gorm.DB, invitationID uuid.UUID) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := tx.First(&invitation, "id = ?", invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &invitation, nil
}
