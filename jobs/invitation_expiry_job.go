package jobs

import (
	"log"
	"time"

	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/models"
)

const (
	// a scheduled invitation is dead an hour after its slot passed
	scheduledGrace = time.Hour
	// an unscheduled one after a week with no response
	unscheduledAge = 7 * 24 * time.Hour
)

func ExpireStaleInvitations() {
	log.Println("Running job: ExpireStaleInvitations...")

	now := time.Now()
	result := database.DB.Model(&models.Invitation{}).
		Where("status = ?", models.InvitationPending).
		Where("(scheduled_time IS NOT NULL AND scheduled_time < ?) OR (scheduled_time IS NULL AND created_at < ?)",
			now.Add(-scheduledGrace), now.Add(-unscheduledAge)).
		Update("status", models.InvitationCancelled)
	if result.Error != nil {
		log.Printf("Error expiring stale invitations: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Expired %d stale invitation(s).", result.RowsAffected)
	}
}
