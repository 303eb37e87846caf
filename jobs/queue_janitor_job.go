package jobs

import (
	"log"
	"time"

	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/models"
)

// staleQueueAge is how long a waiting entry may sit before it is treated as
// abandoned by a dead client.
const staleQueueAge = 30 * time.Minute

func PurgeStaleQueueEntries() {
	log.Println("Running job: PurgeStaleQueueEntries...")

	cutoff := time.Now().Add(-staleQueueAge)
	result := database.DB.
		Where("created_at < ?", cutoff).
		Delete(&models.QueueEntry{})
	if result.Error != nil {
		log.Printf("Error purging stale queue entries: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Removed %d stale queue entrie(s).", result.RowsAffected)
	}
}
