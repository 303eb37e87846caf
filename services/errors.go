package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The failure taxonomy every coordinator operation reports through. Handlers
// match these with errors.Is and map them to HTTP statuses; services wrap
// them with context via fmt.Errorf("%w: ...").
var (
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrUnauthorized      = errors.New("not a participant in this operation")
	ErrInvalidScore      = errors.New("score must be an integer between 1 and 5")
	ErrDuplicateRating   = errors.New("rating already submitted for this session")
	ErrNotFound          = errors.New("record not found")
	ErrConflictLost      = errors.New("matchmaking race lost, retry the request")
)

// lockForUpdate takes a row lock on postgres. SQLite (the test store) has no
// FOR UPDATE; its writers already serialize on the single test connection.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
