package market

import (
	"errors"
	"fmt"
)

var (
	// Requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// Actor is not allowed to perform the operation
	ErrForbidden = errors.New("forbidden")

	// Campaign has no fills left
	ErrCampaignFilled = errors.New("campaign is fully filled")
)

// StateConflictError means the entity is not in a status that allows
// the requested transition. The message names the current status so
// callers can tell what happened.
type StateConflictError struct {
	Entity    string
	Operation string
	Current   string
}

func (self *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s %s in status: %s", self.Operation, self.Entity, self.Current)
}

func NewStateConflictError(entity, operation, current string) *StateConflictError {
	return &StateConflictError{Entity: entity, Operation: operation, Current: current}
}

// IsStateConflict tells whether err is a status conflict
func IsStateConflict(err error) bool {
	var conflict *StateConflictError
	return errors.As(err, &conflict)
}
