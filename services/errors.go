package services

import (
	"errors"
	"fmt"
)

// Conflict reasons
const (
	ReasonDuplicateTable    = "duplicate_table"
	ReasonQueueEmpty        = "queue_empty"
	ReasonNoTableAvailable  = "no_table_available"
	ReasonInvalidTransition = "invalid_transition"
	ReasonTableOccupied     = "table_occupied"
	ReasonDuplicateWaiter   = "duplicate_waiter"
)

// ValidationError is returned for malformed input before any state changes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError is returned when a referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// ConflictError is a business rule refusal. The caller may retry once the
// situation changes, e.g. after a table is freed.
type ConflictError struct {
	Reason  string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// IsConflict reports whether err is a ConflictError with the given reason.
func IsConflict(err error, reason string) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict) && conflict.Reason == reason
}

func errQueueEmpty() error {
	return &ConflictError{Reason: ReasonQueueEmpty, Message: "the waiting queue is empty"}
}

func errNoTableAvailable(size int) error {
	return &ConflictError{
		Reason:  ReasonNoTableAvailable,
		Message: fmt.Sprintf("no table or combination of tables available for a party of %d", size),
	}
}
