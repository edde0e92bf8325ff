package services

import "errors"

// Error taxonomy for the reservation core. Controllers map these to
// HTTP status codes; the services never retry and never panic on them.
var (
	ErrNotFound          = errors.New("restaurant, table or reservation not found")
	ErrCapacityExceeded  = errors.New("party size exceeds table capacity")
	ErrConflict          = errors.New("slot already booked")
	ErrForbidden         = errors.New("actor is not allowed to perform this action")
	ErrInvalidTransition = errors.New("requested status is not allowed for this actor")
	ErrTooLateToCancel   = errors.New("reservation can no longer be cancelled")
	ErrNotCancellable    = errors.New("reservation is not in a cancellable status")
	ErrValidation        = errors.New("invalid input")
)
