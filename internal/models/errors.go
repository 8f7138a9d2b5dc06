package models

import "errors"

// Common errors used throughout the application. Handlers map these to
// HTTP status codes; services return them from failed preconditions.
var (
	ErrEventNotFound  = errors.New("event not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrTicketNotFound = errors.New("ticket not found")

	ErrUnauthorized = errors.New("unauthorized access")

	// Conflict errors: the operation is disallowed in the current state.
	ErrEventProcessed    = errors.New("invalid or already processed event")
	ErrEventNotEditable  = errors.New("approved event cannot be edited")
	ErrEventEnded        = errors.New("event has already ended")
	ErrOrganizerBooking  = errors.New("organizer cannot book own event")
	ErrAlreadyBooked     = errors.New("ticket already booked for this event")
	ErrNotEnoughTickets  = errors.New("not enough tickets")
	ErrTicketNotBooked   = errors.New("ticket is not booked")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// ValidationError indicates caller-supplied data failed a field-level or
// cross-field rule. Always recoverable by resubmitting corrected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with the given message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a state-conflict error
func IsConflict(err error) bool {
	for _, conflict := range []error{
		ErrEventProcessed,
		ErrEventNotEditable,
		ErrEventEnded,
		ErrOrganizerBooking,
		ErrAlreadyBooked,
		ErrNotEnoughTickets,
		ErrTicketNotBooked,
		ErrDuplicateEmail,
	} {
		if errors.Is(err, conflict) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is a missing-resource error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTicketNotFound)
}
