package scheduling

import "fmt"

// Error is a typed engine error carrying a stable machine-readable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches by code so wrapped instances compare equal to the sentinels
// below under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Engine error taxonomy.
var (
	// ErrSlotConflict: the requested slot is no longer free. Recoverable;
	// triggers negotiation.
	ErrSlotConflict = &Error{Code: "slot_conflict", Message: "requested slot is no longer available"}
	// ErrInvalidTransition: status graph violation. Caller error, not retried.
	ErrInvalidTransition = &Error{Code: "invalid_transition", Message: "status transition not allowed"}
	// ErrNotFound: unknown appointment or provider.
	ErrNotFound = &Error{Code: "not_found", Message: "record not found"}
	// ErrUnauthorized: actor lacks rights over this appointment.
	ErrUnauthorized = &Error{Code: "unauthorized", Message: "actor not authorized for this appointment"}
	// ErrBusy: the atomic slot could not be acquired within the bounded
	// retry window.
	ErrBusy = &Error{Code: "busy", Message: "could not acquire slot, try again"}
)

func slotConflict(format string, args ...any) error {
	return &Error{Code: ErrSlotConflict.Code, Message: fmt.Sprintf(format, args...)}
}

func invalidTransition(format string, args ...any) error {
	return &Error{Code: ErrInvalidTransition.Code, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &Error{Code: ErrNotFound.Code, Message: fmt.Sprintf(format, args...)}
}
