package booking

import "errors"

var (
	ErrNotFound          = errors.New("booking not found")
	ErrVenueNotFound     = errors.New("venue not found")
	ErrForbidden         = errors.New("actor is not a party to this booking")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// ValidationError carries a distinct user-facing message per failed check.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validation(msg string) error { return &ValidationError{Message: msg} }

// AsValidation extracts a validation error if err is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
