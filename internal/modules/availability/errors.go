package availability

import "errors"

var (
	// ErrDateBlocked means the owner closed the date. ErrDateBooked means
	// another pending or accepted booking already holds it. Both are
	// user-facing and recoverable; neither is retried automatically.
	ErrDateBlocked = errors.New("date is blocked by the venue owner")
	ErrDateBooked  = errors.New("date is already booked")
)
