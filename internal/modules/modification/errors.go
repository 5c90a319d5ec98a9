package modification

import "errors"

var (
	ErrNotFound        = errors.New("modification not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrForbidden       = errors.New("actor is not allowed to perform this action")
	// ErrPendingExists is returned both when the pending proposal is visible
	// up front and when a concurrent proposal wins the store's uniqueness
	// race; callers cannot tell the difference and should not need to.
	ErrPendingExists     = errors.New("booking already has a pending proposal")
	ErrBookingNotOpen    = errors.New("booking is not open for changes")
	ErrAlreadyResolved   = errors.New("proposal is already resolved")
	ErrOwnerOnlyPrice    = errors.New("only the venue owner may propose a price change")
	ErrNoChanges         = errors.New("proposal must change at least one field")
	ErrSelfResolution    = errors.New("the proposer cannot resolve their own proposal")
	ErrReasonRequired    = errors.New("a reason is required to decline")
	ErrReasonTooLong     = errors.New("reason must be at most 500 characters")
	ErrGuestsOverLimit   = errors.New("proposed guest count exceeds venue capacity")
	ErrDateNotFuture     = errors.New("proposed date must be in the future")
	ErrInvalidTimeRange  = errors.New("proposed end time must be after start time")
)
