package domain

import "time"

type ModificationStatus string

const (
	ModificationPending   ModificationStatus = "pending"
	ModificationAccepted  ModificationStatus = "accepted"
	ModificationDeclined  ModificationStatus = "declined"
	ModificationCancelled ModificationStatus = "cancelled"
)

// MaxModificationReasonLen bounds the free-text reason on proposals and declines.
const MaxModificationReasonLen = 500

// BookingModification is a single change proposal against a booking request.
// Only one pending proposal may exist per booking; the store enforces it.
type BookingModification struct {
	ID               int64
	BookingRequestID int64
	ProposedBy       int64
	Status           ModificationStatus

	ProposedEventDate  *string
	ProposedStartTime  *string
	ProposedEndTime    *string
	ProposedGuestCount *int
	ProposedBasePrice  *int64

	// Recomputed server-side when ProposedBasePrice is set.
	ProposedPlatformFee *int64
	ProposedTotalPrice  *int64
	ProposedVenuePayout *int64

	Reason string

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ResolvedAt *time.Time
}

// HasChanges reports whether any proposed field is set.
func (m *BookingModification) HasChanges() bool {
	return m.ProposedEventDate != nil ||
		m.ProposedStartTime != nil ||
		m.ProposedEndTime != nil ||
		m.ProposedGuestCount != nil ||
		m.ProposedBasePrice != nil
}
