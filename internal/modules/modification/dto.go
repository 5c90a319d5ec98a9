package modification

import "venuebook/internal/domain"

type ProposeRequest struct {
	BookingID          int64   `json:"bookingId" binding:"required"`
	ProposedEventDate  *string `json:"proposedEventDate"`
	ProposedStartTime  *string `json:"proposedStartTime"`
	ProposedEndTime    *string `json:"proposedEndTime"`
	ProposedGuestCount *int    `json:"proposedGuestCount"`
	ProposedBasePrice  *int64  `json:"proposedBasePrice"`
	Reason             string  `json:"reason"`
}

type ResolveRequest struct {
	Reason string `json:"reason"`
}

type ModificationView struct {
	ID                 int64   `json:"id"`
	BookingID          int64   `json:"booking_id"`
	ProposedBy         int64   `json:"proposed_by"`
	Status             string  `json:"status"`
	ProposedEventDate  *string `json:"proposed_event_date,omitempty"`
	ProposedStartTime  *string `json:"proposed_start_time,omitempty"`
	ProposedEndTime    *string `json:"proposed_end_time,omitempty"`
	ProposedGuestCount *int    `json:"proposed_guest_count,omitempty"`
	ProposedBasePrice  *int64  `json:"proposed_base_price,omitempty"`
	ProposedTotalPrice *int64  `json:"proposed_total_price,omitempty"`
	Reason             string  `json:"reason,omitempty"`
}

func toView(m *domain.BookingModification) ModificationView {
	return ModificationView{
		ID:                 m.ID,
		BookingID:          m.BookingRequestID,
		ProposedBy:         m.ProposedBy,
		Status:             string(m.Status),
		ProposedEventDate:  m.ProposedEventDate,
		ProposedStartTime:  m.ProposedStartTime,
		ProposedEndTime:    m.ProposedEndTime,
		ProposedGuestCount: m.ProposedGuestCount,
		ProposedBasePrice:  m.ProposedBasePrice,
		ProposedTotalPrice: m.ProposedTotalPrice,
		Reason:             m.Reason,
	}
}
