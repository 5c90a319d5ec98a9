package booking

import "venuebook/internal/domain"

type CreateBookingRequest struct {
	VenueID          int64  `json:"venueId" binding:"required"`
	EventDate        string `json:"eventDate" binding:"required"`
	StartTime        string `json:"startTime" binding:"required"`
	EndTime          string `json:"endTime" binding:"required"`
	EventType        string `json:"eventType" binding:"required"`
	GuestCount       int    `json:"guestCount" binding:"required"`
	CustomerName     string `json:"customerName" binding:"required"`
	CustomerEmail    string `json:"customerEmail" binding:"required"`
	CustomerPhone    string `json:"customerPhone"`
	CompanyName      string `json:"companyName"`
	EventDescription string `json:"eventDescription"`
	InquiryID        *int64 `json:"inquiryId"`
}

type CreateBookingResponse struct {
	BookingID         int64  `json:"bookingId"`
	VerificationToken string `json:"verificationToken"`
	Status            string `json:"status"`
	TotalPrice        int64  `json:"totalPrice"`
}

type BookingView struct {
	ID          int64  `json:"id"`
	VenueID     int64  `json:"venue_id"`
	EventDate   string `json:"event_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	EventType   string `json:"event_type"`
	GuestCount  int    `json:"guest_count"`
	BasePrice   int64  `json:"base_price"`
	PlatformFee int64  `json:"platform_fee"`
	TotalPrice  int64  `json:"total_price"`
	VenuePayout int64  `json:"venue_payout"`
	Status      string `json:"status"`
}

func toView(b *domain.BookingRequest) BookingView {
	return BookingView{
		ID:          b.ID,
		VenueID:     b.VenueID,
		EventDate:   b.EventDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		EventType:   b.EventType,
		GuestCount:  b.GuestCount,
		BasePrice:   b.BasePrice,
		PlatformFee: b.PlatformFee,
		TotalPrice:  b.TotalPrice,
		VenuePayout: b.VenuePayout,
		Status:      string(b.Status),
	}
}
