package agent

type ChatRequest struct {
	ConversationID *int64 `json:"conversationId"`
	VenueID        int64  `json:"venueId"`
	Message        string `json:"message"`
}

// BookingSummary surfaces the draft or booking the agent touched during the
// turn so the UI can render a card without parsing the reply text. Drafts
// have no BookingID; the card's confirm action supplies one.
type BookingSummary struct {
	BookingID   *int64 `json:"bookingId,omitempty"`
	EventDate   string `json:"eventDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	EventType   string `json:"eventType"`
	GuestCount  int    `json:"guestCount"`
	BasePrice   int64  `json:"basePrice"`
	PlatformFee int64  `json:"platformFee"`
	TotalPrice  int64  `json:"totalPrice"`
	Status      string `json:"status,omitempty"`
}

type ChatResponse struct {
	ConversationID int64           `json:"conversationId"`
	Reply          string          `json:"reply"`
	BookingSummary *BookingSummary `json:"bookingSummary,omitempty"`
}

type ConfirmRequest struct {
	ConversationID int64  `json:"conversationId" binding:"required"`
	CustomerName   string `json:"customerName" binding:"required"`
	CustomerEmail  string `json:"customerEmail" binding:"required"`
	CustomerPhone  string `json:"customerPhone"`
}
