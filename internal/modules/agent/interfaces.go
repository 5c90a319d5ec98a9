package agent

import (
	"context"

	"venuebook/internal/domain"
	"venuebook/internal/modules/booking"
	"venuebook/internal/modules/modification"
)

type AvailabilityChecker interface {
	IsDateOpen(ctx context.Context, venueID int64, date string) (bool, string, error)
	BatchAvailability(ctx context.Context, venueIDs []int64, from, to string) (map[int64][]string, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, customerID *int64, req booking.CreateBookingRequest) (*domain.BookingRequest, error)
	GetForViewer(ctx context.Context, bookingID int64, viewerID *int64, token string) (*domain.BookingRequest, error)
}

type ModificationService interface {
	Propose(ctx context.Context, actorID int64, req modification.ProposeRequest) (*domain.BookingModification, error)
}

type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
}

type ConversationRepository interface {
	Create(ctx context.Context, c *domain.AgentConversation) error
	GetByID(ctx context.Context, id int64) (*domain.AgentConversation, error)
	Save(ctx context.Context, c *domain.AgentConversation) error
}
