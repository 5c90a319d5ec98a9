package realtime

import (
	"context"
	"strconv"
	"strings"

	"venuebook/internal/domain"
)

type bookingSource interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error)
}

type venueSource interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
}

type conversationSource interface {
	GetByID(ctx context.Context, id int64) (*domain.AgentConversation, error)
}

// TopicAccess decides whether a user may subscribe to a topic. Subscriptions
// follow the same party rules as the REST reads they mirror: booking topics
// are open to the customer and the venue owner, conversation topics to the
// conversation's customer only.
type TopicAccess struct {
	bookings      bookingSource
	venues        venueSource
	conversations conversationSource
}

func NewTopicAccess(bookings bookingSource, venues venueSource, conversations conversationSource) *TopicAccess {
	return &TopicAccess{bookings: bookings, venues: venues, conversations: conversations}
}

func (a *TopicAccess) Allow(ctx context.Context, userID int64, topic string) bool {
	kind, rawID, ok := strings.Cut(topic, ":")
	if !ok {
		return false
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return false
	}

	switch kind {
	case "booking":
		b, err := a.bookings.GetByID(ctx, id)
		if err != nil {
			return false
		}
		if b.CustomerID != nil && *b.CustomerID == userID {
			return true
		}
		v, err := a.venues.GetByID(ctx, b.VenueID)
		return err == nil && v.OwnerID == userID
	case "conversation":
		c, err := a.conversations.GetByID(ctx, id)
		if err != nil {
			return false
		}
		return c.CustomerID != nil && *c.CustomerID == userID
	default:
		return false
	}
}
