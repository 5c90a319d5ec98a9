package availability

import (
	"context"

	"venuebook/internal/domain"
)

type BookingRepository interface {
	ClaimDate(ctx context.Context, b *domain.BookingRequest) error
	ActiveDates(ctx context.Context, venueID int64, from, to string) ([]string, error)
}

type VenueRepository interface {
	BlockedDates(ctx context.Context, venueID int64, from, to string) ([]string, error)
	IsDateBlocked(ctx context.Context, venueID int64, date string) (bool, error)
}
