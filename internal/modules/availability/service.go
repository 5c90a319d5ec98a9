package availability

import (
	"context"
	"errors"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/metrics"
	"venuebook/internal/repository"
)

const dateLayout = "2006-01-02"

// Gate is the only write path to a venue's calendar. Every booking creation
// funnels through Claim; the store's unique index decides races.
type Gate struct {
	bookings BookingRepository
	venues   VenueRepository
}

func NewGate(bookings BookingRepository, venues VenueRepository) *Gate {
	return &Gate{bookings: bookings, venues: venues}
}

// Claim atomically checks-and-claims the venue+date for the booking. On
// conflict it returns ErrDateBlocked or ErrDateBooked; these are surfaced to
// the user verbatim, never retried.
func (g *Gate) Claim(ctx context.Context, b *domain.BookingRequest) error {
	err := g.bookings.ClaimDate(ctx, b)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrBlockedDate):
		metrics.ClaimConflicts.WithLabelValues("blocked").Inc()
		return ErrDateBlocked
	case repository.IsUniqueViolation(err):
		metrics.ClaimConflicts.WithLabelValues("booked").Inc()
		return ErrDateBooked
	default:
		return err
	}
}

// IsDateOpen is the read-only single-date check used by the agent's
// availability tool. It can race with a concurrent claim; the claim itself
// remains the arbiter.
func (g *Gate) IsDateOpen(ctx context.Context, venueID int64, date string) (bool, string, error) {
	blocked, err := g.venues.IsDateBlocked(ctx, venueID, date)
	if err != nil {
		return false, "", err
	}
	if blocked {
		return false, "blocked", nil
	}

	taken, err := g.bookings.ActiveDates(ctx, venueID, date, date)
	if err != nil {
		return false, "", err
	}
	if len(taken) > 0 {
		return false, "booked", nil
	}
	return true, "", nil
}

// BatchAvailability returns the open dates per venue inside [from, to].
// Read-only and eventually consistent; used for search and calendar display.
func (g *Gate) BatchAvailability(ctx context.Context, venueIDs []int64, from, to string) (map[int64][]string, error) {
	fromDay, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, err
	}
	toDay, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, err
	}

	out := make(map[int64][]string, len(venueIDs))
	for _, venueID := range venueIDs {
		blocked, err := g.venues.BlockedDates(ctx, venueID, from, to)
		if err != nil {
			return nil, err
		}
		booked, err := g.bookings.ActiveDates(ctx, venueID, from, to)
		if err != nil {
			return nil, err
		}

		unavailable := make(map[string]bool, len(blocked)+len(booked))
		for _, d := range blocked {
			unavailable[d] = true
		}
		for _, d := range booked {
			unavailable[d] = true
		}

		var open []string
		for day := fromDay; !day.After(toDay); day = day.AddDate(0, 0, 1) {
			d := day.Format(dateLayout)
			if !unavailable[d] {
				open = append(open, d)
			}
		}
		out[venueID] = open
	}
	return out, nil
}
