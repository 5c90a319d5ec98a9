package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/pricing"
)

const (
	dateLayout = "2006-01-02"

	// calendarLookahead bounds the open-dates summary embedded in the system
	// prompt; the model uses check_availability for anything past it.
	calendarLookahead = 30 * 24 * time.Hour
	maxPromptDates    = 10
)

// buildSystemPrompt grounds the model in venue facts and near-term
// availability so it does not invent prices or free dates.
func (s *Service) buildSystemPrompt(ctx context.Context, venue *domain.Venue, signedIn bool) string {
	var b strings.Builder

	b.WriteString("You are the booking assistant for the venue below. ")
	b.WriteString("Answer only from the facts given and from tool results. ")
	b.WriteString("Never invent prices or availability. ")
	b.WriteString("Use draft_booking to quote and check_availability before promising a date. ")
	b.WriteString("You never create bookings yourself: a draft is shown to the visitor as a card ")
	b.WriteString("and they confirm it from there.\n\n")

	fmt.Fprintf(&b, "Venue: %s (%s)\n", venue.Name, venue.City)
	if venue.Description != "" {
		fmt.Fprintf(&b, "About: %s\n", venue.Description)
	}
	fmt.Fprintf(&b, "Capacity: %d to %d guests\n", venue.MinGuests, venue.MaxCapacity)

	if basePrice, tier, err := pricing.SelectTier(venue); err == nil {
		breakdown := pricing.Calculate(basePrice)
		fmt.Fprintf(&b, "Standard rate (%s): base %d, platform fee %d, total %d\n",
			tier, breakdown.BasePrice, breakdown.PlatformFee, breakdown.TotalPrice)
	} else {
		b.WriteString("Pricing is not configured; tell the visitor to contact the venue directly.\n")
	}

	if dates := s.upcomingOpenDates(ctx, venue.ID); len(dates) > 0 {
		fmt.Fprintf(&b, "Next open dates: %s\n", strings.Join(dates, ", "))
	}

	if signedIn {
		b.WriteString("The visitor is signed in and may confirm a drafted booking.\n")
	} else {
		b.WriteString("The visitor is not signed in. They can browse and get quotes, but must sign in to confirm a booking.\n")
	}

	if venue.AgentInstructions != "" {
		fmt.Fprintf(&b, "\nOwner instructions: %s\n", venue.AgentInstructions)
	}

	return b.String()
}

func (s *Service) upcomingOpenDates(ctx context.Context, venueID int64) []string {
	now := time.Now()
	from := now.AddDate(0, 0, 1).Format(dateLayout)
	to := now.Add(calendarLookahead).Format(dateLayout)

	open, err := s.gate.BatchAvailability(ctx, []int64{venueID}, from, to)
	if err != nil {
		s.log.Warn().Err(err).Int64("venue_id", venueID).Msg("calendar summary lookup failed")
		return nil
	}
	dates := open[venueID]
	if len(dates) > maxPromptDates {
		dates = dates[:maxPromptDates]
	}
	return dates
}
