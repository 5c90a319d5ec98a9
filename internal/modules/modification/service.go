package modification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"venuebook/internal/domain"
	"venuebook/internal/metrics"
	"venuebook/internal/modules/availability"
	"venuebook/internal/modules/booking"
	"venuebook/internal/pricing"
	"venuebook/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Service struct {
	mods      ModificationRepository
	bookings  BookingRepository
	venues    VenueRepository
	notifs    NotificationSender
	broadcast Broadcaster
	log       zerolog.Logger
}

func NewService(
	mods ModificationRepository,
	bookings BookingRepository,
	venues VenueRepository,
	notifs NotificationSender,
	broadcast Broadcaster,
	log zerolog.Logger,
) *Service {
	return &Service{
		mods:      mods,
		bookings:  bookings,
		venues:    venues,
		notifs:    notifs,
		broadcast: broadcast,
		log:       log,
	}
}

// party identifies which side of the negotiation an actor is on. Roles are
// resolved from the booking/venue relationship, never from a client claim.
type party struct {
	isCustomer   bool
	isOwner      bool
	counterparty int64
}

func (s *Service) resolveParty(b *domain.BookingRequest, v *domain.Venue, actorID int64) (party, error) {
	p := party{}
	if b.CustomerID != nil && *b.CustomerID == actorID {
		p.isCustomer = true
		p.counterparty = v.OwnerID
	}
	if v.OwnerID == actorID {
		p.isOwner = true
		if b.CustomerID != nil {
			p.counterparty = *b.CustomerID
		}
	}
	if !p.isCustomer && !p.isOwner {
		return p, ErrForbidden
	}
	return p, nil
}

// Propose creates a change proposal against an open booking. The store's
// partial unique index rejects a second pending proposal; that conflict comes
// back as ErrPendingExists, same as the visible case.
func (s *Service) Propose(ctx context.Context, actorID int64, req ProposeRequest) (*domain.BookingModification, error) {
	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	if !b.Active() {
		return nil, ErrBookingNotOpen
	}

	venue, err := s.venues.GetByID(ctx, b.VenueID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	p, err := s.resolveParty(b, venue, actorID)
	if err != nil {
		return nil, err
	}

	if req.ProposedBasePrice != nil && !p.isOwner {
		return nil, ErrOwnerOnlyPrice
	}
	if len(req.Reason) > domain.MaxModificationReasonLen {
		return nil, ErrReasonTooLong
	}

	m := &domain.BookingModification{
		BookingRequestID:   b.ID,
		ProposedBy:         actorID,
		Status:             domain.ModificationPending,
		ProposedEventDate:  req.ProposedEventDate,
		ProposedStartTime:  req.ProposedStartTime,
		ProposedEndTime:    req.ProposedEndTime,
		ProposedGuestCount: req.ProposedGuestCount,
		ProposedBasePrice:  req.ProposedBasePrice,
		Reason:             req.Reason,
	}
	dropUnchanged(m, b)

	if !m.HasChanges() {
		return nil, ErrNoChanges
	}
	if err := s.validateProposal(m, b, venue); err != nil {
		return nil, err
	}

	if m.ProposedBasePrice != nil {
		breakdown := pricing.Calculate(*m.ProposedBasePrice)
		m.ProposedPlatformFee = &breakdown.PlatformFee
		m.ProposedTotalPrice = &breakdown.TotalPrice
		m.ProposedVenuePayout = &breakdown.VenuePayout
	}

	// Fast path for the visible case; the unique index still arbitrates races.
	if _, err := s.mods.PendingForBooking(ctx, b.ID); err == nil {
		return nil, ErrPendingExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if err := s.mods.Create(ctx, m); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrPendingExists
		}
		return nil, err
	}

	s.notifyCounterparty(ctx, p.counterparty, actorID, b.ID,
		domain.NotifModificationProposed, "Change proposed",
		fmt.Sprintf("A change to booking #%d was proposed", b.ID))
	s.broadcast.Broadcast(booking.BookingTopic(b.ID), actorID, "modified", "Change proposed")

	return m, nil
}

// dropUnchanged nulls out proposed fields equal to the booking's current
// values: a proposal must actually change something.
func dropUnchanged(m *domain.BookingModification, b *domain.BookingRequest) {
	if m.ProposedEventDate != nil && *m.ProposedEventDate == b.EventDate {
		m.ProposedEventDate = nil
	}
	if m.ProposedStartTime != nil && *m.ProposedStartTime == b.StartTime {
		m.ProposedStartTime = nil
	}
	if m.ProposedEndTime != nil && *m.ProposedEndTime == b.EndTime {
		m.ProposedEndTime = nil
	}
	if m.ProposedGuestCount != nil && *m.ProposedGuestCount == b.GuestCount {
		m.ProposedGuestCount = nil
	}
	if m.ProposedBasePrice != nil && *m.ProposedBasePrice == b.BasePrice {
		m.ProposedBasePrice = nil
	}
}

func (s *Service) validateProposal(m *domain.BookingModification, b *domain.BookingRequest, venue *domain.Venue) error {
	if m.ProposedGuestCount != nil && *m.ProposedGuestCount > venue.MaxCapacity {
		return ErrGuestsOverLimit
	}

	if m.ProposedEventDate != nil {
		day, err := time.Parse(dateLayout, *m.ProposedEventDate)
		if err != nil {
			return ErrDateNotFuture
		}
		if !day.After(time.Now().Truncate(24 * time.Hour)) {
			return ErrDateNotFuture
		}
	}

	start := b.StartTime
	end := b.EndTime
	if m.ProposedStartTime != nil {
		start = *m.ProposedStartTime
	}
	if m.ProposedEndTime != nil {
		end = *m.ProposedEndTime
	}
	startT, err := time.Parse(timeLayout, start)
	if err != nil {
		return ErrInvalidTimeRange
	}
	endT, err := time.Parse(timeLayout, end)
	if err != nil {
		return ErrInvalidTimeRange
	}
	if !endT.After(startT) {
		return ErrInvalidTimeRange
	}
	return nil
}

// Accept resolves a pending proposal and copies its fields onto the parent
// booking. Only the party that did not propose may accept.
func (s *Service) Accept(ctx context.Context, modificationID, actorID int64) (*domain.BookingModification, error) {
	m, b, venue, err := s.loadForResolution(ctx, modificationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveParty(b, venue, actorID); err != nil {
		return nil, err
	}
	if m.ProposedBy == actorID {
		return nil, ErrSelfResolution
	}

	if err := s.mods.Accept(ctx, m); err != nil {
		if repository.IsUniqueViolation(err) {
			// Accepting a date change can lose to a booking that claimed the
			// target date in the meantime.
			return nil, availability.ErrDateBooked
		}
		return nil, err
	}
	m.Status = domain.ModificationAccepted
	metrics.ModificationsResolved.WithLabelValues("accepted").Inc()

	s.notifyCounterparty(ctx, m.ProposedBy, actorID, b.ID,
		domain.NotifModificationAccepted, "Change accepted",
		fmt.Sprintf("Your proposed change to booking #%d was accepted", b.ID))
	s.broadcast.Broadcast(booking.BookingTopic(b.ID), actorID, "approved", "Change accepted")

	return m, nil
}

// Decline resolves a pending proposal without touching the parent booking.
// A reason is required.
func (s *Service) Decline(ctx context.Context, modificationID, actorID int64, reason string) (*domain.BookingModification, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if len(reason) > domain.MaxModificationReasonLen {
		return nil, ErrReasonTooLong
	}

	m, b, venue, err := s.loadForResolution(ctx, modificationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveParty(b, venue, actorID); err != nil {
		return nil, err
	}
	if m.ProposedBy == actorID {
		return nil, ErrSelfResolution
	}

	if err := s.mods.Resolve(ctx, m.ID, domain.ModificationDeclined); err != nil {
		return nil, err
	}
	m.Status = domain.ModificationDeclined
	metrics.ModificationsResolved.WithLabelValues("declined").Inc()

	s.notifyCounterparty(ctx, m.ProposedBy, actorID, b.ID,
		domain.NotifModificationDeclined, "Change declined",
		fmt.Sprintf("Your proposed change to booking #%d was declined: %s", b.ID, reason))
	s.broadcast.Broadcast(booking.BookingTopic(b.ID), actorID, "declined", "Change declined")

	return m, nil
}

// Cancel withdraws a pending proposal. Only the original proposer may do it.
func (s *Service) Cancel(ctx context.Context, modificationID, actorID int64) (*domain.BookingModification, error) {
	m, b, _, err := s.loadForResolution(ctx, modificationID)
	if err != nil {
		return nil, err
	}
	if m.ProposedBy != actorID {
		return nil, ErrForbidden
	}

	if err := s.mods.Resolve(ctx, m.ID, domain.ModificationCancelled); err != nil {
		return nil, err
	}
	m.Status = domain.ModificationCancelled
	metrics.ModificationsResolved.WithLabelValues("cancelled").Inc()

	s.broadcast.Broadcast(booking.BookingTopic(b.ID), actorID, "modified", "Proposal withdrawn")
	return m, nil
}

func (s *Service) loadForResolution(ctx context.Context, modificationID int64) (*domain.BookingModification, *domain.BookingRequest, *domain.Venue, error) {
	m, err := s.mods.GetByID(ctx, modificationID)
	if err != nil {
		return nil, nil, nil, ErrNotFound
	}
	if m.Status != domain.ModificationPending {
		return nil, nil, nil, ErrAlreadyResolved
	}
	b, err := s.bookings.GetByID(ctx, m.BookingRequestID)
	if err != nil {
		return nil, nil, nil, ErrBookingNotFound
	}
	venue, err := s.venues.GetByID(ctx, b.VenueID)
	if err != nil {
		return nil, nil, nil, ErrBookingNotFound
	}
	return m, b, venue, nil
}

func (s *Service) notifyCounterparty(ctx context.Context, recipientID, authorID, bookingID int64, category domain.NotificationCategory, headline, body string) {
	if recipientID == 0 {
		return
	}
	n := &domain.Notification{
		RecipientID: recipientID,
		Category:    category,
		Headline:    headline,
		Body:        body,
		RefKind:     domain.RefBooking,
		RefID:       bookingID,
		AuthorID:    &authorID,
	}
	if err := s.notifs.Notify(ctx, n); err != nil {
		s.log.Warn().Err(err).Int64("booking_id", bookingID).Msg("modification notification failed")
	}
}
