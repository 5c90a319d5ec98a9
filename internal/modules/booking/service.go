package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"venuebook/internal/domain"
	"venuebook/internal/metrics"
	"venuebook/internal/pricing"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Service struct {
	bookings  BookingRepository
	venues    VenueRepository
	gate      Gate
	notifs    NotificationSender
	inquiries InquiryConverter
	broadcast Broadcaster
	log       zerolog.Logger
}

func NewService(
	bookings BookingRepository,
	venues VenueRepository,
	gate Gate,
	notifs NotificationSender,
	inquiries InquiryConverter,
	broadcast Broadcaster,
	log zerolog.Logger,
) *Service {
	return &Service{
		bookings:  bookings,
		venues:    venues,
		gate:      gate,
		notifs:    notifs,
		inquiries: inquiries,
		broadcast: broadcast,
		log:       log,
	}
}

// CreateBooking validates the request, prices it server-side and claims the
// date through the availability gate. Notification and inquiry conversion
// are secondary effects: their failure is logged, the booking stands.
func (s *Service) CreateBooking(ctx context.Context, customerID *int64, req CreateBookingRequest) (*domain.BookingRequest, error) {
	if customerID == nil {
		return nil, validation("Booking requires a signed-in customer; anonymous visitors can send an inquiry instead")
	}
	if req.CustomerName == "" || req.CustomerEmail == "" {
		return nil, validation("Customer name and email are required")
	}

	start, err := time.Parse(timeLayout, req.StartTime)
	if err != nil {
		return nil, validation("Start time must be in HH:MM format")
	}
	end, err := time.Parse(timeLayout, req.EndTime)
	if err != nil {
		return nil, validation("End time must be in HH:MM format")
	}
	if !end.After(start) {
		return nil, validation("End time must be after start time")
	}

	if !domain.ValidEventType(req.EventType) {
		return nil, validation("Unknown event type")
	}

	venue, err := s.venues.GetByID(ctx, req.VenueID)
	if err != nil {
		return nil, ErrVenueNotFound
	}

	if req.GuestCount < venue.MinGuests || req.GuestCount > venue.MaxCapacity {
		return nil, validation(fmt.Sprintf("Guest count must be between %d and %d for this venue", venue.MinGuests, venue.MaxCapacity))
	}

	eventDate, err := time.Parse(dateLayout, req.EventDate)
	if err != nil {
		return nil, validation("Event date must be in YYYY-MM-DD format")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if !eventDate.After(today) {
		return nil, validation("Event date must be in the future")
	}

	basePrice, _, err := pricing.SelectTier(venue)
	if err != nil {
		return nil, validation("This venue has no pricing configured yet")
	}
	breakdown := pricing.Calculate(basePrice)

	b := &domain.BookingRequest{
		VenueID:           req.VenueID,
		CustomerID:        customerID,
		EventDate:         req.EventDate,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		EventType:         req.EventType,
		GuestCount:        req.GuestCount,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		CompanyName:       req.CompanyName,
		EventDescription:  req.EventDescription,
		BasePrice:         breakdown.BasePrice,
		PlatformFee:       breakdown.PlatformFee,
		TotalPrice:        breakdown.TotalPrice,
		VenuePayout:       breakdown.VenuePayout,
		Status:            domain.BookingPending,
		VerificationToken: uuid.NewString(),
		InquiryID:         req.InquiryID,
	}

	if err := s.gate.Claim(ctx, b); err != nil {
		return nil, err
	}
	metrics.BookingsCreated.Inc()

	s.notifyOwner(ctx, venue, b)

	if req.InquiryID != nil {
		s.convertInquiry(ctx, *req.InquiryID, b)
	}

	return b, nil
}

// convertInquiry links the source inquiry to its booking. The link is skipped
// when the inquiry cannot be found or targets a different venue; the booking
// stands either way.
func (s *Service) convertInquiry(ctx context.Context, inquiryID int64, b *domain.BookingRequest) {
	inq, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		s.log.Warn().Err(err).Int64("inquiry_id", inquiryID).Msg("inquiry lookup failed, link skipped")
		return
	}
	if inq.VenueID != b.VenueID {
		s.log.Warn().Int64("inquiry_id", inquiryID).Int64("booking_id", b.ID).
			Msg("inquiry targets another venue, link skipped")
		return
	}
	if err := s.inquiries.MarkLinked(ctx, inquiryID, b.ID); err != nil {
		s.log.Warn().Err(err).Int64("inquiry_id", inquiryID).Int64("booking_id", b.ID).
			Msg("inquiry conversion failed, booking stands")
	}
}

func (s *Service) notifyOwner(ctx context.Context, venue *domain.Venue, b *domain.BookingRequest) {
	n := &domain.Notification{
		RecipientID: venue.OwnerID,
		Category:    domain.NotifBookingCreated,
		Headline:    "New booking request",
		Body:        fmt.Sprintf("%s requested %s on %s for %d guests", b.CustomerName, venue.Name, b.EventDate, b.GuestCount),
		RefKind:     domain.RefBooking,
		RefID:       b.ID,
		AuthorID:    b.CustomerID,
	}
	if err := s.notifs.Notify(ctx, n); err != nil {
		s.log.Warn().Err(err).Int64("booking_id", b.ID).Msg("owner notification failed")
	}
}

// GetForViewer returns the booking when the viewer is a party to it, or when
// the verification token matches (unauthenticated confirmation page).
func (s *Service) GetForViewer(ctx context.Context, bookingID int64, viewerID *int64, token string) (*domain.BookingRequest, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	if token != "" && token == b.VerificationToken {
		return b, nil
	}
	if viewerID != nil {
		if b.CustomerID != nil && *b.CustomerID == *viewerID {
			return b, nil
		}
		venue, err := s.venues.GetByID(ctx, b.VenueID)
		if err == nil && venue.OwnerID == *viewerID {
			return b, nil
		}
	}
	return nil, ErrForbidden
}

// ListForActor returns the actor's bookings: as customer when role is
// customer, as venue owner otherwise.
func (s *Service) ListForActor(ctx context.Context, actorID int64, role string, limit, offset int) ([]BookingView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []domain.BookingRequest
	var err error
	if role == string(domain.RoleVenueOwner) {
		rows, err = s.bookings.ListByOwner(ctx, actorID, limit, offset)
	} else {
		rows, err = s.bookings.ListByCustomer(ctx, actorID, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	out := make([]BookingView, 0, len(rows))
	for i := range rows {
		out = append(out, toView(&rows[i]))
	}
	return out, nil
}

// Accept moves a pending booking to accepted. Only the venue owner may do it.
func (s *Service) Accept(ctx context.Context, bookingID, actorID int64) (*domain.BookingRequest, error) {
	return s.ownerTransition(ctx, bookingID, actorID, domain.BookingAccepted, "approved",
		domain.NotifBookingAccepted, "Booking accepted", "Your booking request was accepted by the venue")
}

// Decline moves a pending booking to declined. Only the venue owner may do it.
func (s *Service) Decline(ctx context.Context, bookingID, actorID int64) (*domain.BookingRequest, error) {
	return s.ownerTransition(ctx, bookingID, actorID, domain.BookingDeclined, "declined",
		domain.NotifBookingDeclined, "Booking declined", "Your booking request was declined by the venue")
}

func (s *Service) ownerTransition(
	ctx context.Context,
	bookingID, actorID int64,
	target domain.BookingStatus,
	action string,
	category domain.NotificationCategory,
	headline, body string,
) (*domain.BookingRequest, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	venue, err := s.venues.GetByID(ctx, b.VenueID)
	if err != nil {
		return nil, ErrVenueNotFound
	}
	if venue.OwnerID != actorID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidTransition
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, target); err != nil {
		return nil, err
	}
	b.Status = target

	if b.CustomerID != nil {
		n := &domain.Notification{
			RecipientID: *b.CustomerID,
			Category:    category,
			Headline:    headline,
			Body:        body,
			RefKind:     domain.RefBooking,
			RefID:       b.ID,
			AuthorID:    &actorID,
		}
		if err := s.notifs.Notify(ctx, n); err != nil {
			s.log.Warn().Err(err).Int64("booking_id", b.ID).Msg("customer notification failed")
		}
	}

	s.broadcast.Broadcast(BookingTopic(b.ID), actorID, action, headline)
	return b, nil
}

// Cancel withdraws a booking. Either party may cancel while the booking is
// pending or accepted.
func (s *Service) Cancel(ctx context.Context, bookingID, actorID int64) (*domain.BookingRequest, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	venue, err := s.venues.GetByID(ctx, b.VenueID)
	if err != nil {
		return nil, ErrVenueNotFound
	}

	isCustomer := b.CustomerID != nil && *b.CustomerID == actorID
	isOwner := venue.OwnerID == actorID
	if !isCustomer && !isOwner {
		return nil, ErrForbidden
	}
	if !b.Active() {
		return nil, ErrInvalidTransition
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingCancelled); err != nil {
		return nil, err
	}
	b.Status = domain.BookingCancelled

	var recipient int64
	if isCustomer {
		recipient = venue.OwnerID
	} else if b.CustomerID != nil {
		recipient = *b.CustomerID
	}
	if recipient != 0 {
		n := &domain.Notification{
			RecipientID: recipient,
			Category:    domain.NotifBookingCancelled,
			Headline:    "Booking cancelled",
			Body:        fmt.Sprintf("Booking for %s on %s was cancelled", venue.Name, b.EventDate),
			RefKind:     domain.RefBooking,
			RefID:       b.ID,
			AuthorID:    &actorID,
		}
		if err := s.notifs.Notify(ctx, n); err != nil {
			s.log.Warn().Err(err).Int64("booking_id", b.ID).Msg("cancel notification failed")
		}
	}

	s.broadcast.Broadcast(BookingTopic(b.ID), actorID, "declined", "Booking cancelled")
	return b, nil
}

// CompletePastBookings advances accepted bookings whose date has passed.
// Run periodically from the entrypoint.
func (s *Service) CompletePastBookings(ctx context.Context, now time.Time) (int64, error) {
	return s.bookings.CompletePastAccepted(ctx, now.Format(dateLayout))
}

// BookingTopic names the realtime channel for one booking.
func BookingTopic(bookingID int64) string {
	return fmt.Sprintf("booking:%d", bookingID)
}
