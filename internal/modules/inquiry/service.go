package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"venuebook/internal/domain"
)

var (
	ErrVenueNotFound = errors.New("venue not found")
	ErrInvalid       = errors.New("name, email and venueId are required")
)

type Repository interface {
	Create(ctx context.Context, q *domain.Inquiry) error
}

type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
}

type NotificationSender interface {
	Notify(ctx context.Context, n *domain.Notification) error
}

type Service struct {
	repo   Repository
	venues VenueRepository
	notifs NotificationSender
	log    zerolog.Logger
}

func NewService(repo Repository, venues VenueRepository, notifs NotificationSender, log zerolog.Logger) *Service {
	return &Service{repo: repo, venues: venues, notifs: notifs, log: log}
}

// Create records a pre-booking contact. Open to anonymous visitors, so all
// identity comes from the form itself.
func (s *Service) Create(ctx context.Context, req CreateInquiryRequest) (*domain.Inquiry, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if req.VenueID == 0 || name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalid
	}

	venue, err := s.venues.GetByID(ctx, req.VenueID)
	if err != nil || !venue.Published {
		return nil, ErrVenueNotFound
	}

	q := &domain.Inquiry{
		VenueID: venue.ID,
		Name:    name,
		Email:   email,
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}

	n := &domain.Notification{
		RecipientID: venue.OwnerID,
		Category:    domain.NotifMessageReceived,
		Headline:    "New inquiry",
		Body:        fmt.Sprintf("%s asked about %s", name, venue.Name),
		RefKind:     domain.RefInquiry,
		RefID:       q.ID,
	}
	if err := s.notifs.Notify(ctx, n); err != nil {
		s.log.Warn().Err(err).Int64("inquiry_id", q.ID).Msg("inquiry notification failed")
	}

	return q, nil
}
