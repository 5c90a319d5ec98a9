package notification

import (
	"context"

	"github.com/rs/zerolog"

	"venuebook/internal/domain"
)

const defaultListLimit = 50

type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, recipientID int64) (int64, error)
	MarkRead(ctx context.Context, id, recipientID int64) error
}

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Notify persists a notification. Callers treat it as best-effort; the error
// is returned so they can log it, but they must not fail their own operation
// on it.
func (s *Service) Notify(ctx context.Context, n *domain.Notification) error {
	return s.repo.Create(ctx, n)
}

func (s *Service) List(ctx context.Context, recipientID int64) ([]domain.Notification, int64, error) {
	items, err := s.repo.ListByRecipient(ctx, recipientID, defaultListLimit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

func (s *Service) MarkRead(ctx context.Context, id, recipientID int64) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}
