package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID          int64           `gorm:"column:id;primaryKey"`
	RecipientID int64           `gorm:"column:recipient_id;index:idx_notifications_recipient_unread"`
	Category    string          `gorm:"column:category;size:32"`
	Headline    string          `gorm:"column:headline"`
	Body        *string         `gorm:"column:body"`
	RefKind     string          `gorm:"column:ref_kind;size:16"`
	RefID       int64           `gorm:"column:ref_id"`
	AuthorID    *int64          `gorm:"column:author_id"`
	Extra       json.RawMessage `gorm:"column:extra;type:jsonb"`
	IsRead      bool            `gorm:"column:is_read;index:idx_notifications_recipient_unread"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

func toDomainNotification(m notificationModel) domain.Notification {
	return domain.Notification{
		ID:          m.ID,
		RecipientID: m.RecipientID,
		Category:    domain.NotificationCategory(m.Category),
		Headline:    m.Headline,
		Body:        derefString(m.Body),
		RefKind:     domain.ReferenceKind(m.RefKind),
		RefID:       m.RefID,
		AuthorID:    m.AuthorID,
		Extra:       m.Extra,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	m := notificationModel{
		RecipientID: n.RecipientID,
		Category:    string(n.Category),
		Headline:    n.Headline,
		Body:        optString(n.Body),
		RefKind:     string(n.RefKind),
		RefID:       n.RefID,
		AuthorID:    n.AuthorID,
		Extra:       n.Extra,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64, limit int) ([]domain.Notification, error) {
	var ms []notificationModel
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Notification, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&cnt).Error
	return cnt, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID int64) error {
	tx := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
