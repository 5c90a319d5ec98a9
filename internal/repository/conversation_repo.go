package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

type conversationModel struct {
	ID         int64           `gorm:"column:id;primaryKey"`
	VenueID    int64           `gorm:"column:venue_id;index"`
	CustomerID *int64          `gorm:"column:customer_id;index"`
	Messages   json.RawMessage `gorm:"column:messages;type:jsonb"`
	Revision   int64           `gorm:"column:revision"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (conversationModel) TableName() string { return "agent_conversations" }

func toDomainConversation(m conversationModel) (*domain.AgentConversation, error) {
	var msgs []domain.ConversationMessage
	if len(m.Messages) > 0 {
		if err := json.Unmarshal(m.Messages, &msgs); err != nil {
			return nil, fmt.Errorf("decode conversation %d messages: %w", m.ID, err)
		}
	}
	return &domain.AgentConversation{
		ID:         m.ID,
		VenueID:    m.VenueID,
		CustomerID: m.CustomerID,
		Messages:   msgs,
		Revision:   m.Revision,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}

func (r *ConversationRepository) Create(ctx context.Context, c *domain.AgentConversation) error {
	raw, err := json.Marshal(c.Messages)
	if err != nil {
		return fmt.Errorf("encode conversation messages: %w", err)
	}
	m := conversationModel{
		VenueID:    c.VenueID,
		CustomerID: c.CustomerID,
		Messages:   raw,
		Revision:   1,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	c.ID = m.ID
	c.Revision = m.Revision
	c.CreatedAt = m.CreatedAt
	c.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (*domain.AgentConversation, error) {
	var m conversationModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, normalizeNotFound(err)
	}
	return toDomainConversation(m)
}

// Save writes the full message array in one shot, guarded by a revision
// compare-and-swap. A concurrent turn that saved first makes this write a
// no-op and the caller gets ErrStaleConversation instead of silently losing
// messages.
func (r *ConversationRepository) Save(ctx context.Context, c *domain.AgentConversation) error {
	raw, err := json.Marshal(c.Messages)
	if err != nil {
		return fmt.Errorf("encode conversation messages: %w", err)
	}
	tx := r.db.WithContext(ctx).Model(&conversationModel{}).
		Where("id = ? AND revision = ?", c.ID, c.Revision).
		Updates(map[string]any{
			"messages":   raw,
			"revision":   c.Revision + 1,
			"updated_at": time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleConversation
	}
	c.Revision++
	return nil
}
