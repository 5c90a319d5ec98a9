package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

type inquiryModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	VenueID          int64     `gorm:"column:venue_id;index"`
	Name             string    `gorm:"column:name"`
	Email            string    `gorm:"column:email"`
	Phone            *string   `gorm:"column:phone"`
	Message          *string   `gorm:"column:message"`
	Status           string    `gorm:"column:status;size:16"`
	BookingRequestID *int64    `gorm:"column:booking_request_id"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (inquiryModel) TableName() string { return "inquiries" }

func toDomainInquiry(m inquiryModel) *domain.Inquiry {
	return &domain.Inquiry{
		ID:               m.ID,
		VenueID:          m.VenueID,
		Name:             m.Name,
		Email:            m.Email,
		Phone:            derefString(m.Phone),
		Message:          derefString(m.Message),
		Status:           domain.InquiryStatus(m.Status),
		BookingRequestID: m.BookingRequestID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (r *InquiryRepository) Create(ctx context.Context, q *domain.Inquiry) error {
	m := inquiryModel{
		VenueID: q.VenueID,
		Name:    q.Name,
		Email:   q.Email,
		Phone:   optString(q.Phone),
		Message: optString(q.Message),
		Status:  string(domain.InquiryNew),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*q = *toDomainInquiry(m)
	return nil
}

func (r *InquiryRepository) GetByID(ctx context.Context, id int64) (*domain.Inquiry, error) {
	var m inquiryModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, normalizeNotFound(err)
	}
	return toDomainInquiry(m), nil
}

// MarkLinked converts an inquiry once a booking is created from it.
func (r *InquiryRepository) MarkLinked(ctx context.Context, id, bookingID int64) error {
	tx := r.db.WithContext(ctx).Model(&inquiryModel{}).
		Where("id = ? AND status = ?", id, string(domain.InquiryNew)).
		Updates(map[string]any{
			"status":             string(domain.InquiryLinked),
			"booking_request_id": bookingID,
			"updated_at":         time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
