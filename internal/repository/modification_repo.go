package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type ModificationRepository struct {
	db *gorm.DB
}

func NewModificationRepository(db *gorm.DB) *ModificationRepository {
	return &ModificationRepository{db: db}
}

type modificationModel struct {
	ID                  int64      `gorm:"column:id;primaryKey"`
	BookingRequestID    int64      `gorm:"column:booking_request_id;index"`
	ProposedBy          int64      `gorm:"column:proposed_by"`
	Status              string     `gorm:"column:status;size:16"`
	ProposedEventDate   *string    `gorm:"column:proposed_event_date;size:10"`
	ProposedStartTime   *string    `gorm:"column:proposed_start_time;size:5"`
	ProposedEndTime     *string    `gorm:"column:proposed_end_time;size:5"`
	ProposedGuestCount  *int       `gorm:"column:proposed_guest_count"`
	ProposedBasePrice   *int64     `gorm:"column:proposed_base_price"`
	ProposedPlatformFee *int64     `gorm:"column:proposed_platform_fee"`
	ProposedTotalPrice  *int64     `gorm:"column:proposed_total_price"`
	ProposedVenuePayout *int64     `gorm:"column:proposed_venue_payout"`
	Reason              *string    `gorm:"column:reason;size:500"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
	ResolvedAt          *time.Time `gorm:"column:resolved_at"`
}

func (modificationModel) TableName() string { return "booking_modifications" }

func toDomainModification(m modificationModel) *domain.BookingModification {
	return &domain.BookingModification{
		ID:                  m.ID,
		BookingRequestID:    m.BookingRequestID,
		ProposedBy:          m.ProposedBy,
		Status:              domain.ModificationStatus(m.Status),
		ProposedEventDate:   m.ProposedEventDate,
		ProposedStartTime:   m.ProposedStartTime,
		ProposedEndTime:     m.ProposedEndTime,
		ProposedGuestCount:  m.ProposedGuestCount,
		ProposedBasePrice:   m.ProposedBasePrice,
		ProposedPlatformFee: m.ProposedPlatformFee,
		ProposedTotalPrice:  m.ProposedTotalPrice,
		ProposedVenuePayout: m.ProposedVenuePayout,
		Reason:              derefString(m.Reason),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		ResolvedAt:          m.ResolvedAt,
	}
}

func toModificationModel(d *domain.BookingModification) modificationModel {
	return modificationModel{
		ID:                  d.ID,
		BookingRequestID:    d.BookingRequestID,
		ProposedBy:          d.ProposedBy,
		Status:              string(d.Status),
		ProposedEventDate:   d.ProposedEventDate,
		ProposedStartTime:   d.ProposedStartTime,
		ProposedEndTime:     d.ProposedEndTime,
		ProposedGuestCount:  d.ProposedGuestCount,
		ProposedBasePrice:   d.ProposedBasePrice,
		ProposedPlatformFee: d.ProposedPlatformFee,
		ProposedTotalPrice:  d.ProposedTotalPrice,
		ProposedVenuePayout: d.ProposedVenuePayout,
		Reason:              optString(d.Reason),
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
		ResolvedAt:          d.ResolvedAt,
	}
}

// Create inserts a proposal. The partial unique index
// idx_one_pending_modification rejects a second pending proposal for the
// same booking; callers map the violation to a typed conflict.
func (r *ModificationRepository) Create(ctx context.Context, d *domain.BookingModification) error {
	m := toModificationModel(d)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*d = *toDomainModification(m)
	return nil
}

func (r *ModificationRepository) GetByID(ctx context.Context, id int64) (*domain.BookingModification, error) {
	var m modificationModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, normalizeNotFound(err)
	}
	return toDomainModification(m), nil
}

// Resolve moves a pending proposal to a terminal status. The WHERE guard on
// status makes resolution idempotent-safe: a second resolver sees zero rows.
func (r *ModificationRepository) Resolve(ctx context.Context, id int64, status domain.ModificationStatus) error {
	now := time.Now()
	tx := r.db.WithContext(ctx).Model(&modificationModel{}).
		Where("id = ? AND status = ?", id, string(domain.ModificationPending)).
		Updates(map[string]any{
			"status":      string(status),
			"resolved_at": now,
			"updated_at":  now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Accept resolves the proposal and copies every non-null proposed field onto
// the parent booking in one transaction. A date change can collide with the
// active-booking index on the target date; the violation propagates for the
// caller to map to a booked-date conflict.
func (r *ModificationRepository) Accept(ctx context.Context, d *domain.BookingModification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&modificationModel{}).
			Where("id = ? AND status = ?", d.ID, string(domain.ModificationPending)).
			Updates(map[string]any{
				"status":      string(domain.ModificationAccepted),
				"resolved_at": now,
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		updates := map[string]any{"updated_at": now}
		if d.ProposedEventDate != nil {
			updates["event_date"] = *d.ProposedEventDate
		}
		if d.ProposedStartTime != nil {
			updates["start_time"] = *d.ProposedStartTime
		}
		if d.ProposedEndTime != nil {
			updates["end_time"] = *d.ProposedEndTime
		}
		if d.ProposedGuestCount != nil {
			updates["guest_count"] = *d.ProposedGuestCount
		}
		if d.ProposedBasePrice != nil {
			updates["base_price"] = *d.ProposedBasePrice
			updates["platform_fee"] = *d.ProposedPlatformFee
			updates["total_price"] = *d.ProposedTotalPrice
			updates["venue_payout"] = *d.ProposedVenuePayout
		}
		return tx.Model(&bookingModel{}).
			Where("id = ?", d.BookingRequestID).
			Updates(updates).Error
	})
}

// PendingForBooking returns the pending proposal for a booking, if any.
func (r *ModificationRepository) PendingForBooking(ctx context.Context, bookingID int64) (*domain.BookingModification, error) {
	var m modificationModel
	err := r.db.WithContext(ctx).
		Where("booking_request_id = ? AND status = ?", bookingID, string(domain.ModificationPending)).
		First(&m).Error
	if err != nil {
		return nil, normalizeNotFound(err)
	}
	return toDomainModification(m), nil
}
