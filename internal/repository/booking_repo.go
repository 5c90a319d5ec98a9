package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	VenueID           int64     `gorm:"column:venue_id;index"`
	CustomerID        *int64    `gorm:"column:customer_id;index"`
	EventDate         string    `gorm:"column:event_date;size:10"`
	StartTime         string    `gorm:"column:start_time;size:5"`
	EndTime           string    `gorm:"column:end_time;size:5"`
	EventType         string    `gorm:"column:event_type;size:32"`
	GuestCount        int       `gorm:"column:guest_count"`
	CustomerName      string    `gorm:"column:customer_name"`
	CustomerEmail     string    `gorm:"column:customer_email"`
	CustomerPhone     *string   `gorm:"column:customer_phone"`
	CompanyName       *string   `gorm:"column:company_name"`
	EventDescription  *string   `gorm:"column:event_description"`
	BasePrice         int64     `gorm:"column:base_price"`
	PlatformFee       int64     `gorm:"column:platform_fee"`
	TotalPrice        int64     `gorm:"column:total_price"`
	VenuePayout       int64     `gorm:"column:venue_payout"`
	Status            string    `gorm:"column:status;size:16;index"`
	VerificationToken string    `gorm:"column:verification_token;size:64;index"`
	InquiryID         *int64    `gorm:"column:inquiry_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "booking_requests" }

func optString(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func toDomainBooking(m bookingModel) *domain.BookingRequest {
	return &domain.BookingRequest{
		ID:                m.ID,
		VenueID:           m.VenueID,
		CustomerID:        m.CustomerID,
		EventDate:         m.EventDate,
		StartTime:         m.StartTime,
		EndTime:           m.EndTime,
		EventType:         m.EventType,
		GuestCount:        m.GuestCount,
		CustomerName:      m.CustomerName,
		CustomerEmail:     m.CustomerEmail,
		CustomerPhone:     derefString(m.CustomerPhone),
		CompanyName:       derefString(m.CompanyName),
		EventDescription:  derefString(m.EventDescription),
		BasePrice:         m.BasePrice,
		PlatformFee:       m.PlatformFee,
		TotalPrice:        m.TotalPrice,
		VenuePayout:       m.VenuePayout,
		Status:            domain.BookingStatus(m.Status),
		VerificationToken: m.VerificationToken,
		InquiryID:         m.InquiryID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toBookingModel(b *domain.BookingRequest) bookingModel {
	return bookingModel{
		ID:                b.ID,
		VenueID:           b.VenueID,
		CustomerID:        b.CustomerID,
		EventDate:         b.EventDate,
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		EventType:         b.EventType,
		GuestCount:        b.GuestCount,
		CustomerName:      b.CustomerName,
		CustomerEmail:     b.CustomerEmail,
		CustomerPhone:     optString(b.CustomerPhone),
		CompanyName:       optString(b.CompanyName),
		EventDescription:  optString(b.EventDescription),
		BasePrice:         b.BasePrice,
		PlatformFee:       b.PlatformFee,
		TotalPrice:        b.TotalPrice,
		VenuePayout:       b.VenuePayout,
		Status:            string(b.Status),
		VerificationToken: b.VerificationToken,
		InquiryID:         b.InquiryID,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// ClaimDate atomically checks the blocked-date list and inserts the booking.
// The partial unique index idx_one_active_booking_per_date arbitrates races
// between concurrent claims for the same venue+date; callers detect the
// loser via IsUniqueViolation.
func (r *BookingRepository) ClaimDate(ctx context.Context, b *domain.BookingRequest) error {
	m := toBookingModel(b)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blocked int64
		if err := tx.Model(&blockedDateModel{}).
			Where("venue_id = ? AND date = ?", b.VenueID, b.EventDate).
			Count(&blocked).Error; err != nil {
			return fmt.Errorf("check blocked dates: %w", err)
		}
		if blocked > 0 {
			return ErrBlockedDate
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return err
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, normalizeNotFound(err)
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.BookingRequest, error) {
	var ms []bookingModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("event_date DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.BookingRequest, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.BookingRequest, error) {
	var ms []bookingModel
	err := r.db.WithContext(ctx).
		Joins("JOIN venues ON venues.id = booking_requests.venue_id").
		Where("venues.owner_id = ?", ownerID).
		Order("booking_requests.event_date DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.BookingRequest, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveDates returns event dates holding a pending or accepted booking for
// the venue inside [from, to]. Read-only, used by availability displays.
func (r *BookingRepository) ActiveDates(ctx context.Context, venueID int64, from, to string) ([]string, error) {
	var dates []string
	err := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("venue_id = ? AND status IN ? AND event_date BETWEEN ? AND ?",
			venueID, []string{string(domain.BookingPending), string(domain.BookingAccepted)}, from, to).
		Pluck("event_date", &dates).Error
	return dates, err
}

// CompletePastAccepted advances accepted bookings whose event date is before
// the cutoff to completed. Returns the number of rows advanced.
func (r *BookingRepository) CompletePastAccepted(ctx context.Context, cutoffDate string) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("status = ? AND event_date < ?", string(domain.BookingAccepted), cutoffDate).
		Updates(map[string]any{"status": string(domain.BookingCompleted), "updated_at": time.Now()})
	return tx.RowsAffected, tx.Error
}
