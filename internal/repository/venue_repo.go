package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type VenueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

type venueModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	OwnerID           int64     `gorm:"column:owner_id;index"`
	Name              string    `gorm:"column:name"`
	Description       *string   `gorm:"column:description"`
	City              *string   `gorm:"column:city"`
	Published         bool      `gorm:"column:published"`
	MinGuests         int       `gorm:"column:min_guests"`
	MaxCapacity       int       `gorm:"column:max_capacity"`
	PriceFullDay      int64     `gorm:"column:price_full_day"`
	PriceHalfDay      int64     `gorm:"column:price_half_day"`
	PriceEvening      int64     `gorm:"column:price_evening"`
	PriceHourly       int64     `gorm:"column:price_hourly"`
	AgentEnabled      bool      `gorm:"column:agent_enabled"`
	AgentInstructions *string   `gorm:"column:agent_instructions"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (venueModel) TableName() string { return "venues" }

type blockedDateModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	VenueID   int64     `gorm:"column:venue_id;index"`
	Date      string    `gorm:"column:date;size:10"`
	Reason    *string   `gorm:"column:reason"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (blockedDateModel) TableName() string { return "blocked_dates" }

func toDomainVenue(m venueModel) *domain.Venue {
	return &domain.Venue{
		ID:                m.ID,
		OwnerID:           m.OwnerID,
		Name:              m.Name,
		Description:       derefString(m.Description),
		City:              derefString(m.City),
		Published:         m.Published,
		MinGuests:         m.MinGuests,
		MaxCapacity:       m.MaxCapacity,
		PriceFullDay:      m.PriceFullDay,
		PriceHalfDay:      m.PriceHalfDay,
		PriceEvening:      m.PriceEvening,
		PriceHourly:       m.PriceHourly,
		AgentEnabled:      m.AgentEnabled,
		AgentInstructions: derefString(m.AgentInstructions),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func (r *VenueRepository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	var m venueModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, normalizeNotFound(err)
	}
	return toDomainVenue(m), nil
}

func (r *VenueRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Venue, error) {
	var ms []venueModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Venue, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainVenue(m))
	}
	return out, nil
}

// BlockedDates returns the owner-blocked dates for a venue inside [from, to].
func (r *VenueRepository) BlockedDates(ctx context.Context, venueID int64, from, to string) ([]string, error) {
	var dates []string
	err := r.db.WithContext(ctx).Model(&blockedDateModel{}).
		Where("venue_id = ? AND date BETWEEN ? AND ?", venueID, from, to).
		Pluck("date", &dates).Error
	return dates, err
}

// IsDateBlocked answers the single-date blocked check for the agent's
// availability tool.
func (r *VenueRepository) IsDateBlocked(ctx context.Context, venueID int64, date string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&blockedDateModel{}).
		Where("venue_id = ? AND date = ?", venueID, date).
		Count(&cnt).Error
	return cnt > 0, err
}
