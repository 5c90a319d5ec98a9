package repository

import "gorm.io/gorm"

// AutoMigrate creates the schema plus the two partial unique indexes that
// back the double-booking and single-pending-proposal invariants. The
// indexes are the real arbiters under concurrency; application code only
// interprets the resulting conflicts.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&venueModel{},
		&blockedDateModel{},
		&bookingModel{},
		&modificationModel{},
		&conversationModel{},
		&inquiryModel{},
		&notificationModel{},
	); err != nil {
		return err
	}

	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_booking_per_date
			ON booking_requests (venue_id, event_date)
			WHERE status IN ('pending', 'accepted')`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_pending_modification
			ON booking_modifications (booking_request_id)
			WHERE status = 'pending'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_blocked_dates_venue_date
			ON blocked_dates (venue_id, date)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
