package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"venuebook/internal/database"
	"venuebook/internal/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps sqlite writes serialized so the concurrency
	// tests see unique violations instead of busy errors.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedVenue(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	m := venueModel{
		OwnerID:      1,
		Name:         "Grand Hall",
		Published:    true,
		MinGuests:    10,
		MaxCapacity:  200,
		PriceFullDay: 18000,
	}
	require.NoError(t, db.Create(&m).Error)
	return m.ID
}

func claimableBooking(venueID int64, date, token string) *domain.BookingRequest {
	customerID := int64(42)
	return &domain.BookingRequest{
		VenueID:           venueID,
		CustomerID:        &customerID,
		EventDate:         date,
		StartTime:         "14:00",
		EndTime:           "22:00",
		EventType:         "wedding",
		GuestCount:        80,
		CustomerName:      "Dana",
		CustomerEmail:     "dana@example.com",
		BasePrice:         18000,
		PlatformFee:       2160,
		TotalPrice:        20160,
		VenuePayout:       18000,
		Status:            domain.BookingPending,
		VerificationToken: token,
	}
}

func TestClaimDate_ConcurrentClaimsSingleWinner(t *testing.T) {
	db := testDB(t)
	repo := NewBookingRepository(db)
	venueID := seedVenue(t, db)

	const claimers = 8
	errs := make([]error, claimers)
	var wg sync.WaitGroup
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := claimableBooking(venueID, "2026-10-01", fmt.Sprintf("tok-%d", i))
			errs[i] = repo.ClaimDate(context.Background(), b)
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case IsUniqueViolation(err):
			conflicts++
		default:
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, claimers-1, conflicts)

	var active int64
	require.NoError(t, db.Model(&bookingModel{}).
		Where("venue_id = ? AND event_date = ? AND status IN ?",
			venueID, "2026-10-01", []string{"pending", "accepted"}).
		Count(&active).Error)
	assert.Equal(t, int64(1), active)
}

func TestClaimDate_BlockedDateRejected(t *testing.T) {
	db := testDB(t)
	repo := NewBookingRepository(db)
	venueID := seedVenue(t, db)
	require.NoError(t, db.Create(&blockedDateModel{VenueID: venueID, Date: "2026-10-01"}).Error)

	err := repo.ClaimDate(context.Background(), claimableBooking(venueID, "2026-10-01", "tok-1"))
	assert.ErrorIs(t, err, ErrBlockedDate)
}

func TestClaimDate_ReleasedDateReclaimable(t *testing.T) {
	db := testDB(t)
	repo := NewBookingRepository(db)
	venueID := seedVenue(t, db)

	first := claimableBooking(venueID, "2026-10-01", "tok-1")
	require.NoError(t, repo.ClaimDate(context.Background(), first))

	// The unique index only covers active statuses; cancellation frees the date.
	require.NoError(t, repo.UpdateStatus(context.Background(), first.ID, domain.BookingCancelled))

	second := claimableBooking(venueID, "2026-10-01", "tok-2")
	assert.NoError(t, repo.ClaimDate(context.Background(), second))
}

func seedBooking(t *testing.T, repo *BookingRepository, venueID int64, date, token string) *domain.BookingRequest {
	t.Helper()
	b := claimableBooking(venueID, date, token)
	require.NoError(t, repo.ClaimDate(context.Background(), b))
	return b
}

func TestModificationCreate_ConcurrentProposalsSinglePending(t *testing.T) {
	db := testDB(t)
	bookings := NewBookingRepository(db)
	mods := NewModificationRepository(db)
	venueID := seedVenue(t, db)
	b := seedBooking(t, bookings, venueID, "2026-03-01", "tok-1")

	const proposers = 8
	errs := make([]error, proposers)
	var wg sync.WaitGroup
	for i := 0; i < proposers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			guests := 50 + i
			errs[i] = mods.Create(context.Background(), &domain.BookingModification{
				BookingRequestID:   b.ID,
				ProposedBy:         42,
				Status:             domain.ModificationPending,
				ProposedGuestCount: &guests,
			})
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case IsUniqueViolation(err):
			conflicts++
		default:
			t.Fatalf("unexpected propose error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, proposers-1, conflicts)

	var pending int64
	require.NoError(t, db.Model(&modificationModel{}).
		Where("booking_request_id = ? AND status = ?", b.ID, "pending").
		Count(&pending).Error)
	assert.Equal(t, int64(1), pending)
}

func TestModificationAccept_AppliesOnlyProposedFields(t *testing.T) {
	db := testDB(t)
	bookings := NewBookingRepository(db)
	mods := NewModificationRepository(db)
	venueID := seedVenue(t, db)
	b := seedBooking(t, bookings, venueID, "2026-03-01", "tok-1")

	newDate := "2026-03-10"
	m := &domain.BookingModification{
		BookingRequestID:  b.ID,
		ProposedBy:        1,
		Status:            domain.ModificationPending,
		ProposedEventDate: &newDate,
	}
	require.NoError(t, mods.Create(context.Background(), m))
	require.NoError(t, mods.Accept(context.Background(), m))

	got, err := bookings.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", got.EventDate)
	assert.Equal(t, 80, got.GuestCount)

	resolved, err := mods.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModificationAccepted, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)
}

func TestModificationAccept_DateChangeCollidesWithActiveBooking(t *testing.T) {
	db := testDB(t)
	bookings := NewBookingRepository(db)
	mods := NewModificationRepository(db)
	venueID := seedVenue(t, db)
	seedBooking(t, bookings, venueID, "2026-03-10", "tok-1")
	b := seedBooking(t, bookings, venueID, "2026-03-01", "tok-2")

	takenDate := "2026-03-10"
	m := &domain.BookingModification{
		BookingRequestID:  b.ID,
		ProposedBy:        1,
		Status:            domain.ModificationPending,
		ProposedEventDate: &takenDate,
	}
	require.NoError(t, mods.Create(context.Background(), m))

	err := mods.Accept(context.Background(), m)
	assert.True(t, IsUniqueViolation(err), "expected a unique violation, got %v", err)

	// The transaction rolled back: the proposal is still pending and the
	// booking kept its original date.
	still, err := mods.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModificationPending, still.Status)
	got, err := bookings.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", got.EventDate)
}

func TestModificationResolve_SecondResolverSeesNothing(t *testing.T) {
	db := testDB(t)
	bookings := NewBookingRepository(db)
	mods := NewModificationRepository(db)
	venueID := seedVenue(t, db)
	b := seedBooking(t, bookings, venueID, "2026-03-01", "tok-1")

	guests := 60
	m := &domain.BookingModification{
		BookingRequestID:   b.ID,
		ProposedBy:         42,
		Status:             domain.ModificationPending,
		ProposedGuestCount: &guests,
	}
	require.NoError(t, mods.Create(context.Background(), m))

	require.NoError(t, mods.Resolve(context.Background(), m.ID, domain.ModificationDeclined))
	assert.ErrorIs(t, mods.Resolve(context.Background(), m.ID, domain.ModificationCancelled), ErrNotFound)
}

func TestConversationSave_StaleRevisionRejected(t *testing.T) {
	db := testDB(t)
	repo := NewConversationRepository(db)
	customerID := int64(42)

	conv := &domain.AgentConversation{VenueID: 5, CustomerID: &customerID}
	require.NoError(t, repo.Create(context.Background(), conv))

	first, err := repo.GetByID(context.Background(), conv.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(context.Background(), conv.ID)
	require.NoError(t, err)

	first.Append(domain.ConversationMessage{ID: "m1", Role: domain.RoleUser, Content: "hello"})
	require.NoError(t, repo.Save(context.Background(), first))

	second.Append(domain.ConversationMessage{ID: "m2", Role: domain.RoleUser, Content: "hi again"})
	assert.ErrorIs(t, repo.Save(context.Background(), second), ErrStaleConversation)

	// The winning turn's transcript is intact.
	got, err := repo.GetByID(context.Background(), conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Content)
}
