package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"venuebook/internal/domain"
	"venuebook/internal/repository"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) ClaimDate(ctx context.Context, b *domain.BookingRequest) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) ActiveDates(ctx context.Context, venueID int64, from, to string) ([]string, error) {
	args := m.Called(ctx, venueID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) BlockedDates(ctx context.Context, venueID int64, from, to string) ([]string, error) {
	args := m.Called(ctx, venueID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVenueRepository) IsDateBlocked(ctx context.Context, venueID int64, date string) (bool, error) {
	args := m.Called(ctx, venueID, date)
	return args.Bool(0), args.Error(1)
}

func TestClaim_MapsStoreConflicts(t *testing.T) {
	cases := []struct {
		name     string
		storeErr error
		want     error
	}{
		{"blocked date", repository.ErrBlockedDate, ErrDateBlocked},
		{"unique index loss", errors.New("UNIQUE constraint failed: booking_requests.venue_id"), ErrDateBooked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bookings := new(MockBookingRepository)
			bookings.On("ClaimDate", mock.Anything, mock.Anything).Return(tc.storeErr)
			gate := NewGate(bookings, new(MockVenueRepository))

			err := gate.Claim(context.Background(), &domain.BookingRequest{VenueID: 5, EventDate: "2026-10-01"})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClaim_UnknownErrorPassesThrough(t *testing.T) {
	bookings := new(MockBookingRepository)
	dbDown := errors.New("connection reset")
	bookings.On("ClaimDate", mock.Anything, mock.Anything).Return(dbDown)
	gate := NewGate(bookings, new(MockVenueRepository))

	err := gate.Claim(context.Background(), &domain.BookingRequest{})
	assert.ErrorIs(t, err, dbDown)
}

func TestIsDateOpen(t *testing.T) {
	bookings := new(MockBookingRepository)
	venues := new(MockVenueRepository)
	gate := NewGate(bookings, venues)

	venues.On("IsDateBlocked", mock.Anything, int64(5), "2026-10-01").Return(true, nil)
	venues.On("IsDateBlocked", mock.Anything, int64(5), "2026-10-02").Return(false, nil)
	bookings.On("ActiveDates", mock.Anything, int64(5), "2026-10-02", "2026-10-02").Return([]string{"2026-10-02"}, nil)
	venues.On("IsDateBlocked", mock.Anything, int64(5), "2026-10-03").Return(false, nil)
	bookings.On("ActiveDates", mock.Anything, int64(5), "2026-10-03", "2026-10-03").Return([]string{}, nil)

	open, reason, err := gate.IsDateOpen(context.Background(), 5, "2026-10-01")
	require.NoError(t, err)
	assert.False(t, open)
	assert.Equal(t, "blocked", reason)

	open, reason, err = gate.IsDateOpen(context.Background(), 5, "2026-10-02")
	require.NoError(t, err)
	assert.False(t, open)
	assert.Equal(t, "booked", reason)

	open, reason, err = gate.IsDateOpen(context.Background(), 5, "2026-10-03")
	require.NoError(t, err)
	assert.True(t, open)
	assert.Empty(t, reason)
}

func TestBatchAvailability_ExcludesBlockedAndBooked(t *testing.T) {
	bookings := new(MockBookingRepository)
	venues := new(MockVenueRepository)
	gate := NewGate(bookings, venues)

	venues.On("BlockedDates", mock.Anything, int64(5), "2026-10-01", "2026-10-05").
		Return([]string{"2026-10-02"}, nil)
	bookings.On("ActiveDates", mock.Anything, int64(5), "2026-10-01", "2026-10-05").
		Return([]string{"2026-10-04"}, nil)

	open, err := gate.BatchAvailability(context.Background(), []int64{5}, "2026-10-01", "2026-10-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-01", "2026-10-03", "2026-10-05"}, open[5])
}
