package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"venuebook/internal/domain"
	"venuebook/internal/modules/availability"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRequest), args.Error(1)
}

func (m *MockBookingRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.BookingRequest, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingRequest), args.Error(1)
}

func (m *MockBookingRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.BookingRequest, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingRequest), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	args := m.Called(ctx, bookingID, status)
	return args.Error(0)
}

func (m *MockBookingRepository) CompletePastAccepted(ctx context.Context, cutoffDate string) (int64, error) {
	args := m.Called(ctx, cutoffDate)
	return args.Get(0).(int64), args.Error(1)
}

type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Venue), args.Error(1)
}

type MockGate struct {
	mock.Mock
}

func (m *MockGate) Claim(ctx context.Context, b *domain.BookingRequest) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil && b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) Notify(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockInquiryConverter struct {
	mock.Mock
}

func (m *MockInquiryConverter) GetByID(ctx context.Context, id int64) (*domain.Inquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inquiry), args.Error(1)
}

func (m *MockInquiryConverter) MarkLinked(ctx context.Context, inquiryID, bookingID int64) error {
	args := m.Called(ctx, inquiryID, bookingID)
	return args.Error(0)
}

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(topic string, senderID int64, action, message string) {
	m.Called(topic, senderID, action, message)
}

func futureDate() string {
	return time.Now().AddDate(0, 2, 0).Format("2006-01-02")
}

func testVenue() *domain.Venue {
	return &domain.Venue{
		ID:           5,
		OwnerID:      1,
		Name:         "Grand Hall",
		Published:    true,
		MinGuests:    10,
		MaxCapacity:  200,
		PriceFullDay: 18000,
	}
}

func validCreateRequest() CreateBookingRequest {
	return CreateBookingRequest{
		VenueID:       5,
		EventDate:     futureDate(),
		StartTime:     "14:00",
		EndTime:       "22:00",
		EventType:     "wedding",
		GuestCount:    80,
		CustomerName:  "Dana",
		CustomerEmail: "dana@example.com",
	}
}

func newTestService(
	bookings *MockBookingRepository,
	venues *MockVenueRepository,
	gate *MockGate,
	notifs *MockNotificationSender,
	inquiries *MockInquiryConverter,
	broadcast *MockBroadcaster,
) *Service {
	return NewService(bookings, venues, gate, notifs, inquiries, broadcast, zerolog.Nop())
}

func TestCreateBooking_Success(t *testing.T) {
	bookings := new(MockBookingRepository)
	venues := new(MockVenueRepository)
	gate := new(MockGate)
	notifs := new(MockNotificationSender)
	inquiries := new(MockInquiryConverter)
	broadcast := new(MockBroadcaster)

	venues.On("GetByID", mock.Anything, int64(5)).Return(testVenue(), nil)
	gate.On("Claim", mock.Anything, mock.Anything).Return(nil)
	notifs.On("Notify", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(bookings, venues, gate, notifs, inquiries, broadcast)
	customerID := int64(42)

	b, err := svc.CreateBooking(context.Background(), &customerID, validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(999), b.ID)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.NotEmpty(t, b.VerificationToken)

	// 12% fee on 18000
	assert.Equal(t, int64(18000), b.BasePrice)
	assert.Equal(t, int64(2160), b.PlatformFee)
	assert.Equal(t, int64(20160), b.TotalPrice)
	assert.Equal(t, int64(18000), b.VenuePayout)

	notifs.AssertCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestCreateBooking_AnonymousRejected(t *testing.T) {
	svc := newTestService(new(MockBookingRepository), new(MockVenueRepository), new(MockGate),
		new(MockNotificationSender), new(MockInquiryConverter), new(MockBroadcaster))

	_, err := svc.CreateBooking(context.Background(), nil, validCreateRequest())
	_, ok := AsValidation(err)
	assert.True(t, ok)
}

func TestCreateBooking_ValidationLadder(t *testing.T) {
	venues := new(MockVenueRepository)
	venues.On("GetByID", mock.Anything, int64(5)).Return(testVenue(), nil)
	svc := newTestService(new(MockBookingRepository), venues, new(MockGate),
		new(MockNotificationSender), new(MockInquiryConverter), new(MockBroadcaster))
	customerID := int64(42)

	cases := []struct {
		name   string
		mutate func(*CreateBookingRequest)
	}{
		{"missing name", func(r *CreateBookingRequest) { r.CustomerName = "" }},
		{"bad start time", func(r *CreateBookingRequest) { r.StartTime = "2pm" }},
		{"end before start", func(r *CreateBookingRequest) { r.StartTime = "22:00"; r.EndTime = "14:00" }},
		{"unknown event type", func(r *CreateBookingRequest) { r.EventType = "seance" }},
		{"too many guests", func(r *CreateBookingRequest) { r.GuestCount = 500 }},
		{"too few guests", func(r *CreateBookingRequest) { r.GuestCount = 2 }},
		{"past date", func(r *CreateBookingRequest) { r.EventDate = "2020-01-01" }},
		{"bad date format", func(r *CreateBookingRequest) { r.EventDate = "01/01/2030" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)
			_, err := svc.CreateBooking(context.Background(), &customerID, req)
			_, ok := AsValidation(err)
			assert.True(t, ok, "expected validation error, got %v", err)
		})
	}
}

func TestCreateBooking_DateConflictSurfaced(t *testing.T) {
	venues := new(MockVenueRepository)
	gate := new(MockGate)
	venues.On("GetByID", mock.Anything, int64(5)).Return(testVenue(), nil)
	gate.On("Claim", mock.Anything, mock.Anything).Return(availability.ErrDateBooked)

	svc := newTestService(new(MockBookingRepository), venues, gate,
		new(MockNotificationSender), new(MockInquiryConverter), new(MockBroadcaster))
	customerID := int64(42)

	_, err := svc.CreateBooking(context.Background(), &customerID, validCreateRequest())
	assert.ErrorIs(t, err, availability.ErrDateBooked)
}

func TestCreateBooking_NotificationFailureDoesNotFailBooking(t *testing.T) {
	venues := new(MockVenueRepository)
	gate := new(MockGate)
	notifs := new(MockNotificationSender)
	venues.On("GetByID", mock.Anything, int64(5)).Return(testVenue(), nil)
	gate.On("Claim", mock.Anything, mock.Anything).Return(nil)
	notifs.On("Notify", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newTestService(new(MockBookingRepository), venues, gate, notifs,
		new(MockInquiryConverter), new(MockBroadcaster))
	customerID := int64(42)

	b, err := svc.CreateBooking(context.Background(), &customerID, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
}

func TestCreateBooking_InquiryConversionFailureTolerated(t *testing.T) {
	venues := new(MockVenueRepository)
	gate := new(MockGate)
	notifs := new(MockNotificationSender)
	inquiries := new(MockInquiryConverter)
	venues.On("GetByID", mock.Anything, int64(5)).Return(testVenue(), nil)
	gate.On("Claim", mock.Anything, mock.Anything).Return(nil)
	notifs.On("Notify", mock.Anything, mock.Anything).Return(nil)
	inquiries.On("GetByID", mock.Anything, int64(7)).Return(&domain.Inquiry{ID: 7, VenueID: 5}, nil)
	inquiries.On("MarkLinked", mock.Anything, int64(7), int64(999)).Return(errors.New("already linked"))

	svc := newTestService(new(MockBookingRepository), venues, gate, notifs, inquiries, new(MockBroadcaster))
	customerID := int64(42)
	inquiryID := int64(7)
	req := validCreateRequest()
	req.InquiryID = &inquiryID

	b, err := svc.CreateBooking(context.Background(), &customerID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(999), b.ID)
	inquiries.AssertCalled(t, "MarkLinked", mock.Anything, int64(7), int64(999))
}

func TestCreateBooking_InquiryForOtherVenueNotLinked(t *testing.T) {
	venues := new(MockVenueRepository)
	gate := new(MockGate)
	notifs := new(MockNotificationSender)
	inquiries := new(MockInquiryConverter)
	venues.On("GetByID", mock.Anything, int64(5)).Return(testVenue(), nil)
	gate.On("Claim", mock.Anything, mock.Anything).Return(nil)
	notifs.On("Notify", mock.Anything, mock.Anything).Return(nil)
	inquiries.On("GetByID", mock.Anything, int64(7)).Return(&domain.Inquiry{ID: 7, VenueID: 6}, nil)

	svc := newTestService(new(MockBookingRepository), venues, gate, notifs, inquiries, new(MockBroadcaster))
	customerID := int64(42)
	inquiryID := int64(7)
	req := validCreateRequest()
	req.InquiryID = &inquiryID

	_, err := svc.CreateBooking(context.Background(), &customerID, req)
	require.NoError(t, err)
	inquiries.AssertNotCalled(t, "MarkLinked", mock.Anything, mock.Anything, mock.Anything)
}

func pendingBooking() *domain.BookingRequest {
	customerID := int64(42)
	return &domain.BookingRequest{
		ID:         999,
		VenueID:    5,
		CustomerID: &customerID,
		EventDate:  futureDate(),
		Status:     domain.BookingPending,
	}
}

func TestAccept_OwnerOnly(t *testing.T) {
	bookings := new(MockBookingRepository)
	venues := new(MockVenueRepository)
	bookings.On("GetByID", mock.Anything, int64(999)).Return(pendingBooking(), nil)
	venues.On("GetByID", mock.Anything, int64(5)).Return(testVenue(), nil)

	svc := newTestService(bookings, venues, new(MockGate),
		new(MockNotificationSender), new(MockInquiryConverter), new(MockBroadcaster))

	_, err := svc.Accept(context.Background(), 999, 42) // customer, not owner
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAccept_Success_NotifiesAndBroadcasts(t *testing.T) {
	bookings := new(MockBookingRepository)
	venues := new(MockVenueRepository)
	notifs := new(MockNotificationSender)
	broadcast := new(MockBroadcaster)

	bookings.On("GetByID", mock.Anything, int64(999)).Return(pendingBooking(), nil)
	venues.On("GetByID", mock.Anything, int64(5)).Return(testVenue(), nil)
	bookings.On("UpdateStatus", mock.Anything, int64(999), domain.BookingAccepted).Return(nil)
	notifs.On("Notify", mock.Anything, mock.Anything).Return(nil)
	broadcast.On("Broadcast", "booking:999", int64(1), "approved", mock.Anything).Return()

	svc := newTestService(bookings, venues, new(MockGate), notifs, new(MockInquiryConverter), broadcast)

	b, err := svc.Accept(context.Background(), 999, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingAccepted, b.Status)
	broadcast.AssertCalled(t, "Broadcast", "booking:999", int64(1), "approved", mock.Anything)
}

func TestDecline_NonPendingRejected(t *testing.T) {
	bookings := new(MockBookingRepository)
	venues := new(MockVenueRepository)
	b := pendingBooking()
	b.Status = domain.BookingCancelled
	bookings.On("GetByID", mock.Anything, int64(999)).Return(b, nil)
	venues.On("GetByID", mock.Anything, int64(5)).Return(testVenue(), nil)

	svc := newTestService(bookings, venues, new(MockGate),
		new(MockNotificationSender), new(MockInquiryConverter), new(MockBroadcaster))

	_, err := svc.Decline(context.Background(), 999, 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancel_EitherPartyWhileActive(t *testing.T) {
	bookings := new(MockBookingRepository)
	venues := new(MockVenueRepository)
	notifs := new(MockNotificationSender)
	broadcast := new(MockBroadcaster)

	accepted := pendingBooking()
	accepted.Status = domain.BookingAccepted
	bookings.On("GetByID", mock.Anything, int64(999)).Return(accepted, nil)
	venues.On("GetByID", mock.Anything, int64(5)).Return(testVenue(), nil)
	bookings.On("UpdateStatus", mock.Anything, int64(999), domain.BookingCancelled).Return(nil)
	notifs.On("Notify", mock.Anything, mock.Anything).Return(nil)
	broadcast.On("Broadcast", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	svc := newTestService(bookings, venues, new(MockGate), notifs, new(MockInquiryConverter), broadcast)

	b, err := svc.Cancel(context.Background(), 999, 42) // customer cancels
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
}

func TestCancel_StrangerForbidden(t *testing.T) {
	bookings := new(MockBookingRepository)
	venues := new(MockVenueRepository)
	bookings.On("GetByID", mock.Anything, int64(999)).Return(pendingBooking(), nil)
	venues.On("GetByID", mock.Anything, int64(5)).Return(testVenue(), nil)

	svc := newTestService(bookings, venues, new(MockGate),
		new(MockNotificationSender), new(MockInquiryConverter), new(MockBroadcaster))

	_, err := svc.Cancel(context.Background(), 999, 777)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetForViewer_TokenMatch(t *testing.T) {
	bookings := new(MockBookingRepository)
	b := pendingBooking()
	b.VerificationToken = "tok-abc"
	bookings.On("GetByID", mock.Anything, int64(999)).Return(b, nil)

	svc := newTestService(bookings, new(MockVenueRepository), new(MockGate),
		new(MockNotificationSender), new(MockInquiryConverter), new(MockBroadcaster))

	got, err := svc.GetForViewer(context.Background(), 999, nil, "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, int64(999), got.ID)

	_, err = svc.GetForViewer(context.Background(), 999, nil, "wrong")
	assert.ErrorIs(t, err, ErrForbidden)
}
