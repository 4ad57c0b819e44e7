package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"petsitter/internal/domain/chat"
	"petsitter/internal/domain/notification"
	"petsitter/internal/domain/profile"
	"petsitter/internal/domain/review"
	"petsitter/internal/pkg/apperr"
	"petsitter/internal/sideeffect"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Create(ctx context.Context, b *Booking) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockLedger) GetByID(ctx context.Context, id int64) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockLedger) ListByOwner(ctx context.Context, ownerID int64, filter StatusFilter) ([]Booking, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockLedger) ListBySitter(ctx context.Context, sitterID int64, filter StatusFilter) ([]Booking, error) {
	args := m.Called(ctx, sitterID, filter)
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockLedger) MarkAccepted(ctx context.Context, id int64) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockLedger) DeletePending(ctx context.Context, id int64, outcome Outcome, closedByUserID int64) (*Booking, error) {
	args := m.Called(ctx, id, outcome, closedByUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockLedger) Complete(ctx context.Context, in CompleteInput) (*Booking, *review.Review, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*Booking), args.Get(1).(*review.Review), args.Error(2)
}

func (m *MockLedger) ListArchive(ctx context.Context, ownerID, sitterID int64, limit int) ([]ArchivedBooking, error) {
	args := m.Called(ctx, ownerID, sitterID, limit)
	return args.Get(0).([]ArchivedBooking), args.Error(1)
}

func (m *MockLedger) PendingSitterIDs(ctx context.Context, ownerID int64) ([]int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockLedger) CountForSitter(ctx context.Context, sitterID int64) (int64, int64, error) {
	args := m.Called(ctx, sitterID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// fakeProfiles holds owners and sitters keyed by user id.
type fakeProfiles struct {
	owners   map[int64]*profile.Owner
	sitters  map[int64]*profile.Sitter
	services map[int64][]profile.SitterService
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		owners:   map[int64]*profile.Owner{},
		sitters:  map[int64]*profile.Sitter{},
		services: map[int64][]profile.SitterService{},
	}
}

func (f *fakeProfiles) GetOwnerByUserID(_ context.Context, userID int64) (*profile.Owner, error) {
	if o, ok := f.owners[userID]; ok {
		return o, nil
	}
	return nil, profile.ErrOwnerNotFound
}

func (f *fakeProfiles) GetOwnerByID(_ context.Context, id int64) (*profile.Owner, error) {
	for _, o := range f.owners {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, profile.ErrOwnerNotFound
}

func (f *fakeProfiles) GetSitterByUserID(_ context.Context, userID int64) (*profile.Sitter, error) {
	if s, ok := f.sitters[userID]; ok {
		return s, nil
	}
	return nil, profile.ErrSitterProfileMissing
}

func (f *fakeProfiles) GetSitterByID(_ context.Context, id int64) (*profile.Sitter, error) {
	for _, s := range f.sitters {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, profile.ErrSitterNotFound
}

func (f *fakeProfiles) ListActiveServices(_ context.Context, sitterID int64) ([]profile.SitterService, error) {
	return f.services[sitterID], nil
}

type recordingDispatcher struct {
	jobs []sideeffect.Job
}

func (d *recordingDispatcher) Dispatch(_ context.Context, jobs ...sideeffect.Job) {
	d.jobs = append(d.jobs, jobs...)
}

func (d *recordingDispatcher) kinds() []sideeffect.Kind {
	out := make([]sideeffect.Kind, 0, len(d.jobs))
	for _, j := range d.jobs {
		out = append(out, j.Kind)
	}
	return out
}

type nopChats struct{}

func (nopChats) GetOrCreateChannel(_ context.Context, bookingID int64, members []int64) (*chat.Channel, error) {
	return &chat.Channel{ID: chat.ChannelID(bookingID), BookingID: bookingID, Members: members}, nil
}

const (
	ownerUserID  = int64(10)
	sitterUserID = int64(20)
	ownerID      = int64(1)
	sitterID     = int64(2)
	serviceID    = int64(3)
)

func setupMockService() (*Service, *MockLedger, *fakeProfiles, *recordingDispatcher) {
	profiles := newFakeProfiles()
	profiles.owners[ownerUserID] = &profile.Owner{ID: ownerID, UserID: ownerUserID, DisplayName: "Arif"}
	profiles.sitters[sitterUserID] = &profile.Sitter{ID: sitterID, UserID: sitterUserID, DisplayName: "Rina"}
	profiles.services[sitterID] = []profile.SitterService{{ID: serviceID, SitterID: sitterID, PricePerDay: 500, IsActive: true}}

	ledger := new(MockLedger)
	d := &recordingDispatcher{}
	return NewService(ledger, profiles, nopChats{}, d, zap.NewNop()), ledger, profiles, d
}

func pendingBooking() *Booking {
	return &Booking{ID: 7, OwnerID: ownerID, SitterID: sitterID, ServiceID: serviceID, TotalPrice: 500, BookingCode: "BK1"}
}

func TestCreate_Success(t *testing.T) {
	svc, ledger, _, d := setupMockService()
	ledger.On("Create", mock.Anything, mock.AnythingOfType("*booking.Booking")).Return(nil).Once()

	b, err := svc.Create(context.Background(), ownerUserID, CreateInput{SitterID: sitterID, ServiceID: serviceID, TotalPrice: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(999), b.ID)
	assert.Equal(t, ownerID, b.OwnerID)
	assert.False(t, b.IsAccepted)
	assert.NotEmpty(t, b.BookingCode)

	assert.Equal(t, []sideeffect.Kind{sideeffect.KindPublishEvent, sideeffect.KindInvalidateDiscovery}, d.kinds())
	ledger.AssertExpectations(t)
}

func TestCreate_RetriesCodeCollision(t *testing.T) {
	svc, ledger, _, _ := setupMockService()
	codes := []string{"BK-A", "BK-B"}
	svc.newCode = func() string {
		c := codes[0]
		codes = codes[1:]
		return c
	}

	var seen []string
	ledger.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { seen = append(seen, args.Get(1).(*Booking).BookingCode) }).
		Return(ErrDuplicateCode).Once()
	ledger.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { seen = append(seen, args.Get(1).(*Booking).BookingCode) }).
		Return(nil).Once()

	b, err := svc.Create(context.Background(), ownerUserID, CreateInput{SitterID: sitterID, ServiceID: serviceID, TotalPrice: 500})
	require.NoError(t, err)
	assert.Equal(t, "BK-B", b.BookingCode)
	assert.Equal(t, []string{"BK-A", "BK-B"}, seen)
}

func TestCreate_GivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, ledger, _, _ := setupMockService()
	ledger.On("Create", mock.Anything, mock.Anything).Return(ErrDuplicateCode).Times(maxCodeAttempts)

	_, err := svc.Create(context.Background(), ownerUserID, CreateInput{SitterID: sitterID, ServiceID: serviceID, TotalPrice: 500})
	assert.ErrorIs(t, err, ErrDuplicateCode)
	ledger.AssertExpectations(t)
}

func TestCreate_Rejections(t *testing.T) {
	svc, ledger, profiles, _ := setupMockService()
	profiles.sitters[30] = &profile.Sitter{ID: 4, UserID: 30}
	profiles.owners[sitterUserID] = &profile.Owner{ID: 5, UserID: sitterUserID}
	ctx := context.Background()

	tests := []struct {
		name   string
		userID int64
		in     CreateInput
		target error
	}{
		{"anonymous", 0, CreateInput{SitterID: sitterID, ServiceID: serviceID, TotalPrice: 1}, apperr.ErrAuthenticationRequired},
		{"no owner profile", 99, CreateInput{SitterID: sitterID, ServiceID: serviceID, TotalPrice: 1}, apperr.ErrProfileNotFound},
		{"missing price", ownerUserID, CreateInput{SitterID: sitterID, ServiceID: serviceID}, apperr.ErrValidation},
		{"unknown sitter", ownerUserID, CreateInput{SitterID: 77, ServiceID: serviceID, TotalPrice: 1}, apperr.ErrNotFound},
		{"self booking", sitterUserID, CreateInput{SitterID: sitterID, ServiceID: serviceID, TotalPrice: 1}, ErrSelfBooking},
		{"no active service", ownerUserID, CreateInput{SitterID: 4, ServiceID: serviceID, TotalPrice: 1}, ErrNoActiveService},
		{"foreign service", ownerUserID, CreateInput{SitterID: sitterID, ServiceID: 42, TotalPrice: 1}, ErrServiceNotOffered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.userID, tt.in)
			assert.ErrorIs(t, err, tt.target)
		})
	}
	ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccept_DispatchesSideEffectsAfterCommit(t *testing.T) {
	svc, ledger, _, d := setupMockService()
	accepted := pendingBooking()
	accepted.IsAccepted = true
	ledger.On("GetByID", mock.Anything, int64(7)).Return(pendingBooking(), nil)
	ledger.On("MarkAccepted", mock.Anything, int64(7)).Return(accepted, nil)

	b, err := svc.Accept(context.Background(), sitterUserID, 7)
	require.NoError(t, err)
	assert.True(t, b.IsAccepted)

	require.Equal(t, []sideeffect.Kind{
		sideeffect.KindCreateChannel,
		sideeffect.KindNotify,
		sideeffect.KindPublishEvent,
		sideeffect.KindInvalidateDiscovery,
	}, d.kinds())
	assert.ElementsMatch(t, []int64{ownerUserID, sitterUserID}, d.jobs[0].Members)
	assert.Equal(t, ownerUserID, d.jobs[1].UserID)
	assert.Equal(t, notification.TypeBookingAccepted, d.jobs[1].NotificationType)
}

func TestAccept_Rejections(t *testing.T) {
	svc, ledger, profiles, d := setupMockService()
	profiles.sitters[30] = &profile.Sitter{ID: 4, UserID: 30}
	accepted := pendingBooking()
	accepted.IsAccepted = true
	ledger.On("GetByID", mock.Anything, int64(7)).Return(pendingBooking(), nil)
	ledger.On("GetByID", mock.Anything, int64(8)).Return(accepted, nil)
	ledger.On("GetByID", mock.Anything, int64(9)).Return(nil, ErrBookingNotFound)
	ctx := context.Background()

	_, err := svc.Accept(ctx, ownerUserID, 7)
	assert.ErrorIs(t, err, apperr.ErrProfileNotFound)

	_, err = svc.Accept(ctx, 30, 7)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Accept(ctx, sitterUserID, 8)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Accept(ctx, sitterUserID, 9)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	ledger.AssertNotCalled(t, "MarkAccepted", mock.Anything, mock.Anything)
	assert.Empty(t, d.jobs)
}

func TestRemove_SitterDeclineNotifiesOwner(t *testing.T) {
	svc, ledger, _, d := setupMockService()
	ledger.On("GetByID", mock.Anything, int64(7)).Return(pendingBooking(), nil)
	ledger.On("DeletePending", mock.Anything, int64(7), OutcomeDeclined, sitterUserID).Return(pendingBooking(), nil)

	r, err := svc.Remove(context.Background(), sitterUserID, 7)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeclined, r.Outcome)

	var notified []sideeffect.Job
	for _, j := range d.jobs {
		if j.Kind == sideeffect.KindNotify {
			notified = append(notified, j)
		}
	}
	require.Len(t, notified, 1)
	assert.Equal(t, ownerUserID, notified[0].UserID)
	assert.Equal(t, notification.TypeBookingDeclined, notified[0].NotificationType)
}

func TestRemove_OwnerCancelSendsNoNotification(t *testing.T) {
	svc, ledger, _, d := setupMockService()
	ledger.On("GetByID", mock.Anything, int64(7)).Return(pendingBooking(), nil)
	ledger.On("DeletePending", mock.Anything, int64(7), OutcomeCancelled, ownerUserID).Return(pendingBooking(), nil)

	r, err := svc.Remove(context.Background(), ownerUserID, 7)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, r.Outcome)
	assert.NotContains(t, d.kinds(), sideeffect.KindNotify)
}

func TestRemove_Rejections(t *testing.T) {
	svc, ledger, profiles, _ := setupMockService()
	profiles.owners[40] = &profile.Owner{ID: 6, UserID: 40}
	accepted := pendingBooking()
	accepted.IsAccepted = true
	ledger.On("GetByID", mock.Anything, int64(7)).Return(pendingBooking(), nil)
	ledger.On("GetByID", mock.Anything, int64(8)).Return(accepted, nil)
	ctx := context.Background()

	_, err := svc.Remove(ctx, 99, 7)
	assert.ErrorIs(t, err, apperr.ErrProfileNotFound)

	_, err = svc.Remove(ctx, 40, 7)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Remove(ctx, ownerUserID, 8)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	ledger.AssertNotCalled(t, "DeletePending", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReview_Order(t *testing.T) {
	svc, ledger, _, d := setupMockService()
	b := pendingBooking()
	b.IsAccepted = true
	rev := &review.Review{ID: 1, BookingID: b.ID, Rating: 4}
	ledger.On("Complete", mock.Anything, CompleteInput{
		BookingID:      7,
		OwnerID:        ownerID,
		Rating:         4,
		Comment:        "great",
		ClosedByUserID: ownerUserID,
	}).Return(b, rev, nil)

	got, err := svc.SubmitReview(context.Background(), ownerUserID, 7, 4, " great ")
	require.NoError(t, err)
	assert.Equal(t, rev, got)

	assert.Equal(t, []sideeffect.Kind{
		sideeffect.KindDeleteChannel,
		sideeffect.KindNotify,
		sideeffect.KindPublishEvent,
	}, d.kinds())
	assert.Equal(t, sitterUserID, d.jobs[1].UserID)
	assert.Equal(t, notification.TypeReviewReceived, d.jobs[1].NotificationType)
	require.NotNil(t, d.jobs[2].Event)
	assert.Equal(t, 4, d.jobs[2].Event.Rating)
}

func TestSubmitReview_RejectsBadRatingBeforeLedger(t *testing.T) {
	svc, ledger, _, _ := setupMockService()
	for _, r := range []int{0, 6, -1} {
		_, err := svc.SubmitReview(context.Background(), ownerUserID, 7, r, "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
	ledger.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestInitializeChat_RequiresAcceptedBooking(t *testing.T) {
	svc, ledger, _, _ := setupMockService()
	accepted := pendingBooking()
	accepted.ID = 8
	accepted.IsAccepted = true
	ledger.On("GetByID", mock.Anything, int64(7)).Return(pendingBooking(), nil)
	ledger.On("GetByID", mock.Anything, int64(8)).Return(accepted, nil)
	ctx := context.Background()

	_, err := svc.InitializeChat(ctx, ownerUserID, 7)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	ch, err := svc.InitializeChat(ctx, sitterUserID, 8)
	require.NoError(t, err)
	assert.Equal(t, "booking_8", ch.ID)
	assert.ElementsMatch(t, []int64{ownerUserID, sitterUserID}, ch.Members)
}

func TestParseStatusFilter(t *testing.T) {
	f, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseStatusFilter("Pending")
	require.NoError(t, err)
	assert.Equal(t, FilterPending, f)

	_, err = ParseStatusFilter("done")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
