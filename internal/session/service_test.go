package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitstudio/internal/client"
	"fitstudio/internal/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockRepository struct{ mock.Mock }
type MockClients struct{ mock.Mock }
type MockLedger struct{ mock.Mock }

func (m *MockRepository) Create(ctx context.Context, s Session) (*Session, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockRepository) GetByIDForUpdate(ctx context.Context, id int64) (*Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockRepository) ListByClient(ctx context.Context, clientID int64) ([]Session, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Session), args.Error(1)
}

func (m *MockRepository) Reschedule(ctx context.Context, s Session) (*Session, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockRepository) Complete(ctx context.Context, id int64, deducted bool, completedAt time.Time) (*Session, error) {
	args := m.Called(ctx, id, deducted, completedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockRepository) SetStatus(ctx context.Context, id int64, status Status, creditsDeducted bool) (*Session, error) {
	args := m.Called(ctx, id, status, creditsDeducted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockClients) GetByID(ctx context.Context, id int64) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockLedger) Get(ctx context.Context, id int64) (*subscription.ClientSubscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.ClientSubscription), args.Error(1)
}

func (m *MockLedger) ConsumeCredit(ctx context.Context, id int64, now time.Time) (*subscription.ClientSubscription, error) {
	args := m.Called(ctx, id, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.ClientSubscription), args.Error(1)
}

func (m *MockLedger) RefundCredit(ctx context.Context, id int64) (*subscription.ClientSubscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.ClientSubscription), args.Error(1)
}

var now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (Service, *MockRepository, *MockClients, *MockLedger) {
	repo := new(MockRepository)
	clients := new(MockClients)
	ledger := new(MockLedger)
	return NewService(repo, clients, ledger, passthroughTx{}), repo, clients, ledger
}

func scheduleRequest() ScheduleRequest {
	return ScheduleRequest{
		ClientID:             1,
		ClientSubscriptionID: 10,
		ScheduledAt:          "2026-05-03T10:00:00Z",
		DurationMinutes:      60,
		SessionType:          TypePersonalTraining,
	}
}

func usableSub() *subscription.ClientSubscription {
	return &subscription.ClientSubscription{
		ID:               10,
		ClientID:         1,
		Status:           subscription.StatusActive,
		EndDate:          time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
		CreditsTotal:     4,
		CreditsRemaining: 2,
	}
}

func TestService_Schedule(t *testing.T) {
	svc, repo, clients, ledger := newTestService()
	clients.On("GetByID", mock.Anything, int64(1)).Return(&client.Client{ID: 1, Status: client.StatusActive}, nil)
	ledger.On("Get", mock.Anything, int64(10)).Return(usableSub(), nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s Session) bool {
		return s.ClientID == 1 && s.ClientSubscriptionID == 10 && s.DurationMinutes == 60 &&
			s.ScheduledAt.Equal(time.Date(2026, 5, 3, 10, 0, 0, 0, time.UTC))
	})).Return(&Session{ID: 3, ClientID: 1, ClientSubscriptionID: 10, Status: StatusScheduled}, nil)

	sess, err := svc.Schedule(context.Background(), scheduleRequest(), now)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, sess.Status)
	ledger.AssertNotCalled(t, "ConsumeCredit", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Schedule_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ScheduleRequest)
		wantErr error
	}{
		{"bad time", func(r *ScheduleRequest) { r.ScheduledAt = "soon" }, ErrInvalidSchedule},
		{"past", func(r *ScheduleRequest) { r.ScheduledAt = "2026-04-01T10:00:00Z" }, ErrScheduleInPast},
		{"short", func(r *ScheduleRequest) { r.DurationMinutes = 14 }, ErrInvalidDuration},
		{"long", func(r *ScheduleRequest) { r.DurationMinutes = 181 }, ErrInvalidDuration},
		{"type", func(r *ScheduleRequest) { r.SessionType = "yoga" }, ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, clients, _ := newTestService()
			req := scheduleRequest()
			tt.mutate(&req)

			_, err := svc.Schedule(context.Background(), req, now)
			assert.ErrorIs(t, err, tt.wantErr)
			clients.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Schedule_Rejections(t *testing.T) {
	t.Run("inactive client", func(t *testing.T) {
		svc, _, clients, ledger := newTestService()
		clients.On("GetByID", mock.Anything, int64(1)).Return(&client.Client{ID: 1, Status: client.StatusInactive}, nil)

		_, err := svc.Schedule(context.Background(), scheduleRequest(), now)
		assert.ErrorIs(t, err, client.ErrClientInactive)
		ledger.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("foreign subscription", func(t *testing.T) {
		svc, _, clients, ledger := newTestService()
		clients.On("GetByID", mock.Anything, int64(1)).Return(&client.Client{ID: 1, Status: client.StatusActive}, nil)
		sub := usableSub()
		sub.ClientID = 2
		ledger.On("Get", mock.Anything, int64(10)).Return(sub, nil)

		_, err := svc.Schedule(context.Background(), scheduleRequest(), now)
		assert.ErrorIs(t, err, ErrSubscriptionMismatch)
	})

	t.Run("zero balance", func(t *testing.T) {
		svc, _, clients, ledger := newTestService()
		clients.On("GetByID", mock.Anything, int64(1)).Return(&client.Client{ID: 1, Status: client.StatusActive}, nil)
		sub := usableSub()
		sub.CreditsRemaining = 0
		ledger.On("Get", mock.Anything, int64(10)).Return(sub, nil)

		_, err := svc.Schedule(context.Background(), scheduleRequest(), now)
		assert.ErrorIs(t, err, subscription.ErrNoCreditsAvailable)
	})

	t.Run("expired", func(t *testing.T) {
		svc, _, clients, ledger := newTestService()
		clients.On("GetByID", mock.Anything, int64(1)).Return(&client.Client{ID: 1, Status: client.StatusActive}, nil)
		sub := usableSub()
		sub.EndDate = time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
		ledger.On("Get", mock.Anything, int64(10)).Return(sub, nil)

		_, err := svc.Schedule(context.Background(), scheduleRequest(), now)
		assert.ErrorIs(t, err, subscription.ErrSubscriptionExpired)
	})
}

func TestService_Complete(t *testing.T) {
	svc, repo, _, ledger := newTestService()
	repo.On("GetByIDForUpdate", mock.Anything, int64(3)).
		Return(&Session{ID: 3, ClientSubscriptionID: 10, Status: StatusScheduled}, nil)
	ledger.On("ConsumeCredit", mock.Anything, int64(10), now).Return(&subscription.ClientSubscription{ID: 10, CreditsRemaining: 1}, nil)
	repo.On("Complete", mock.Anything, int64(3), true, now).
		Return(&Session{ID: 3, ClientSubscriptionID: 10, Status: StatusCompleted, CreditsDeducted: true, CompletedAt: &now}, nil)

	res, err := svc.Complete(context.Background(), 3, now)
	require.NoError(t, err)
	assert.NoError(t, res.DeductionErr)
	assert.True(t, res.Session.CreditsDeducted)
	assert.Equal(t, now, *res.Session.CompletedAt)
}

func TestService_Complete_Idempotent(t *testing.T) {
	svc, repo, _, ledger := newTestService()
	repo.On("GetByIDForUpdate", mock.Anything, int64(3)).
		Return(&Session{ID: 3, Status: StatusCompleted, CreditsDeducted: true}, nil)

	res, err := svc.Complete(context.Background(), 3, now)
	require.NoError(t, err)
	assert.True(t, res.AlreadyCompleted)
	ledger.AssertNotCalled(t, "ConsumeCredit", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Complete_WithoutCredit(t *testing.T) {
	svc, repo, _, ledger := newTestService()
	repo.On("GetByIDForUpdate", mock.Anything, int64(3)).
		Return(&Session{ID: 3, ClientSubscriptionID: 10, Status: StatusScheduled}, nil)
	ledger.On("ConsumeCredit", mock.Anything, int64(10), now).Return(nil, subscription.ErrSubscriptionExpired)
	repo.On("Complete", mock.Anything, int64(3), false, now).
		Return(&Session{ID: 3, ClientSubscriptionID: 10, Status: StatusCompleted}, nil)

	res, err := svc.Complete(context.Background(), 3, now)
	require.NoError(t, err)
	assert.ErrorIs(t, res.DeductionErr, subscription.ErrSubscriptionExpired)
	assert.Equal(t, StatusCompleted, res.Session.Status)
	assert.False(t, res.Session.CreditsDeducted)
}

func TestService_Complete_InfrastructureError(t *testing.T) {
	svc, repo, _, ledger := newTestService()
	repo.On("GetByIDForUpdate", mock.Anything, int64(3)).
		Return(&Session{ID: 3, ClientSubscriptionID: 10, Status: StatusScheduled}, nil)
	ledger.On("ConsumeCredit", mock.Anything, int64(10), now).Return(nil, errors.New("timeout"))

	_, err := svc.Complete(context.Background(), 3, now)
	assert.EqualError(t, err, "timeout")
	repo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Transitions_OnlyFromScheduled(t *testing.T) {
	for _, status := range []Status{StatusCancelled, StatusNoShow} {
		svc, repo, _, _ := newTestService()
		repo.On("GetByIDForUpdate", mock.Anything, int64(3)).Return(&Session{ID: 3, Status: status}, nil)

		_, err := svc.Complete(context.Background(), 3, now)
		assert.ErrorIs(t, err, ErrInvalidTransition, "complete from %s", status)

		_, err = svc.Cancel(context.Background(), 3)
		assert.ErrorIs(t, err, ErrInvalidTransition, "cancel from %s", status)

		_, err = svc.MarkNoShow(context.Background(), 3)
		assert.ErrorIs(t, err, ErrInvalidTransition, "no-show from %s", status)
	}
}

func TestService_Cancel(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		svc, repo, _, ledger := newTestService()
		repo.On("GetByIDForUpdate", mock.Anything, int64(3)).Return(&Session{ID: 3, ClientSubscriptionID: 10, Status: StatusScheduled}, nil)
		repo.On("SetStatus", mock.Anything, int64(3), StatusCancelled, false).Return(&Session{ID: 3, Status: StatusCancelled}, nil)

		sess, err := svc.Cancel(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, sess.Status)
		ledger.AssertNotCalled(t, "RefundCredit", mock.Anything, mock.Anything)
	})

	t.Run("refunds a deducted session", func(t *testing.T) {
		svc, repo, _, ledger := newTestService()
		repo.On("GetByIDForUpdate", mock.Anything, int64(3)).
			Return(&Session{ID: 3, ClientSubscriptionID: 10, Status: StatusScheduled, CreditsDeducted: true}, nil)
		ledger.On("RefundCredit", mock.Anything, int64(10)).Return(&subscription.ClientSubscription{ID: 10}, nil)
		repo.On("SetStatus", mock.Anything, int64(3), StatusCancelled, false).Return(&Session{ID: 3, Status: StatusCancelled}, nil)

		_, err := svc.Cancel(context.Background(), 3)
		require.NoError(t, err)
		ledger.AssertExpectations(t)
	})
}

func TestService_MarkNoShow(t *testing.T) {
	svc, repo, _, ledger := newTestService()
	repo.On("GetByIDForUpdate", mock.Anything, int64(3)).Return(&Session{ID: 3, ClientID: 1, Status: StatusScheduled}, nil)
	repo.On("SetStatus", mock.Anything, int64(3), StatusNoShow, false).Return(&Session{ID: 3, ClientID: 1, Status: StatusNoShow}, nil)

	sess, err := svc.MarkNoShow(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, StatusNoShow, sess.Status)
	ledger.AssertNotCalled(t, "ConsumeCredit", mock.Anything, mock.Anything, mock.Anything)
}

func rescheduleRequest() RescheduleRequest {
	return RescheduleRequest{
		ScheduledAt:     "2026-05-04T15:30:00Z",
		DurationMinutes: 45,
		SessionType:     TypeAssessment,
		Notes:           "moved to afternoon",
	}
}

func TestService_Reschedule(t *testing.T) {
	svc, repo, _, ledger := newTestService()
	repo.On("GetByIDForUpdate", mock.Anything, int64(3)).Return(&Session{
		ID: 3, ClientID: 1, ClientSubscriptionID: 10, Status: StatusScheduled,
		DurationMinutes: 60, SessionType: TypePersonalTraining,
	}, nil)
	repo.On("Reschedule", mock.Anything, mock.MatchedBy(func(s Session) bool {
		return s.ID == 3 && s.ClientSubscriptionID == 10 && s.DurationMinutes == 45 &&
			s.SessionType == TypeAssessment && s.Notes == "moved to afternoon" &&
			s.ScheduledAt.Equal(time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC))
	})).Return(&Session{ID: 3, Status: StatusScheduled, DurationMinutes: 45}, nil)

	sess, err := svc.Reschedule(context.Background(), 3, rescheduleRequest(), now)
	require.NoError(t, err)
	assert.Equal(t, 45, sess.DurationMinutes)
	ledger.AssertNotCalled(t, "ConsumeCredit", mock.Anything, mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "RefundCredit", mock.Anything, mock.Anything)
}

func TestService_Reschedule_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *RescheduleRequest)
		wantErr error
	}{
		{"bad time", func(r *RescheduleRequest) { r.ScheduledAt = "tomorrow" }, ErrInvalidSchedule},
		{"past", func(r *RescheduleRequest) { r.ScheduledAt = "2026-04-30T10:00:00Z" }, ErrScheduleInPast},
		{"long", func(r *RescheduleRequest) { r.DurationMinutes = 181 }, ErrInvalidDuration},
		{"type", func(r *RescheduleRequest) { r.SessionType = "yoga" }, ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newTestService()
			req := rescheduleRequest()
			tt.mutate(&req)

			_, err := svc.Reschedule(context.Background(), 3, req, now)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Reschedule_OnlyScheduled(t *testing.T) {
	for _, status := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		svc, repo, _, _ := newTestService()
		repo.On("GetByIDForUpdate", mock.Anything, int64(3)).Return(&Session{ID: 3, Status: status}, nil)

		_, err := svc.Reschedule(context.Background(), 3, rescheduleRequest(), now)
		assert.ErrorIs(t, err, ErrInvalidTransition, "reschedule from %s", status)
		repo.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything)
	}
}

func TestService_Reschedule_NotFound(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.On("GetByIDForUpdate", mock.Anything, int64(9)).Return(nil, ErrSessionNotFound)

	_, err := svc.Reschedule(context.Background(), 9, rescheduleRequest(), now)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}
