package workout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, w Workout) (*Workout, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Workout), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Workout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Workout), args.Error(1)
}

func (m *MockRepository) GetByIDForUpdate(ctx context.Context, id int64) (*Workout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Workout), args.Error(1)
}

func (m *MockRepository) GetWithAvailability(ctx context.Context, id int64) (*WorkoutWithAvailability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WorkoutWithAvailability), args.Error(1)
}

func (m *MockRepository) ListWithAvailability(ctx context.Context, onlyUpcoming bool, now time.Time) ([]WorkoutWithAvailability, error) {
	args := m.Called(ctx, onlyUpcoming, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WorkoutWithAvailability), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, w Workout) (*Workout, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Workout), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id int64, status Status) (*Workout, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Workout), args.Error(1)
}

var now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func validRequest() WorkoutRequest {
	return WorkoutRequest{
		Name:            "  Morning HIIT ",
		Instructor:      "Sam",
		ScheduledAt:     "2026-05-02T07:00:00Z",
		Capacity:        12,
		DurationMinutes: 45,
	}
}

func TestService_Create(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	want := Workout{
		Name:            "Morning HIIT",
		Instructor:      "Sam",
		ScheduledAt:     time.Date(2026, 5, 2, 7, 0, 0, 0, time.UTC),
		Capacity:        12,
		DurationMinutes: 45,
		Status:          StatusActive,
	}
	repo.On("Create", mock.Anything, want).Return(&Workout{ID: 1, Name: want.Name, Status: StatusActive}, nil)

	w, err := svc.Create(context.Background(), validRequest(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), w.ID)
	repo.AssertExpectations(t)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *WorkoutRequest)
		wantErr error
	}{
		{"blank name", func(r *WorkoutRequest) { r.Name = "  " }, ErrNameRequired},
		{"bad timestamp", func(r *WorkoutRequest) { r.ScheduledAt = "tomorrow" }, ErrInvalidSchedule},
		{"in the past", func(r *WorkoutRequest) { r.ScheduledAt = "2026-04-30T07:00:00Z" }, ErrScheduleInPast},
		{"exactly now", func(r *WorkoutRequest) { r.ScheduledAt = "2026-05-01T09:00:00Z" }, ErrScheduleInPast},
		{"zero capacity", func(r *WorkoutRequest) { r.Capacity = 0 }, ErrInvalidCapacity},
		{"capacity over 50", func(r *WorkoutRequest) { r.Capacity = 51 }, ErrInvalidCapacity},
		{"too short", func(r *WorkoutRequest) { r.DurationMinutes = 10 }, ErrInvalidDuration},
		{"too long", func(r *WorkoutRequest) { r.DurationMinutes = 181 }, ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			req := validRequest()
			tt.mutate(&req)

			_, err := NewService(repo).Create(context.Background(), req, now)

			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Create_Bounds(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(&Workout{ID: 2}, nil)

	req := validRequest()
	req.Capacity = 50
	req.DurationMinutes = 15
	_, err := NewService(repo).Create(context.Background(), req, now)
	require.NoError(t, err)

	req.Capacity = 1
	req.DurationMinutes = 180
	_, err = NewService(repo).Create(context.Background(), req, now)
	require.NoError(t, err)
}

func TestService_Update_KeepsID(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(w Workout) bool {
		return w.ID == 7 && w.Capacity == 2
	})).Return(&Workout{ID: 7, Capacity: 2}, nil)

	req := validRequest()
	req.Capacity = 2
	w, err := NewService(repo).Update(context.Background(), 7, req, now)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Capacity)
}

func TestService_SetStatus(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	_, err := svc.SetStatus(context.Background(), 1, Status("paused"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	repo.On("UpdateStatus", mock.Anything, int64(1), StatusCancelled).Return(&Workout{ID: 1, Status: StatusCancelled}, nil)
	w, err := svc.SetStatus(context.Background(), 1, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, w.Status)
}

func TestService_Get_PropagatesError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetWithAvailability", mock.Anything, int64(5)).Return(nil, errors.New("db down"))

	_, err := NewService(repo).Get(context.Background(), 5)
	assert.EqualError(t, err, "db down")
}
