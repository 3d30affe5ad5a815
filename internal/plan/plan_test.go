package plan

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var planCols = []string{"id", "name", "description", "credits_included", "price_cents", "validity_days", "status", "created_at", "updated_at"}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, req PlanRequest) (*Plan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, onlyActive bool) ([]Plan, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Plan), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     PlanRequest
		wantErr error
	}{
		{name: "blank name", req: PlanRequest{Name: " ", CreditsIncluded: 4, ValidityDays: 30}, wantErr: ErrInvalidName},
		{name: "zero credits", req: PlanRequest{Name: "Starter", ValidityDays: 30}, wantErr: ErrInvalidCredits},
		{name: "negative price", req: PlanRequest{Name: "Starter", CreditsIncluded: 4, PriceCents: -1, ValidityDays: 30}, wantErr: ErrInvalidPrice},
		{name: "zero validity", req: PlanRequest{Name: "Starter", CreditsIncluded: 4}, wantErr: ErrInvalidDays},
		{name: "unknown status", req: PlanRequest{Name: "Starter", CreditsIncluded: 4, ValidityDays: 30, Status: "archived"}, wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			_, err := NewService(repo).Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Create_DefaultsToActive(t *testing.T) {
	repo := new(MockRepository)
	expected := PlanRequest{Name: "Four Pack", CreditsIncluded: 4, PriceCents: 12000, ValidityDays: 30, Status: StatusActive}
	repo.On("Create", mock.Anything, expected).Return(&Plan{ID: 1, Name: "Four Pack", CreditsIncluded: 4, Status: StatusActive}, nil)

	p, err := NewService(repo).Create(context.Background(), PlanRequest{Name: "Four Pack", CreditsIncluded: 4, PriceCents: 12000, ValidityDays: 30})

	require.NoError(t, err)
	assert.True(t, p.IsActive())
	repo.AssertExpectations(t)
}

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	conn, m, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(conn, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return NewRepository(sqlxDB), m
}

func TestRepository_GetByID(t *testing.T) {
	repo, m := setupMock(t)
	now := time.Now()

	m.ExpectQuery(regexp.QuoteMeta("FROM subscription_types WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(planCols).AddRow(1, "Four Pack", "", 4, 12000, 30, "active", now, now))

	p, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, p.CreditsIncluded)
	assert.Equal(t, int64(12000), p.PriceCents)

	m.ExpectQuery(regexp.QuoteMeta("FROM subscription_types WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestRepository_Update(t *testing.T) {
	repo, m := setupMock(t)
	now := time.Now()
	req := PlanRequest{Name: "Four Pack", CreditsIncluded: 5, PriceCents: 13000, ValidityDays: 30, Status: StatusInactive}

	m.ExpectQuery(regexp.QuoteMeta("UPDATE subscription_types")).
		WithArgs("Four Pack", "", 5, int64(13000), 30, "inactive", int64(1)).
		WillReturnRows(sqlmock.NewRows(planCols).AddRow(1, "Four Pack", "", 5, 13000, 30, "inactive", now, now))

	p, err := repo.Update(context.Background(), 1, req)
	require.NoError(t, err)
	assert.False(t, p.IsActive())
	assert.NoError(t, m.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	repo, m := setupMock(t)
	now := time.Now()

	m.ExpectQuery(regexp.QuoteMeta("WHERE (NOT $1 OR status = 'active')")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(planCols).AddRow(1, "Four Pack", "", 4, 12000, 30, "active", now, now))

	plans, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}
