package subscription

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"fitstudio/internal/client"
	"fitstudio/internal/plan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockClientReader struct{ mock.Mock }
type MockPlanReader struct{ mock.Mock }

func (m *MockClientReader) GetByID(ctx context.Context, id int64) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockPlanReader) GetByID(ctx context.Context, id int64) (*plan.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

// memRepo applies the same conditional update rules as the SQL repository.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]*ClientSubscription
	txs    []CreditTransaction
}

func newMemRepo() *memRepo {
	return &memRepo{subs: map[int64]*ClientSubscription{}}
}

func (r *memRepo) Create(ctx context.Context, sub ClientSubscription) (*ClientSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	sub.ID = r.nextID
	sub.CreatedAt = time.Now()
	r.subs[sub.ID] = &sub
	cp := sub
	return &cp, nil
}

func (r *memRepo) GetByID(ctx context.Context, id int64) (*ClientSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) ListByClient(ctx context.Context, clientID int64) ([]ClientSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []ClientSubscription{}
	for _, s := range r.subs {
		if s.ClientID == clientID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memRepo) ConsumeCredit(ctx context.Context, id int64, today time.Time) (*ClientSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok || s.Status != StatusActive || s.EndDate.Before(today) || s.CreditsRemaining <= 0 {
		return nil, errNotApplied
	}
	s.CreditsRemaining--
	cp := *s
	return &cp, nil
}

func (r *memRepo) RefundCredit(ctx context.Context, id int64) (*ClientSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok || s.CreditsRemaining >= s.CreditsTotal {
		return nil, errNotApplied
	}
	s.CreditsRemaining++
	cp := *s
	return &cp, nil
}

func (r *memRepo) Cancel(ctx context.Context, id int64) (*ClientSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok || s.Status != StatusActive {
		return nil, errNotApplied
	}
	s.Status = StatusCancelled
	cp := *s
	return &cp, nil
}

func (r *memRepo) ExpireOverdue(ctx context.Context, today time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.subs {
		if s.Status == StatusActive && s.EndDate.Before(today) {
			s.Status = StatusExpired
			n++
		}
	}
	return n, nil
}

func (r *memRepo) AddTransaction(ctx context.Context, tx CreditTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs = append(r.txs, tx)
	return nil
}

func (r *memRepo) ListTransactions(ctx context.Context, subscriptionID int64) ([]CreditTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []CreditTransaction{}
	for _, tx := range r.txs {
		if tx.SubscriptionID == subscriptionID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *memRepo) balance(id int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs[id].CreditsRemaining
}

var fourPack = &plan.Plan{ID: 10, Name: "Four Pack", CreditsIncluded: 4, PriceCents: 12000, ValidityDays: 30, Status: plan.StatusActive}

func newLedger(t *testing.T) (Service, *memRepo) {
	t.Helper()
	clients := new(MockClientReader)
	clients.On("GetByID", mock.Anything, mock.Anything).Return(&client.Client{ID: 1, Status: client.StatusActive}, nil)
	plans := new(MockPlanReader)
	plans.On("GetByID", mock.Anything, int64(10)).Return(fourPack, nil)

	repo := newMemRepo()
	return NewService(repo, clients, plans, passthroughTx{}), repo
}

func TestService_Purchase_FourCreditScenario(t *testing.T) {
	svc, repo := newLedger(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	sub, err := svc.Purchase(ctx, 1, 10, 12000, now)
	require.NoError(t, err)

	assert.Equal(t, 4, sub.CreditsTotal)
	assert.Equal(t, 4, sub.CreditsRemaining)
	assert.Equal(t, StatusActive, sub.Status)
	assert.Equal(t, day(2026, 3, 10), sub.StartDate)
	assert.Equal(t, day(2026, 4, 9), sub.EndDate)
	assert.Equal(t, int64(12000), sub.AmountPaidCents)

	for i := 0; i < 4; i++ {
		_, err := svc.ConsumeCredit(ctx, sub.ID, now)
		require.NoError(t, err, "consume %d", i+1)
	}

	_, err = svc.ConsumeCredit(ctx, sub.ID, now)
	assert.ErrorIs(t, err, ErrNoCreditsAvailable)
	assert.Equal(t, 0, repo.balance(sub.ID))

	txs, err := svc.Transactions(ctx, sub.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 5)
}

func TestService_Purchase_Rejections(t *testing.T) {
	now := time.Now()
	ctx := context.Background()

	t.Run("inactive plan", func(t *testing.T) {
		clients := new(MockClientReader)
		clients.On("GetByID", mock.Anything, int64(1)).Return(&client.Client{ID: 1}, nil)
		plans := new(MockPlanReader)
		plans.On("GetByID", mock.Anything, int64(3)).Return(&plan.Plan{ID: 3, CreditsIncluded: 4, ValidityDays: 30, Status: plan.StatusInactive}, nil)

		_, err := NewService(newMemRepo(), clients, plans, passthroughTx{}).Purchase(ctx, 1, 3, 0, now)
		assert.ErrorIs(t, err, ErrInvalidPlan)
	})

	t.Run("unknown plan", func(t *testing.T) {
		clients := new(MockClientReader)
		clients.On("GetByID", mock.Anything, int64(1)).Return(&client.Client{ID: 1}, nil)
		plans := new(MockPlanReader)
		plans.On("GetByID", mock.Anything, int64(4)).Return(nil, plan.ErrPlanNotFound)

		_, err := NewService(newMemRepo(), clients, plans, passthroughTx{}).Purchase(ctx, 1, 4, 0, now)
		assert.ErrorIs(t, err, ErrInvalidPlan)
	})

	t.Run("unknown client", func(t *testing.T) {
		clients := new(MockClientReader)
		clients.On("GetByID", mock.Anything, int64(2)).Return(nil, client.ErrClientNotFound)

		_, err := NewService(newMemRepo(), clients, new(MockPlanReader), passthroughTx{}).Purchase(ctx, 2, 10, 0, now)
		assert.ErrorIs(t, err, client.ErrClientNotFound)
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := NewService(newMemRepo(), new(MockClientReader), new(MockPlanReader), passthroughTx{}).Purchase(ctx, 1, 10, -5, now)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestService_ConsumeCredit_Rejections(t *testing.T) {
	now := day(2026, 3, 10)
	ctx := context.Background()

	tests := []struct {
		name    string
		sub     ClientSubscription
		wantErr error
	}{
		{
			name:    "zero balance",
			sub:     ClientSubscription{ClientID: 1, Status: StatusActive, EndDate: day(2026, 4, 1), CreditsTotal: 4, CreditsRemaining: 0},
			wantErr: ErrNoCreditsAvailable,
		},
		{
			name:    "end date passed",
			sub:     ClientSubscription{ClientID: 1, Status: StatusActive, EndDate: day(2026, 3, 9), CreditsTotal: 4, CreditsRemaining: 2},
			wantErr: ErrSubscriptionExpired,
		},
		{
			name:    "expired status",
			sub:     ClientSubscription{ClientID: 1, Status: StatusExpired, EndDate: day(2026, 3, 1), CreditsTotal: 4, CreditsRemaining: 2},
			wantErr: ErrSubscriptionExpired,
		},
		{
			name:    "cancelled",
			sub:     ClientSubscription{ClientID: 1, Status: StatusCancelled, EndDate: day(2026, 4, 1), CreditsTotal: 4, CreditsRemaining: 2},
			wantErr: ErrSubscriptionInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newLedger(t)
			sub, err := repo.Create(ctx, tt.sub)
			require.NoError(t, err)

			_, err = svc.ConsumeCredit(ctx, sub.ID, now)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.sub.CreditsRemaining, repo.balance(sub.ID))
			assert.Empty(t, repo.txs)
		})
	}

	t.Run("unknown subscription", func(t *testing.T) {
		svc, _ := newLedger(t)
		_, err := svc.ConsumeCredit(ctx, 404, now)
		assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	})
}

func TestService_ConsumeCredit_ConcurrentLastCredit(t *testing.T) {
	svc, repo := newLedger(t)
	ctx := context.Background()
	now := day(2026, 3, 10)

	sub, err := repo.Create(ctx, ClientSubscription{ClientID: 1, Status: StatusActive, EndDate: day(2026, 4, 1), CreditsTotal: 4, CreditsRemaining: 1})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ConsumeCredit(ctx, sub.ID, now)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrNoCreditsAvailable)
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, repo.balance(sub.ID))
}

func TestService_RefundCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("below total", func(t *testing.T) {
		svc, repo := newLedger(t)
		sub, _ := repo.Create(ctx, ClientSubscription{ClientID: 1, Status: StatusActive, EndDate: day(2026, 4, 1), CreditsTotal: 4, CreditsRemaining: 3})

		got, err := svc.RefundCredit(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.CreditsRemaining)
	})

	t.Run("at total", func(t *testing.T) {
		svc, repo := newLedger(t)
		sub, _ := repo.Create(ctx, ClientSubscription{ClientID: 1, Status: StatusActive, EndDate: day(2026, 4, 1), CreditsTotal: 4, CreditsRemaining: 4})

		_, err := svc.RefundCredit(ctx, sub.ID)
		assert.ErrorIs(t, err, ErrRefundExceedsTotal)
		assert.Equal(t, 4, repo.balance(sub.ID))
	})

	t.Run("expired entries still take refunds", func(t *testing.T) {
		svc, repo := newLedger(t)
		sub, _ := repo.Create(ctx, ClientSubscription{ClientID: 1, Status: StatusExpired, EndDate: day(2026, 1, 1), CreditsTotal: 4, CreditsRemaining: 0})

		got, err := svc.RefundCredit(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CreditsRemaining)
	})
}

func TestService_ResolveActiveSubscription(t *testing.T) {
	svc, repo := newLedger(t)
	ctx := context.Background()
	now := day(2026, 3, 10)

	_, err := svc.ResolveActiveSubscription(ctx, 1, now)
	assert.ErrorIs(t, err, ErrNoCreditsAvailable)

	first, _ := repo.Create(ctx, ClientSubscription{ClientID: 1, Status: StatusActive, EndDate: day(2026, 4, 1), CreditsTotal: 4, CreditsRemaining: 2})
	second, _ := repo.Create(ctx, ClientSubscription{ClientID: 1, Status: StatusActive, EndDate: day(2026, 4, 1), CreditsTotal: 4, CreditsRemaining: 4})
	repo.subs[second.ID].CreatedAt = repo.subs[first.ID].CreatedAt

	got, err := svc.ResolveActiveSubscription(ctx, 1, now)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestService_Cancel(t *testing.T) {
	svc, repo := newLedger(t)
	ctx := context.Background()
	sub, _ := repo.Create(ctx, ClientSubscription{ClientID: 1, Status: StatusActive, EndDate: day(2026, 4, 1), CreditsTotal: 4, CreditsRemaining: 4})

	got, err := svc.Cancel(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	_, err = svc.Cancel(ctx, sub.ID)
	assert.ErrorIs(t, err, ErrNotCancellable)

	_, err = svc.Cancel(ctx, 999)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestService_ExpireOverdue(t *testing.T) {
	svc, repo := newLedger(t)
	ctx := context.Background()
	repo.Create(ctx, ClientSubscription{ClientID: 1, Status: StatusActive, EndDate: day(2026, 3, 9), CreditsTotal: 4, CreditsRemaining: 1})
	repo.Create(ctx, ClientSubscription{ClientID: 1, Status: StatusActive, EndDate: day(2026, 3, 10), CreditsTotal: 4, CreditsRemaining: 1})

	n, err := svc.ExpireOverdue(ctx, time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

type failingRepo struct {
	*memRepo
}

func (f failingRepo) AddTransaction(ctx context.Context, tx CreditTransaction) error {
	return errors.New("disk full")
}

func TestService_ConsumeCredit_PropagatesInfrastructureError(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(failingRepo{repo}, new(MockClientReader), new(MockPlanReader), passthroughTx{})
	sub, _ := repo.Create(context.Background(), ClientSubscription{ClientID: 1, Status: StatusActive, EndDate: day(2026, 4, 1), CreditsTotal: 4, CreditsRemaining: 2})

	_, err := svc.ConsumeCredit(context.Background(), sub.ID, day(2026, 3, 10))

	assert.EqualError(t, err, "disk full")
}
