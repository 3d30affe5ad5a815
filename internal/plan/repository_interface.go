package plan

import "context"

type Repository interface {
	Create(ctx context.Context, req PlanRequest) (*Plan, error)
	GetByID(ctx context.Context, id int64) (*Plan, error)
	List(ctx context.Context, onlyActive bool) ([]Plan, error)
	Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error)
}
