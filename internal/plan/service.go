package plan

import (
	"context"
	"strings"

	"fitstudio/internal/logger"
)

type Service interface {
	Create(ctx context.Context, req PlanRequest) (*Plan, error)
	Get(ctx context.Context, id int64) (*Plan, error)
	List(ctx context.Context, onlyActive bool) ([]Plan, error)
	Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validate(req *PlanRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Status == "" {
		req.Status = StatusActive
	}

	switch {
	case req.Name == "":
		return ErrInvalidName
	case req.CreditsIncluded <= 0:
		return ErrInvalidCredits
	case req.PriceCents < 0:
		return ErrInvalidPrice
	case req.ValidityDays <= 0:
		return ErrInvalidDays
	case req.Status != StatusActive && req.Status != StatusInactive:
		return ErrInvalidStatus
	}
	return nil
}

func (s *service) Create(ctx context.Context, req PlanRequest) (*Plan, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Info("subscription type created", "plan_id", p.ID, "credits", p.CreditsIncluded)
	return p, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Plan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, onlyActive bool) ([]Plan, error) {
	return s.repo.List(ctx, onlyActive)
}

func (s *service) Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	logger.Info("subscription type updated", "plan_id", p.ID, "status", p.Status)
	return p, nil
}
