package client

import (
	"context"
	"strings"

	"fitstudio/internal/logger"
)

type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (*Client, error)
	Get(ctx context.Context, id int64) (*Client, error)
	List(ctx context.Context, status Status) ([]Client, error)
	SetStatus(ctx context.Context, id int64, status Status) (*Client, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateClientRequest) (*Client, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if req.Email == "" {
		return nil, ErrEmailRequired
	}

	c, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Info("client created", "client_id", c.ID)
	return c, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, status Status) ([]Client, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, status)
}

func (s *service) SetStatus(ctx context.Context, id int64, status Status) (*Client, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	c, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	logger.Info("client status changed", "client_id", id, "status", status)
	return c, nil
}
