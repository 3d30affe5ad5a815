package client

import "context"

type Repository interface {
	Create(ctx context.Context, req CreateClientRequest) (*Client, error)
	GetByID(ctx context.Context, id int64) (*Client, error)
	List(ctx context.Context, status Status) ([]Client, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Client, error)
}
