package session

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s Session) (*Session, error)
	GetByID(ctx context.Context, id int64) (*Session, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*Session, error)
	ListByClient(ctx context.Context, clientID int64) ([]Session, error)
	Reschedule(ctx context.Context, s Session) (*Session, error)
	Complete(ctx context.Context, id int64, deducted bool, completedAt time.Time) (*Session, error)
	SetStatus(ctx context.Context, id int64, status Status, creditsDeducted bool) (*Session, error)
}
