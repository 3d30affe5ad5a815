package notification

import (
	"context"
	"time"
)

type Repository interface {
	Candidates(ctx context.Context, today time.Time) ([]Candidate, error)
}
