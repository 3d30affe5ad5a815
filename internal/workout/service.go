package workout

import (
	"context"
	"strings"
	"time"

	"fitstudio/internal/logger"
)

type Service interface {
	Create(ctx context.Context, req WorkoutRequest, now time.Time) (*Workout, error)
	Get(ctx context.Context, id int64) (*WorkoutWithAvailability, error)
	List(ctx context.Context, onlyUpcoming bool, now time.Time) ([]WorkoutWithAvailability, error)
	Update(ctx context.Context, id int64, req WorkoutRequest, now time.Time) (*Workout, error)
	SetStatus(ctx context.Context, id int64, status Status) (*Workout, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req WorkoutRequest, now time.Time) (*Workout, error) {
	w, err := parseRequest(req, now)
	if err != nil {
		return nil, err
	}
	w.Status = StatusActive

	created, err := s.repo.Create(ctx, w)
	if err != nil {
		return nil, err
	}

	logger.Info("workout created",
		"workout_id", created.ID,
		"scheduled_at", created.ScheduledAt,
		"capacity", created.Capacity,
	)
	return created, nil
}

func (s *service) Get(ctx context.Context, id int64) (*WorkoutWithAvailability, error) {
	return s.repo.GetWithAvailability(ctx, id)
}

func (s *service) List(ctx context.Context, onlyUpcoming bool, now time.Time) ([]WorkoutWithAvailability, error) {
	return s.repo.ListWithAvailability(ctx, onlyUpcoming, now)
}

func (s *service) Update(ctx context.Context, id int64, req WorkoutRequest, now time.Time) (*Workout, error) {
	w, err := parseRequest(req, now)
	if err != nil {
		return nil, err
	}
	w.ID = id

	return s.repo.Update(ctx, w)
}

func (s *service) SetStatus(ctx context.Context, id int64, status Status) (*Workout, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	w, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	logger.Info("workout status changed", "workout_id", id, "status", status)
	return w, nil
}

func parseRequest(req WorkoutRequest, now time.Time) (Workout, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Workout{}, ErrNameRequired
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return Workout{}, ErrInvalidSchedule
	}
	if !scheduledAt.After(now) {
		return Workout{}, ErrScheduleInPast
	}

	if req.Capacity < MinCapacity || req.Capacity > MaxCapacity {
		return Workout{}, ErrInvalidCapacity
	}
	if req.DurationMinutes < MinDuration || req.DurationMinutes > MaxDuration {
		return Workout{}, ErrInvalidDuration
	}

	return Workout{
		Name:            name,
		Description:     req.Description,
		Instructor:      req.Instructor,
		ScheduledAt:     scheduledAt,
		Capacity:        req.Capacity,
		DurationMinutes: req.DurationMinutes,
	}, nil
}
