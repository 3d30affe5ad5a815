package workout

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

const (
	MinCapacity = 1
	MaxCapacity = 50
	MinDuration = 15
	MaxDuration = 180
)

type Workout struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	Instructor      string    `db:"instructor" json:"instructor"`
	ScheduledAt     time.Time `db:"scheduled_at" json:"scheduled_at"`
	Capacity        int       `db:"capacity" json:"capacity"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Status          Status    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func (w Workout) IsActive() bool {
	return w.Status == StatusActive
}

type WorkoutWithAvailability struct {
	Workout
	BookedCount int  `db:"booked_count" json:"booked_count"`
	Available   int  `db:"-" json:"available"`
	IsFull      bool `db:"-" json:"is_full"`
}

// fill derives the availability fields. Available never goes negative after a capacity cut.
func (w *WorkoutWithAvailability) fill() {
	w.Available = w.Capacity - w.BookedCount
	if w.Available < 0 {
		w.Available = 0
	}
	w.IsFull = w.Available == 0
}

type WorkoutRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Instructor      string `json:"instructor"`
	ScheduledAt     string `json:"scheduled_at" binding:"required"`
	Capacity        int    `json:"capacity" binding:"required,min=1,max=50"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=15,max=180"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=active cancelled completed"`
}
