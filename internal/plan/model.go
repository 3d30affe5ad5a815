package plan

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Plan is a purchasable subscription type. Purchases snapshot its credits and price.
type Plan struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	CreditsIncluded int       `db:"credits_included" json:"credits_included"`
	PriceCents      int64     `db:"price_cents" json:"price_cents"`
	ValidityDays    int       `db:"validity_days" json:"validity_days"`
	Status          Status    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Plan) IsActive() bool {
	return p.Status == StatusActive
}

type PlanRequest struct {
	Name            string `json:"name" binding:"required,max=255"`
	Description     string `json:"description"`
	CreditsIncluded int    `json:"credits_included" binding:"required,min=1"`
	PriceCents      int64  `json:"price_cents" binding:"gte=0"`
	ValidityDays    int    `json:"validity_days" binding:"required,min=1"`
	Status          Status `json:"status" binding:"omitempty,oneof=active inactive"`
}
