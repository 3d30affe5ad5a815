package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fitstudio/internal/db"

	"github.com/jmoiron/sqlx"
)

const clientColumns = `id, name, email, phone, fitness_goals, status, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req CreateClientRequest) (*Client, error) {
	query := `
		INSERT INTO clients (name, email, phone, fitness_goals, status)
		VALUES ($1, $2, $3, $4, 'active')
		RETURNING ` + clientColumns

	var c Client
	err := db.Conn(ctx, r.db).GetContext(ctx, &c, query, req.Name, req.Email, req.Phone, req.FitnessGoals)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert client: %w", err)
	}

	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	var c Client
	err := db.Conn(ctx, r.db).GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("get client %d: %w", id, err)
	}

	return &c, nil
}

// List returns clients ordered by name; an empty status lists everyone.
func (r *repository) List(ctx context.Context, status Status) ([]Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE ($1::text = '' OR status = $1)
		ORDER BY name, id
	`

	clients := []Client{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &clients, query, string(status)); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	return clients, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) (*Client, error) {
	query := `
		UPDATE clients
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + clientColumns

	var c Client
	err := db.Conn(ctx, r.db).GetContext(ctx, &c, query, string(status), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("update client status: %w", err)
	}

	return &c, nil
}
