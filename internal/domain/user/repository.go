package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Directory defines read access to the user directory. Missing users
// are (nil, nil), not an error: callers decide whether absence matters.
type Directory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetSummary(ctx context.Context, id uuid.UUID) (*Summary, error)
	GetSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]*Summary, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user directory repository
func NewRepository(db *sqlx.DB) Directory {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT * FROM users WHERE id = $1`
	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetSummary(ctx context.Context, id uuid.UUID) (*Summary, error) {
	query := `SELECT id, username, display_name, avatar_url, verified FROM users WHERE id = $1`
	var s Summary
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]*Summary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT id, username, display_name, avatar_url, verified FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var summaries []*Summary
	err = r.db.SelectContext(ctx, &summaries, r.db.Rebind(query), args...)
	return summaries, err
}
