package block

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines block graph data access interface
type Repository interface {
	// Create inserts a directed block edge. Returns ErrDuplicateEdge
	// when the exact pair already exists.
	Create(ctx context.Context, edge *Edge) error
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error
	Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)
	// IsBlocked is symmetric: true if either user blocked the other.
	IsBlocked(ctx context.Context, userID1, userID2 uuid.UUID) (bool, error)
	ListBlocked(ctx context.Context, blockerID uuid.UUID, limit, offset int) ([]*Edge, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new block repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, edge *Edge) error {
	query := `
		INSERT INTO user_blocks (blocker_id, blocked_id, blocked_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, edge.BlockerID, edge.BlockedID, edge.BlockedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEdge
	}
	return err
}

func (r *repository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	query := `DELETE FROM user_blocks WHERE blocker_id = $1 AND blocked_id = $2`
	_, err := r.db.ExecContext(ctx, query, blockerID, blockedID)
	return err
}

func (r *repository) Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM user_blocks WHERE blocker_id = $1 AND blocked_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, blockerID, blockedID)
	return exists, err
}

func (r *repository) IsBlocked(ctx context.Context, userID1, userID2 uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM user_blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID1, userID2)
	return exists, err
}

func (r *repository) ListBlocked(ctx context.Context, blockerID uuid.UUID, limit, offset int) ([]*Edge, error) {
	query := `
		SELECT * FROM user_blocks
		WHERE blocker_id = $1
		ORDER BY blocked_at DESC
		LIMIT $2 OFFSET $3
	`
	var edges []*Edge
	err := r.db.SelectContext(ctx, &edges, query, blockerID, limit, offset)
	return edges, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
