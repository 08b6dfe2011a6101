package follow

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines follow graph data access interface
type Repository interface {
	// Create inserts an edge. Returns ErrDuplicateEdge when the pair
	// already exists (unique constraint), so concurrent duplicate
	// follows can be absorbed by the caller.
	Create(ctx context.Context, edge *Edge) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	// DeleteBetween removes edges in both directions; used when a
	// block severs the pair.
	DeleteBetween(ctx context.Context, userID1, userID2 uuid.UUID) error
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Edge, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Edge, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new follow repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, edge *Edge) error {
	query := `
		INSERT INTO user_follows (follower_id, following_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, edge.FollowerID, edge.FollowingID, edge.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEdge
	}
	return err
}

func (r *repository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	query := `DELETE FROM user_follows WHERE follower_id = $1 AND following_id = $2`
	_, err := r.db.ExecContext(ctx, query, followerID, followingID)
	return err
}

func (r *repository) DeleteBetween(ctx context.Context, userID1, userID2 uuid.UUID) error {
	query := `
		DELETE FROM user_follows
		WHERE (follower_id = $1 AND following_id = $2)
		   OR (follower_id = $2 AND following_id = $1)
	`
	_, err := r.db.ExecContext(ctx, query, userID1, userID2)
	return err
}

func (r *repository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM user_follows WHERE follower_id = $1 AND following_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, followerID, followingID)
	return exists, err
}

func (r *repository) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM user_follows WHERE following_id = $1`
	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

func (r *repository) CountFollowing(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM user_follows WHERE follower_id = $1`
	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

func (r *repository) ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Edge, error) {
	query := `
		SELECT * FROM user_follows
		WHERE following_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var edges []*Edge
	err := r.db.SelectContext(ctx, &edges, query, userID, limit, offset)
	return edges, err
}

func (r *repository) ListFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Edge, error) {
	query := `
		SELECT * FROM user_follows
		WHERE follower_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var edges []*Edge
	err := r.db.SelectContext(ctx, &edges, query, userID, limit, offset)
	return edges, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
