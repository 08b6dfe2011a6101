package friend

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines friend request data access interface
type Repository interface {
	// Create inserts a pending request. Returns ErrRequestExists when a
	// pending request between the pair already exists (partial unique
	// index), so concurrent duplicate sends can be surfaced as conflicts.
	Create(ctx context.Context, req *Request) error
	// GetByID returns (nil, nil) when the request does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	// TransitionByAddressee moves a pending request addressed to userID
	// into a terminal state. Returns false when no row matched, which
	// means the request was missing, already resolved, or not addressed
	// to this user.
	TransitionByAddressee(ctx context.Context, id, userID uuid.UUID, to Status) (bool, error)
	// TransitionByRequester is the requester-side counterpart, used for
	// cancellation.
	TransitionByRequester(ctx context.Context, id, userID uuid.UUID, to Status) (bool, error)
	HasPendingBetween(ctx context.Context, userID1, userID2 uuid.UUID) (bool, error)
	// GetAcceptedBetween returns (nil, nil) when the pair is not friends
	GetAcceptedBetween(ctx context.Context, userID1, userID2 uuid.UUID) (*Request, error)
	AreFriends(ctx context.Context, userID1, userID2 uuid.UUID) (bool, error)
	// DeleteAccepted removes an accepted row by id. Returns false when
	// the row was already gone, so concurrent unfriends lose cleanly.
	DeleteAccepted(ctx context.Context, id uuid.UUID) (bool, error)
	ListAcceptedByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Request, error)
	ListPendingForAddressee(ctx context.Context, userID uuid.UUID) ([]*Request, error)
	ListFriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// ListAcceptedEdgesTouching returns every accepted edge with at
	// least one endpoint in ids, in a single query. Feeds the
	// friend-of-friend traversal.
	ListAcceptedEdgesTouching(ctx context.Context, ids []uuid.UUID) ([]Pair, error)
	// ListRelatedIDs returns the distinct counterparts of every request
	// involving userID, regardless of status.
	ListRelatedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// ListPendingOutgoing returns which of addresseeIDs have a pending
	// request from requesterID.
	ListPendingOutgoing(ctx context.Context, requesterID uuid.UUID, addresseeIDs []uuid.UUID) ([]uuid.UUID, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new friend repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO friend_requests (id, requester_id, addressee_id, status, requested_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, req.ID, req.RequesterID, req.AddresseeID, req.Status, req.RequestedAt)
	if isUniqueViolation(err) {
		return ErrRequestExists
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	query := `SELECT * FROM friend_requests WHERE id = $1`
	var req Request
	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) TransitionByAddressee(ctx context.Context, id, userID uuid.UUID, to Status) (bool, error) {
	query := `
		UPDATE friend_requests
		SET status = $1, responded_at = NOW()
		WHERE id = $2 AND addressee_id = $3 AND status = 'pending'
	`
	return r.transition(ctx, query, to, id, userID)
}

func (r *repository) TransitionByRequester(ctx context.Context, id, userID uuid.UUID, to Status) (bool, error) {
	query := `
		UPDATE friend_requests
		SET status = $1, responded_at = NOW()
		WHERE id = $2 AND requester_id = $3 AND status = 'pending'
	`
	return r.transition(ctx, query, to, id, userID)
}

func (r *repository) transition(ctx context.Context, query string, to Status, id, userID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, to, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) HasPendingBetween(ctx context.Context, userID1, userID2 uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM friend_requests
			WHERE status = 'pending'
			  AND ((requester_id = $1 AND addressee_id = $2)
			    OR (requester_id = $2 AND addressee_id = $1))
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID1, userID2)
	return exists, err
}

func (r *repository) GetAcceptedBetween(ctx context.Context, userID1, userID2 uuid.UUID) (*Request, error) {
	query := `
		SELECT * FROM friend_requests
		WHERE status = 'accepted'
		  AND ((requester_id = $1 AND addressee_id = $2)
		    OR (requester_id = $2 AND addressee_id = $1))
	`
	var req Request
	err := r.db.GetContext(ctx, &req, query, userID1, userID2)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) AreFriends(ctx context.Context, userID1, userID2 uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM friend_requests
			WHERE status = 'accepted'
			  AND ((requester_id = $1 AND addressee_id = $2)
			    OR (requester_id = $2 AND addressee_id = $1))
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID1, userID2)
	return exists, err
}

func (r *repository) DeleteAccepted(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM friend_requests WHERE id = $1 AND status = 'accepted'`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) ListAcceptedByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Request, error) {
	query := `
		SELECT * FROM friend_requests
		WHERE status = 'accepted' AND (requester_id = $1 OR addressee_id = $1)
		ORDER BY COALESCE(responded_at, requested_at) DESC
		LIMIT $2 OFFSET $3
	`
	var reqs []*Request
	err := r.db.SelectContext(ctx, &reqs, query, userID, limit, offset)
	return reqs, err
}

func (r *repository) ListPendingForAddressee(ctx context.Context, userID uuid.UUID) ([]*Request, error) {
	query := `
		SELECT * FROM friend_requests
		WHERE status = 'pending' AND addressee_id = $1
		ORDER BY requested_at DESC
	`
	var reqs []*Request
	err := r.db.SelectContext(ctx, &reqs, query, userID)
	return reqs, err
}

func (r *repository) ListFriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT CASE WHEN requester_id = $1 THEN addressee_id ELSE requester_id END
		FROM friend_requests
		WHERE status = 'accepted' AND (requester_id = $1 OR addressee_id = $1)
	`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *repository) ListAcceptedEdgesTouching(ctx context.Context, ids []uuid.UUID) ([]Pair, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT requester_id, addressee_id FROM friend_requests
		WHERE status = 'accepted' AND (requester_id IN (?) OR addressee_id IN (?))
	`, ids, ids)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var pairs []Pair
	err = r.db.SelectContext(ctx, &pairs, query, args...)
	return pairs, err
}

func (r *repository) ListRelatedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT CASE WHEN requester_id = $1 THEN addressee_id ELSE requester_id END
		FROM friend_requests
		WHERE requester_id = $1 OR addressee_id = $1
	`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *repository) ListPendingOutgoing(ctx context.Context, requesterID uuid.UUID, addresseeIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(addresseeIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT addressee_id FROM friend_requests
		WHERE status = 'pending' AND requester_id = ? AND addressee_id IN (?)
	`, requesterID, addresseeIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var ids []uuid.UUID
	err = r.db.SelectContext(ctx, &ids, query, args...)
	return ids, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
