package block

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/flocknet/flocknet-api/internal/domain/user"
)

// DefaultPageSize for blocked-user listings
const DefaultPageSize = 50

// FollowSever removes follow edges between a pair in both directions.
// Wired with the follow repository: blocking severs any follow
// relationship between the two users.
type FollowSever interface {
	DeleteBetween(ctx context.Context, userID1, userID2 uuid.UUID) error
}

// Service handles block graph business logic
type Service struct {
	repo      Repository
	follows   FollowSever
	directory user.Directory
}

// NewService creates block service
func NewService(repo Repository, follows FollowSever, directory user.Directory) *Service {
	return &Service{
		repo:      repo,
		follows:   follows,
		directory: directory,
	}
}

// Block creates a directed block edge and severs any follow edges
// between the pair. Re-blocking is a no-op.
func (s *Service) Block(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return ErrSelfBlock
	}

	exists, err := s.repo.Exists(ctx, blockerID, blockedID)
	if err != nil {
		return err
	}
	if !exists {
		edge := &Edge{
			BlockerID: blockerID,
			BlockedID: blockedID,
			BlockedAt: time.Now(),
		}
		if err := s.repo.Create(ctx, edge); err != nil && !errors.Is(err, ErrDuplicateEdge) {
			return err
		}
	}

	if s.follows != nil {
		return s.follows.DeleteBetween(ctx, blockerID, blockedID)
	}
	return nil
}

// Unblock deletes the exact directed edge if present; no-op otherwise
func (s *Service) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	return s.repo.Delete(ctx, blockerID, blockedID)
}

// IsBlocked returns true if a block exists in either direction.
// Consumers rely on the symmetry to suppress visibility both ways.
func (s *Service) IsBlocked(ctx context.Context, userID1, userID2 uuid.UUID) (bool, error) {
	return s.repo.IsBlocked(ctx, userID1, userID2)
}

// GetBlockedUsers returns the users blocked by userID, newest first
func (s *Service) GetBlockedUsers(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*user.Summary, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	edges, err := s.repo.ListBlocked(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.BlockedID)
	}
	if len(ids) == 0 {
		return []*user.Summary{}, nil
	}

	summaries, err := s.directory.GetSummariesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*user.Summary, len(summaries))
	for _, sum := range summaries {
		byID[sum.ID] = sum
	}

	out := make([]*user.Summary, 0, len(ids))
	for _, id := range ids {
		if sum, ok := byID[id]; ok {
			out = append(out, sum)
		}
	}
	return out, nil
}
