package follow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/flocknet/flocknet-api/internal/domain/notify"
	"github.com/flocknet/flocknet-api/internal/domain/user"
)

// DefaultPageSize for follower/following listings
const DefaultPageSize = 20

// Notifier pushes realtime events; nil disables notifications
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event notify.Event)
}

// Service handles follow graph business logic
type Service struct {
	repo      Repository
	directory user.Directory
	notifier  Notifier
}

// NewService creates follow service
func NewService(repo Repository, directory user.Directory, notifier Notifier) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		notifier:  notifier,
	}
}

// Follow creates a directed follow edge. Re-following is a no-op; a
// concurrent duplicate insert losing to the unique constraint is
// treated the same way.
func (s *Service) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return ErrSelfFollow
	}

	exists, err := s.repo.Exists(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	edge := &Edge{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, edge); err != nil {
		if errors.Is(err, ErrDuplicateEdge) {
			return nil
		}
		return err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, followingID, notify.Event{
			Type:       notify.EventFollowCreated,
			ActorID:    followerID,
			OccurredAt: edge.CreatedAt,
		})
	}

	return nil
}

// Unfollow removes the edge if present; absence is not an error
func (s *Service) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return s.repo.Delete(ctx, followerID, followingID)
}

// IsFollowing checks edge existence
func (s *Service) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, followerID, followingID)
}

// FollowersCount returns the number of users following userID.
// Counters are derived from the edge table on every call, never
// cached, so they cannot drift from the edges themselves.
func (s *Service) FollowersCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountFollowers(ctx, userID)
}

// FollowingCount returns the number of users userID follows
func (s *Service) FollowingCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountFollowing(ctx, userID)
}

// GetFollowers returns the users following userID, newest edge first
func (s *Service) GetFollowers(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*user.Summary, error) {
	limit, offset := pageWindow(page, pageSize)
	edges, err := s.repo.ListFollowers(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowerID)
	}
	return s.resolve(ctx, ids)
}

// GetFollowing returns the users userID follows, newest edge first
func (s *Service) GetFollowing(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*user.Summary, error) {
	limit, offset := pageWindow(page, pageSize)
	edges, err := s.repo.ListFollowing(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowingID)
	}
	return s.resolve(ctx, ids)
}

// resolve maps edge counterpart ids to directory summaries, keeping
// edge order and silently skipping ids the directory no longer knows
func (s *Service) resolve(ctx context.Context, ids []uuid.UUID) ([]*user.Summary, error) {
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

// pageWindow converts 1-based page/pageSize into limit/offset
func pageWindow(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return pageSize, (page - 1) * pageSize
}
