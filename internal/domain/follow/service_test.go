package follow

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/flocknet/flocknet-api/internal/domain/notify"
	"github.com/flocknet/flocknet-api/internal/domain/user"
)

type fakeRepo struct {
	edges       []*Edge
	dupOnCreate bool
}

func (f *fakeRepo) Create(ctx context.Context, edge *Edge) error {
	if f.dupOnCreate {
		return ErrDuplicateEdge
	}
	for _, e := range f.edges {
		if e.FollowerID == edge.FollowerID && e.FollowingID == edge.FollowingID {
			return ErrDuplicateEdge
		}
	}
	f.edges = append(f.edges, edge)
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	kept := f.edges[:0]
	for _, e := range f.edges {
		if !(e.FollowerID == followerID && e.FollowingID == followingID) {
			kept = append(kept, e)
		}
	}
	f.edges = kept
	return nil
}

func (f *fakeRepo) DeleteBetween(ctx context.Context, a, b uuid.UUID) error {
	kept := f.edges[:0]
	for _, e := range f.edges {
		if (e.FollowerID == a && e.FollowingID == b) || (e.FollowerID == b && e.FollowingID == a) {
			continue
		}
		kept = append(kept, e)
	}
	f.edges = kept
	return nil
}

func (f *fakeRepo) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	for _, e := range f.edges {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, e := range f.edges {
		if e.FollowingID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CountFollowing(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, e := range f.edges {
		if e.FollowerID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Edge, error) {
	var matched []*Edge
	for _, e := range f.edges {
		if e.FollowingID == userID {
			matched = append(matched, e)
		}
	}
	return window(matched, limit, offset), nil
}

func (f *fakeRepo) ListFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Edge, error) {
	var matched []*Edge
	for _, e := range f.edges {
		if e.FollowerID == userID {
			matched = append(matched, e)
		}
	}
	return window(matched, limit, offset), nil
}

func window(edges []*Edge, limit, offset int) []*Edge {
	sort.Slice(edges, func(i, j int) bool { return edges[i].CreatedAt.After(edges[j].CreatedAt) })
	if offset >= len(edges) {
		return nil
	}
	end := offset + limit
	if end > len(edges) {
		end = len(edges)
	}
	return edges[offset:end]
}

type fakeDirectory struct {
	users map[uuid.UUID]*user.Summary
}

func (f *fakeDirectory) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return nil, nil
}

func (f *fakeDirectory) GetSummary(ctx context.Context, id uuid.UUID) (*user.Summary, error) {
	return f.users[id], nil
}

func (f *fakeDirectory) GetSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.Summary, error) {
	var out []*user.Summary
	for _, id := range ids {
		if s, ok := f.users[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	events map[uuid.UUID][]notify.Event
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, event notify.Event) {
	if f.events == nil {
		f.events = make(map[uuid.UUID][]notify.Event)
	}
	f.events[userID] = append(f.events[userID], event)
}

func newTestService() (*Service, *fakeRepo, *fakeDirectory, *fakeNotifier) {
	repo := &fakeRepo{}
	dir := &fakeDirectory{users: make(map[uuid.UUID]*user.Summary)}
	notifier := &fakeNotifier{}
	return NewService(repo, dir, notifier), repo, dir, notifier
}

func addUser(dir *fakeDirectory, name string) uuid.UUID {
	id := uuid.New()
	dir.users[id] = &user.Summary{ID: id, Username: name, DisplayName: name}
	return id
}

func TestFollowSelfFails(t *testing.T) {
	svc, _, dir, _ := newTestService()
	a := addUser(dir, "a")

	if err := svc.Follow(context.Background(), a, a); err != ErrSelfFollow {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}
}

func TestFollowAndUnfollow(t *testing.T) {
	svc, _, dir, _ := newTestService()
	ctx := context.Background()
	a := addUser(dir, "a")
	b := addUser(dir, "b")

	if err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("follow: %v", err)
	}

	following, err := svc.IsFollowing(ctx, a, b)
	if err != nil || !following {
		t.Fatalf("expected a following b, got %v %v", following, err)
	}

	count, err := svc.FollowersCount(ctx, b)
	if err != nil || count != 1 {
		t.Fatalf("expected followers count 1, got %d %v", count, err)
	}

	if err := svc.Unfollow(ctx, a, b); err != nil {
		t.Fatalf("unfollow: %v", err)
	}

	following, _ = svc.IsFollowing(ctx, a, b)
	if following {
		t.Fatal("expected follow to be reverted")
	}
	count, _ = svc.FollowersCount(ctx, b)
	if count != 0 {
		t.Fatalf("expected followers count 0, got %d", count)
	}
}

func TestFollowIsIdempotent(t *testing.T) {
	svc, repo, dir, _ := newTestService()
	ctx := context.Background()
	a := addUser(dir, "a")
	b := addUser(dir, "b")

	if err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("re-follow should be a no-op, got %v", err)
	}
	if len(repo.edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(repo.edges))
	}
}

func TestFollowAbsorbsDuplicateRace(t *testing.T) {
	svc, repo, dir, _ := newTestService()
	a := addUser(dir, "a")
	b := addUser(dir, "b")

	// Simulate losing the check-then-insert race: the existence check
	// saw nothing but the insert hits the unique constraint.
	repo.dupOnCreate = true

	if err := svc.Follow(context.Background(), a, b); err != nil {
		t.Fatalf("duplicate race should be absorbed as success, got %v", err)
	}
}

func TestFollowNotifiesFollowee(t *testing.T) {
	svc, _, dir, notifier := newTestService()
	a := addUser(dir, "a")
	b := addUser(dir, "b")

	if err := svc.Follow(context.Background(), a, b); err != nil {
		t.Fatalf("follow: %v", err)
	}

	events := notifier.events[b]
	if len(events) != 1 || events[0].Type != notify.EventFollowCreated || events[0].ActorID != a {
		t.Fatalf("expected one follow.created event from %s, got %+v", a, events)
	}
}

func TestGetFollowersPagination(t *testing.T) {
	svc, repo, dir, _ := newTestService()
	ctx := context.Background()
	target := addUser(dir, "target")

	// 45 followers with strictly increasing created_at
	base := time.Now().Add(-time.Hour)
	var followers []uuid.UUID
	for i := 0; i < 45; i++ {
		id := addUser(dir, fmt.Sprintf("user%02d", i))
		followers = append(followers, id)
		repo.edges = append(repo.edges, &Edge{
			FollowerID:  id,
			FollowingID: target,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		})
	}

	page2, err := svc.GetFollowers(ctx, target, 2, 20)
	if err != nil {
		t.Fatalf("get followers: %v", err)
	}
	if len(page2) != 20 {
		t.Fatalf("expected 20 followers on page 2, got %d", len(page2))
	}

	// Newest first: page 2 starts at the 21st most recent follower
	want := followers[len(followers)-21]
	if page2[0].ID != want {
		t.Fatalf("expected page 2 to start with %s, got %s", want, page2[0].ID)
	}

	empty, err := svc.GetFollowers(ctx, target, 9, 20)
	if err != nil {
		t.Fatalf("out-of-range page should not error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty page, got %d entries", len(empty))
	}
}

func TestGetFollowersSkipsMissingDirectoryEntries(t *testing.T) {
	svc, repo, dir, _ := newTestService()
	ctx := context.Background()
	target := addUser(dir, "target")
	known := addUser(dir, "known")
	ghost := uuid.New() // not in the directory

	now := time.Now()
	repo.edges = append(repo.edges,
		&Edge{FollowerID: known, FollowingID: target, CreatedAt: now},
		&Edge{FollowerID: ghost, FollowingID: target, CreatedAt: now.Add(time.Second)},
	)

	users, err := svc.GetFollowers(ctx, target, 1, 20)
	if err != nil {
		t.Fatalf("get followers: %v", err)
	}
	if len(users) != 1 || users[0].ID != known {
		t.Fatalf("expected only the known user, got %+v", users)
	}
}
