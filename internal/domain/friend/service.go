package friend

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flocknet/flocknet-api/internal/domain/notify"
	"github.com/flocknet/flocknet-api/internal/domain/user"
)

const (
	// DefaultPageSize for friend listings
	DefaultPageSize = 20
	// DefaultSuggestionLimit when the caller does not ask for a count
	DefaultSuggestionLimit = 20
	// DefaultCandidateCap bounds the friend-of-friend candidate set
	// before ranking
	DefaultCandidateCap = 100
)

// Notifier pushes realtime events; nil disables notifications
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event notify.Event)
}

// Service handles friend request lifecycle and friendship queries
type Service struct {
	repo         Repository
	directory    user.Directory
	notifier     Notifier
	candidateCap int
}

// NewService creates friend service. candidateCap bounds the suggestion
// candidate set; values below 1 fall back to DefaultCandidateCap.
func NewService(repo Repository, directory user.Directory, notifier Notifier, candidateCap int) *Service {
	if candidateCap < 1 {
		candidateCap = DefaultCandidateCap
	}
	return &Service{
		repo:         repo,
		directory:    directory,
		notifier:     notifier,
		candidateCap: candidateCap,
	}
}

// SendRequest creates a pending friend request from requesterID to
// addresseeID. Fails when the pair is already friends or a pending
// request already exists in either direction; a concurrent duplicate
// losing to the unique index surfaces as ErrRequestExists too.
func (s *Service) SendRequest(ctx context.Context, requesterID, addresseeID uuid.UUID) (*Request, error) {
	if requesterID == addresseeID {
		return nil, ErrSelfRequest
	}

	friends, err := s.repo.AreFriends(ctx, requesterID, addresseeID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, ErrAlreadyFriends
	}

	pending, err := s.repo.HasPendingBetween(ctx, requesterID, addresseeID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrRequestExists
	}

	req := &Request{
		ID:          uuid.New(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      StatusPending,
		RequestedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, addresseeID, notify.Event{
			Type:       notify.EventFriendRequestReceived,
			ActorID:    requesterID,
			OccurredAt: req.RequestedAt,
			Data:       map[string]any{"request_id": req.ID},
		})
	}

	return req, nil
}

// AcceptRequest moves a pending request into accepted. Only the
// addressee may accept, and only while the request is still pending;
// the state check and the update are a single guarded statement, so
// concurrent responders cannot both win.
func (s *Service) AcceptRequest(ctx context.Context, requestID, userID uuid.UUID) error {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}

	ok, err := s.repo.TransitionByAddressee(ctx, requestID, userID, StatusAccepted)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRequestNotPending
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, req.RequesterID, notify.Event{
			Type:       notify.EventFriendRequestAccepted,
			ActorID:    userID,
			OccurredAt: time.Now(),
			Data:       map[string]any{"request_id": req.ID},
		})
	}

	return nil
}

// RejectRequest moves a pending request into rejected. A request that
// is missing, already resolved, or not addressed to userID makes this
// a silent no-op.
func (s *Service) RejectRequest(ctx context.Context, requestID, userID uuid.UUID) error {
	_, err := s.repo.TransitionByAddressee(ctx, requestID, userID, StatusRejected)
	return err
}

// CancelRequest lets the requester withdraw a pending request. Same
// tolerant semantics as RejectRequest.
func (s *Service) CancelRequest(ctx context.Context, requestID, userID uuid.UUID) error {
	_, err := s.repo.TransitionByRequester(ctx, requestID, userID, StatusCancelled)
	return err
}

// Unfriend deletes the accepted row between the pair. The previous
// request history stays untouched, so either user can send a fresh
// request afterwards.
func (s *Service) Unfriend(ctx context.Context, userID, friendID uuid.UUID) error {
	if userID == friendID {
		return ErrSelfUnfriend
	}

	req, err := s.repo.GetAcceptedBetween(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrFriendshipNotFound
	}

	deleted, err := s.repo.DeleteAccepted(ctx, req.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrFriendshipNotFound
	}
	return nil
}

// IsFriend checks whether the pair has an accepted request
func (s *Service) IsFriend(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	return s.repo.AreFriends(ctx, userID, otherID)
}

// GetFriends returns userID's friends, most recently resolved first
func (s *Service) GetFriends(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*user.Summary, error) {
	limit, offset := pageWindow(page, pageSize)
	reqs, err := s.repo.ListAcceptedByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.CounterpartID(userID))
	}
	return s.resolve(ctx, ids)
}

// GetPendingRequests returns incoming pending requests for userID,
// newest first, with the requester resolved for display. Requests
// whose requester the directory no longer knows are skipped.
func (s *Service) GetPendingRequests(ctx context.Context, userID uuid.UUID) ([]*PendingRequestView, error) {
	reqs, err := s.repo.ListPendingForAddressee(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return []*PendingRequestView{}, nil
	}

	ids := make([]uuid.UUID, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.RequesterID)
	}
	summaries, err := s.directory.GetSummariesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*user.Summary, len(summaries))
	for _, sum := range summaries {
		byID[sum.ID] = sum
	}

	out := make([]*PendingRequestView, 0, len(reqs))
	for _, req := range reqs {
		sum, ok := byID[req.RequesterID]
		if !ok {
			continue
		}
		out = append(out, &PendingRequestView{
			ID:          req.ID,
			Requester:   sum,
			RequestedAt: req.RequestedAt,
		})
	}
	return out, nil
}

// resolve maps ids to directory summaries, keeping order and silently
// skipping ids the directory no longer knows
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
