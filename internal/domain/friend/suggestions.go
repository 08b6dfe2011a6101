package friend

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"
)

// GetSuggestions ranks friends-of-friends for userID by how many
// friends they share with them. Excluded from the result: userID
// itself, current friends, and anyone userID has a request history
// with in any status. The candidate set is capped deterministically
// before ranking so one well-connected user cannot blow up the query.
func (s *Service) GetSuggestions(ctx context.Context, userID uuid.UUID, limit int) ([]*SuggestionResponse, error) {
	if limit < 1 {
		limit = DefaultSuggestionLimit
	}

	friendIDs, err := s.repo.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(friendIDs) == 0 {
		return []*SuggestionResponse{}, nil
	}

	friendSet := make(map[uuid.UUID]bool, len(friendIDs))
	for _, id := range friendIDs {
		friendSet[id] = true
	}

	// One batched query for every accepted edge touching the friend
	// set; the second hop is counted in memory.
	pairs, err := s.repo.ListAcceptedEdgesTouching(ctx, friendIDs)
	if err != nil {
		return nil, err
	}

	mutuals := make(map[uuid.UUID]int)
	for _, p := range pairs {
		if friendSet[p.RequesterID] && !friendSet[p.AddresseeID] && p.AddresseeID != userID {
			mutuals[p.AddresseeID]++
		}
		if friendSet[p.AddresseeID] && !friendSet[p.RequesterID] && p.RequesterID != userID {
			mutuals[p.RequesterID]++
		}
	}
	if len(mutuals) == 0 {
		return []*SuggestionResponse{}, nil
	}

	// Anyone userID ever exchanged a request with is off the table,
	// whatever came of it.
	relatedIDs, err := s.repo.ListRelatedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, id := range relatedIDs {
		delete(mutuals, id)
	}

	candidates := make([]uuid.UUID, 0, len(mutuals))
	for id := range mutuals {
		candidates = append(candidates, id)
	}
	// Cap on id order, not map order, so reruns see the same set
	sort.Slice(candidates, func(i, j int) bool {
		return bytes.Compare(candidates[i][:], candidates[j][:]) < 0
	})
	if len(candidates) > s.candidateCap {
		candidates = candidates[:s.candidateCap]
	}

	pendingOut, err := s.repo.ListPendingOutgoing(ctx, userID, candidates)
	if err != nil {
		return nil, err
	}
	pendingSet := make(map[uuid.UUID]bool, len(pendingOut))
	for _, id := range pendingOut {
		pendingSet[id] = true
	}

	summaries, err := s.directory.GetSummariesByIDs(ctx, candidates)
	if err != nil {
		return nil, err
	}

	out := make([]*SuggestionResponse, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, &SuggestionResponse{
			UserID:            sum.ID,
			Username:          sum.Username,
			DisplayName:       sum.DisplayName,
			AvatarURL:         sum.AvatarURL,
			MutualFriendCount: mutuals[sum.ID],
			HasPendingRequest: pendingSet[sum.ID],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MutualFriendCount != out[j].MutualFriendCount {
			return out[i].MutualFriendCount > out[j].MutualFriendCount
		}
		return bytes.Compare(out[i].UserID[:], out[j].UserID[:]) < 0
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
