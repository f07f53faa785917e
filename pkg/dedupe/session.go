package dedupe

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/openshelf/openshelf/pkg/bib"
	"github.com/openshelf/openshelf/pkg/errors"
	"github.com/openshelf/openshelf/pkg/logging"
	"github.com/openshelf/openshelf/pkg/store"
)

// Decision is the review outcome recorded for one duplicate group.
type Decision string

// Group decisions. Pending is the only state a group can leave; the other
// three are terminal.
const (
	DecisionPending       Decision = "pending"
	DecisionMerged        Decision = "merged"
	DecisionSkipped       Decision = "skipped"
	DecisionNotDuplicates Decision = "not-duplicates"
)

// State is the derived position of a whole session.
type State string

// Session states. A session is complete once no group is pending.
const (
	StateReviewing State = "reviewing"
	StateComplete  State = "complete"
)

// Merger executes a single-group merge against the remote store.
// *store.Client satisfies it.
type Merger interface {
	MergeDuplicates(ctx context.Context, keepID string, deleteIDs []string) (*store.MergeResult, error)
}

// GroupReview is the review state of one group inside a session.
type GroupReview struct {
	Group    bib.DuplicateGroup
	Decision Decision
	Keep     map[string]bool // item IDs marked to survive a merge
	LastErr  string          // message from the most recent failed merge
}

// KeptIDs returns the kept item IDs in group member order.
func (r *GroupReview) KeptIDs() []string {
	ids := make([]string, 0, len(r.Keep))
	for _, item := range r.Group.Items {
		if r.Keep[item.ID] {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// Session walks a reviewer through duplicate groups one at a time. All
// methods are safe for concurrent use, but a merge in flight blocks other
// mutations with ErrTransitionInFlight rather than queueing them.
type Session struct {
	id     string
	merger Merger

	mu      sync.Mutex
	busy    bool
	groups  []*GroupReview
	cursor  int
	deleted int
}

// NewSession seeds a review session over the given groups. Every group
// starts pending with the oldest member marked to keep.
func NewSession(merger Merger, groups []bib.DuplicateGroup) (*Session, error) {
	if merger == nil {
		return nil, &errors.ValidationError{Field: "merger", Message: "merger is required"}
	}
	if len(groups) == 0 {
		return nil, &errors.ValidationError{Field: "groups", Message: "at least one duplicate group is required"}
	}
	s := &Session{
		id:     uuid.NewString(),
		merger: merger,
		groups: make([]*GroupReview, 0, len(groups)),
	}
	for _, g := range groups {
		review := &GroupReview{
			Group:    g,
			Decision: DecisionPending,
			Keep:     map[string]bool{},
		}
		if len(g.Items) > 0 {
			review.Keep[g.Items[g.OldestItem()].ID] = true
		}
		s.groups = append(s.groups, review)
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Len returns the number of groups under review.
func (s *Session) Len() int { return len(s.groups) }

// State reports reviewing while any group is pending, complete otherwise.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingLocked() == 0 {
		return StateComplete
	}
	return StateReviewing
}

// Progress returns how many groups are decided out of the total.
func (s *Session) Progress() (decided, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.groups) - s.pendingLocked(), len(s.groups)
}

// DeletedCount returns the running total of items removed by merges in
// this session.
func (s *Session) DeletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleted
}

// Current returns a copy of the group under the cursor and its index.
func (s *Session) Current() (GroupReview, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.groups[s.cursor]), s.cursor
}

// Goto moves the cursor to the given group index.
func (s *Session) Goto(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return errors.ErrTransitionInFlight
	}
	if index < 0 || index >= len(s.groups) {
		return &errors.ValidationError{Field: "index", Value: index, Message: "group index out of range"}
	}
	s.cursor = index
	return nil
}

// ToggleKeep flips the keep mark on one member of the current group. The
// keep set can never go empty: unmarking the last kept item is rejected.
func (s *Session) ToggleKeep(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return errors.ErrTransitionInFlight
	}
	review := s.groups[s.cursor]
	if review.Decision != DecisionPending {
		return &errors.ValidationError{Field: "decision", Value: review.Decision, Message: "group already decided"}
	}
	found := false
	for _, item := range review.Group.Items {
		if item.ID == itemID {
			found = true
			break
		}
	}
	if !found {
		return &errors.ValidationError{Field: "item_id", Value: itemID, Message: "item is not in the current group"}
	}
	if review.Keep[itemID] && len(review.KeptIDs()) == 1 {
		return &errors.ValidationError{Field: "item_id", Value: itemID, Message: "at least one item must be kept"}
	}
	review.Keep[itemID] = !review.Keep[itemID]
	return nil
}

// Skip marks the current group skipped and advances to the next pending
// group.
func (s *Session) Skip() error {
	return s.decide(DecisionSkipped)
}

// NotDuplicates marks the current group's members as distinct works and
// advances to the next pending group.
func (s *Session) NotDuplicates() error {
	return s.decide(DecisionNotDuplicates)
}

func (s *Session) decide(decision Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return errors.ErrTransitionInFlight
	}
	review := s.groups[s.cursor]
	if review.Decision != DecisionPending {
		return &errors.ValidationError{Field: "decision", Value: review.Decision, Message: "group already decided"}
	}
	review.Decision = decision
	s.advanceLocked()
	return nil
}

// Merge deletes the unkept members of the current group, keeping the
// first kept item as the survivor. A store failure leaves the group
// pending with the error recorded, so the reviewer can retry or skip.
func (s *Session) Merge(ctx context.Context) (*store.MergeResult, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, errors.ErrTransitionInFlight
	}
	review := s.groups[s.cursor]
	if review.Decision != DecisionPending {
		s.mu.Unlock()
		return nil, &errors.ValidationError{Field: "decision", Value: review.Decision, Message: "group already decided"}
	}
	kept := review.KeptIDs()
	deleteIDs := make([]string, 0, len(review.Group.Items))
	for _, item := range review.Group.Items {
		if !review.Keep[item.ID] {
			deleteIDs = append(deleteIDs, item.ID)
		}
	}
	if len(kept) == 0 {
		s.mu.Unlock()
		return nil, &errors.ValidationError{Field: "keep", Message: "at least one item must be kept"}
	}
	if len(deleteIDs) == 0 {
		s.mu.Unlock()
		return nil, &errors.ValidationError{Field: "keep", Message: "every item is kept; nothing to merge"}
	}
	s.busy = true
	s.mu.Unlock()

	// Store call happens outside the lock; reads stay live while the
	// merge is in flight, other mutations bounce off busy.
	result, err := s.merger.MergeDuplicates(ctx, kept[0], deleteIDs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		review.LastErr = err.Error()
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("session", s.id).
			Str("group", review.Group.GroupKey).
			Msg("Merge failed; group stays pending")
		return nil, &errors.MergeError{
			KeepID:    kept[0],
			DeleteIDs: deleteIDs,
			Message:   "merge failed",
			Err:       err,
		}
	}
	// Tolerate mergers that report success without a result payload.
	if result == nil {
		result = &store.MergeResult{}
	}
	review.LastErr = ""
	review.Decision = DecisionMerged
	s.deleted += result.DeletedCount
	s.advanceLocked()
	logging.Ctx(ctx).Info().
		Str("session", s.id).
		Str("group", review.Group.GroupKey).
		Str("kept", kept[0]).
		Int("deleted", result.DeletedCount).
		Msg("Merged duplicate group")
	return result, nil
}

// advanceLocked moves the cursor forward to the next pending group,
// wrapping around once. The cursor stays put when nothing is pending.
func (s *Session) advanceLocked() {
	n := len(s.groups)
	for offset := 1; offset <= n; offset++ {
		i := (s.cursor + offset) % n
		if s.groups[i].Decision == DecisionPending {
			s.cursor = i
			return
		}
	}
}

func (s *Session) pendingLocked() int {
	pending := 0
	for _, review := range s.groups {
		if review.Decision == DecisionPending {
			pending++
		}
	}
	return pending
}

func snapshot(review *GroupReview) GroupReview {
	out := *review
	out.Keep = make(map[string]bool, len(review.Keep))
	for id, kept := range review.Keep {
		out.Keep[id] = kept
	}
	return out
}
