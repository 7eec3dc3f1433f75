package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/observability/metrics"
	"brazucas-cork/internal/repository"
	"brazucas-cork/internal/usecase/author"
	"brazucas-cork/internal/usecase/notify"

	"golang.org/x/sync/errgroup"
)

// Announcer is told about items entering review. notify.Service satisfies it.
type Announcer interface {
	AnnouncePending(ctx context.Context, item notify.PendingItem)
}

// Change describes a status change of one content item.
type Change struct {
	Kind     entity.Kind
	ID       int64
	Title    string
	AuthorID int64
	From     entity.Status
	To       entity.Status
	ActorID  int64
}

// Tracker observes status changes made outside this package, such as a
// content service creating an item directly in review.
type Tracker interface {
	Track(ctx context.Context, c Change)
}

// Outcome is the state of an item after a transition.
type Outcome struct {
	Kind       entity.Kind   `json:"kind"`
	ID         int64         `json:"id"`
	Status     entity.Status `json:"status"`
	Published  bool          `json:"published"`
	Approved   *bool         `json:"approved"`
	ApprovedAt *time.Time    `json:"approvedAt,omitempty"`
}

// Service implements the status transitions.
type Service struct {
	Stores    map[entity.Kind]repository.ApprovalStore
	Audit     repository.StatusHistoryRepository
	Announcer Announcer
	Authors   *author.Resolver
	Logger    *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *Service) store(kind entity.Kind) (repository.ApprovalStore, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	st, ok := s.Stores[kind]
	if !ok || st == nil {
		return nil, fmt.Errorf("%s: %w", kind, errNoStore)
	}
	return st, nil
}

func (s *Service) load(ctx context.Context, kind entity.Kind, id int64) (repository.ApprovalStore, *repository.ModerationItem, error) {
	if id <= 0 {
		return nil, nil, ErrInvalidID
	}
	st, err := s.store(kind)
	if err != nil {
		return nil, nil, err
	}
	item, err := st.GetForModeration(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get %s: %w", kind, err)
	}
	if item == nil {
		return nil, nil, ErrItemNotFound
	}
	return st, item, nil
}

// SubmitForReview sets published=true on an item owned by the caller (or
// any item for admins). The approval decision is left as is, so new and
// reset items become pending_approval.
func (s *Service) SubmitForReview(ctx context.Context, p entity.Principal, kind entity.Kind, id int64) (*Outcome, error) {
	st, item, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := entity.Authorize(p, entity.ActionSubmit, item.AuthorID).Err(); err != nil {
		return nil, err
	}

	from := item.Status()
	if !item.Published {
		if err := st.SetPublished(ctx, id, true); err != nil {
			return nil, fmt.Errorf("submit %s: %w", kind, err)
		}
		item.Submit()
	}

	s.Track(ctx, Change{Kind: kind, ID: id, Title: item.Title, AuthorID: item.AuthorID, From: from, To: item.Status(), ActorID: p.ID})
	return outcome(kind, item), nil
}

// Approve marks an item approved. Approving an approved item refreshes
// approvedAt. Approval alone does not make a draft visible.
func (s *Service) Approve(ctx context.Context, p entity.Principal, kind entity.Kind, id int64) (*Outcome, error) {
	return s.Decide(ctx, p, kind, id, true)
}

// Reject marks an item rejected regardless of its published flag.
func (s *Service) Reject(ctx context.Context, p entity.Principal, kind entity.Kind, id int64) (*Outcome, error) {
	return s.Decide(ctx, p, kind, id, false)
}

// Decide records an admin decision. Only admins may decide.
func (s *Service) Decide(ctx context.Context, p entity.Principal, kind entity.Kind, id int64, approved bool) (*Outcome, error) {
	if err := entity.Authorize(p, entity.ActionModerate, 0).Err(); err != nil {
		return nil, err
	}
	st, item, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	from := item.Status()
	at := s.now()
	if err := st.SetDecision(ctx, id, approved, at); err != nil {
		return nil, fmt.Errorf("decide %s: %w", kind, err)
	}
	item.Decide(approved, at)
	metrics.RecordModerationDecision(kind, approved)

	s.Track(ctx, Change{Kind: kind, ID: id, Title: item.Title, AuthorID: item.AuthorID, From: from, To: item.Status(), ActorID: p.ID})
	return outcome(kind, item), nil
}

// History lists the recorded status changes of an item. Admin only.
func (s *Service) History(ctx context.Context, p entity.Principal, kind entity.Kind, id int64) ([]*entity.StatusChange, error) {
	if err := entity.Authorize(p, entity.ActionModerate, 0).Err(); err != nil {
		return nil, err
	}
	if _, _, err := s.load(ctx, kind, id); err != nil {
		return nil, err
	}
	changes, err := s.Audit.List(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return changes, nil
}

// StatusCounts returns item counts per kind and status, querying every
// kind concurrently.
func (s *Service) StatusCounts(ctx context.Context) (map[entity.Kind]map[entity.Status]int64, error) {
	kinds := make([]entity.Kind, 0, len(s.Stores))
	for k := range s.Stores {
		kinds = append(kinds, k)
	}
	results := make([]map[entity.Status]int64, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, k := range kinds {
		g.Go(func() error {
			counts, err := s.Stores[k].CountByStatus(gctx)
			if err != nil {
				return fmt.Errorf("count %s: %w", k, err)
			}
			results[i] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[entity.Kind]map[entity.Status]int64, len(kinds))
	for i, k := range kinds {
		out[k] = results[i]
	}
	return out, nil
}

// PendingSummary returns the number of pending_approval items per kind.
func (s *Service) PendingSummary(ctx context.Context) (map[entity.Kind]int64, error) {
	counts, err := s.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[entity.Kind]int64, len(counts))
	for k, c := range counts {
		out[k] = c[entity.StatusPendingApproval]
	}
	return out, nil
}

// Track records a status change. History is an audit trail, so a failed
// write is logged and does not undo the transition. Entering
// pending_approval from another status announces the item to admins.
func (s *Service) Track(ctx context.Context, c Change) {
	if c.From == c.To {
		return
	}

	if s.Audit != nil {
		err := s.Audit.Append(ctx, &entity.StatusChange{
			Kind:      c.Kind,
			ContentID: c.ID,
			From:      c.From,
			To:        c.To,
			ActorID:   c.ActorID,
			CreatedAt: s.now(),
		})
		if err != nil {
			s.logger().Warn("status history append failed",
				slog.String("kind", string(c.Kind)),
				slog.Int64("id", c.ID),
				slog.Any("error", err))
		}
	}

	if c.To != entity.StatusPendingApproval {
		return
	}
	metrics.RecordSubmission(c.Kind)
	if s.Announcer == nil {
		return
	}
	nick := author.UnknownAuthor
	if s.Authors != nil {
		nick = s.Authors.Nickname(ctx, c.AuthorID)
	}
	s.Announcer.AnnouncePending(ctx, notify.PendingItem{Kind: c.Kind, ID: c.ID, Title: c.Title, Author: nick})
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func outcome(kind entity.Kind, item *repository.ModerationItem) *Outcome {
	return &Outcome{
		Kind:       kind,
		ID:         item.ID,
		Status:     item.Status(),
		Published:  item.Published,
		Approved:   item.Approved,
		ApprovedAt: item.ApprovedAt,
	}
}
