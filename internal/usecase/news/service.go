package news

import (
	"context"
	"fmt"
	"time"

	"brazucas-cork/internal/common/pagination"
	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/observability/metrics"
	"brazucas-cork/internal/pkg/markup"
	"brazucas-cork/internal/repository"
	"brazucas-cork/internal/usecase/author"
	"brazucas-cork/internal/usecase/moderation"
)

// excerptRunes bounds the summary generated from the body. It stays under
// entity.MaxSummaryLength so a generated summary always validates.
const excerptRunes = 280

// CreateInput holds the author-controlled fields of a new post.
// Published=true submits the post for review right away.
type CreateInput struct {
	Title     string
	Summary   string
	Body      string
	ImageURL  string
	Category  string
	Published bool
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	ID        int64
	Title     *string
	Summary   *string
	Body      *string
	ImageURL  *string
	Category  *string
	Published *bool
}

func (in UpdateInput) changesContent() bool {
	return in.Title != nil || in.Summary != nil || in.Body != nil || in.ImageURL != nil || in.Category != nil
}

// Item is a post annotated with its author's nickname.
type Item struct {
	entity.News
	AuthorNickname string
}

// PaginatedResult is one page of published posts.
type PaginatedResult struct {
	Data       []Item
	Pagination pagination.Metadata
}

// Service provides news use cases.
type Service struct {
	Repo    repository.NewsRepository
	Authors *author.Resolver
	// Tracker is told about every status change. Optional.
	Tracker moderation.Tracker
	// Now defaults to time.Now.
	Now func() time.Time
}

// Create stores a new post owned by the caller, with no admin decision.
func (s *Service) Create(ctx context.Context, p entity.Principal, in CreateInput) (*Item, error) {
	if err := entity.Authorize(p, entity.ActionCreate, 0).Err(); err != nil {
		return nil, err
	}

	now := s.now()
	n := &entity.News{
		Title:     in.Title,
		Summary:   in.Summary,
		Body:      in.Body,
		ImageURL:  in.ImageURL,
		Category:  in.Category,
		Approval:  entity.Approval{AuthorID: p.ID, Published: in.Published},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := render(n); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create news: %w", err)
	}
	metrics.RecordContentCreated(entity.KindNews)
	s.track(ctx, n, "", p.ID)

	return &s.enrich(ctx, []*entity.News{n})[0], nil
}

// Get returns a post. Published posts are visible to everyone; any other
// post only to its owner and admins, and otherwise reads as not found.
func (s *Service) Get(ctx context.Context, p entity.Principal, id int64) (*Item, error) {
	n, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status() != entity.StatusPublished && !entity.Authorize(p, entity.ActionRead, n.AuthorID).Allowed {
		return nil, ErrNewsNotFound
	}
	return &s.enrich(ctx, []*entity.News{n})[0], nil
}

// ListAll returns every post regardless of status. Admin only.
func (s *Service) ListAll(ctx context.Context, p entity.Principal) ([]Item, error) {
	if err := entity.Authorize(p, entity.ActionListAll, 0).Err(); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.ContentFilter{})
}

// ListByStatus returns the posts in one derived status. Admin only.
func (s *Service) ListByStatus(ctx context.Context, p entity.Principal, status entity.Status) ([]Item, error) {
	action := entity.ActionListAll
	if status == entity.StatusPendingApproval {
		action = entity.ActionListPending
	}
	if err := entity.Authorize(p, action, 0).Err(); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.ContentFilter{Status: status})
}

// ListPending returns the posts awaiting a decision. Admin only.
func (s *Service) ListPending(ctx context.Context, p entity.Principal) ([]Item, error) {
	return s.ListByStatus(ctx, p, entity.StatusPendingApproval)
}

// ListPublished returns every publicly visible post.
func (s *Service) ListPublished(ctx context.Context) ([]Item, error) {
	return s.list(ctx, repository.ContentFilter{Status: entity.StatusPublished})
}

// ListPublishedPage returns one page of publicly visible posts, newest
// approval first.
func (s *Service) ListPublishedPage(ctx context.Context, params pagination.Params) (*PaginatedResult, error) {
	var strategy pagination.OffsetStrategy
	q := strategy.CalculateQuery(params)

	total, err := s.Repo.CountPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("count published news: %w", err)
	}

	posts, err := s.Repo.ListPublishedPaginated(ctx, q.Offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list published news paginated: %w", err)
	}

	return &PaginatedResult{
		Data:       s.enrich(ctx, posts),
		Pagination: strategy.BuildMetadata(params, total),
	}, nil
}

// ListMine returns the caller's own posts in every status.
func (s *Service) ListMine(ctx context.Context, p entity.Principal) ([]Item, error) {
	if p.Anonymous() {
		return nil, entity.ErrUnauthorized
	}
	return s.list(ctx, repository.ContentFilter{AuthorID: p.ID})
}

// Update merges in into the post. Owners and admins only.
//
// When a non-admin owner changes any content field of a post that already
// carries an admin decision, the decision is cleared so the new content
// goes through review again. Toggling Published alone keeps the decision.
// A summary generated from the old body is regenerated when the body changes.
func (s *Service) Update(ctx context.Context, p entity.Principal, in UpdateInput) (*Item, error) {
	n, err := s.load(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := entity.Authorize(p, entity.ActionEdit, n.AuthorID).Err(); err != nil {
		return nil, err
	}

	from := n.Status()
	derived := n.Summary == markup.Excerpt(n.BodyHTML, excerptRunes)
	if in.Title != nil {
		n.Title = *in.Title
	}
	if in.Summary != nil {
		n.Summary = *in.Summary
	}
	if in.Body != nil {
		n.Body = *in.Body
		if in.Summary == nil && derived {
			n.Summary = ""
		}
	}
	if in.ImageURL != nil {
		n.ImageURL = *in.ImageURL
	}
	if in.Category != nil {
		n.Category = *in.Category
	}
	if in.Published != nil {
		n.Published = *in.Published
	}
	if err := render(n); err != nil {
		return nil, err
	}

	if in.changesContent() && !p.IsAdmin() && n.Approved != nil {
		n.ResetApproval()
	}
	n.UpdatedAt = s.now()

	if err := s.Repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("update news: %w", err)
	}
	s.track(ctx, n, from, p.ID)

	return &s.enrich(ctx, []*entity.News{n})[0], nil
}

// Delete removes a post. Owners and admins only.
func (s *Service) Delete(ctx context.Context, p entity.Principal, id int64) error {
	n, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := entity.Authorize(p, entity.ActionDelete, n.AuthorID).Err(); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*entity.News, error) {
	if id <= 0 {
		return nil, ErrInvalidNewsID
	}
	n, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	if n == nil {
		return nil, ErrNewsNotFound
	}
	return n, nil
}

func (s *Service) list(ctx context.Context, filter repository.ContentFilter) ([]Item, error) {
	posts, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return s.enrich(ctx, posts), nil
}

func (s *Service) enrich(ctx context.Context, posts []*entity.News) []Item {
	ids := make([]int64, len(posts))
	for i, n := range posts {
		ids[i] = n.AuthorID
	}
	nicks := s.Authors.Nicknames(ctx, ids)

	items := make([]Item, len(posts))
	for i, n := range posts {
		items[i] = Item{News: *n, AuthorNickname: nicks[n.AuthorID]}
	}
	return items
}

func (s *Service) track(ctx context.Context, n *entity.News, from entity.Status, actorID int64) {
	if s.Tracker == nil {
		return
	}
	s.Tracker.Track(ctx, moderation.Change{
		Kind:     entity.KindNews,
		ID:       n.ID,
		Title:    n.Title,
		AuthorID: n.AuthorID,
		From:     from,
		To:       n.Status(),
		ActorID:  actorID,
	})
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// render validates the author fields and fills the derived ones.
func render(n *entity.News) error {
	if err := n.Validate(); err != nil {
		return err
	}
	html, err := markup.RenderMarkdown(n.Body)
	if err != nil {
		return &entity.ValidationError{Field: "body", Message: "could not be rendered"}
	}
	n.BodyHTML = html
	n.Slug = markup.Slugify(n.Title)
	if n.Summary == "" {
		n.Summary = markup.Excerpt(html, excerptRunes)
	}
	return nil
}
