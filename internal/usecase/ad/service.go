package ad

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brazucas-cork/internal/common/pagination"
	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/observability/metrics"
	"brazucas-cork/internal/pkg/markup"
	"brazucas-cork/internal/repository"
	"brazucas-cork/internal/usecase/author"
	"brazucas-cork/internal/usecase/moderation"
)

// CreateInput holds the author-controlled fields of a new ad.
// Description may contain basic HTML; it is sanitized before storage.
type CreateInput struct {
	Title        string
	Description  string
	Category     string
	Price        string
	ContactEmail string
	ContactPhone string
	WebsiteURL   string
	ImageURL     string
	Location     string
	Published    bool
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	ID           int64
	Title        *string
	Description  *string
	Category     *string
	Price        *string
	ContactEmail *string
	ContactPhone *string
	WebsiteURL   *string
	ImageURL     *string
	Location     *string
	Published    *bool
}

func (in UpdateInput) changesContent() bool {
	for _, f := range []*string{in.Title, in.Description, in.Category, in.Price,
		in.ContactEmail, in.ContactPhone, in.WebsiteURL, in.ImageURL, in.Location} {
		if f != nil {
			return true
		}
	}
	return false
}

// Item is an ad annotated with its author's nickname.
type Item struct {
	entity.Ad
	AuthorNickname string
}

// PaginatedResult is one page of published ads.
type PaginatedResult struct {
	Data       []Item
	Pagination pagination.Metadata
}

// Service provides advertisement use cases.
type Service struct {
	Repo    repository.AdRepository
	Authors *author.Resolver
	Tracker moderation.Tracker
	Now     func() time.Time
}

// Create stores a new ad owned by the caller, with no admin decision.
func (s *Service) Create(ctx context.Context, p entity.Principal, in CreateInput) (*Item, error) {
	if err := entity.Authorize(p, entity.ActionCreate, 0).Err(); err != nil {
		return nil, err
	}

	now := s.now()
	a := &entity.Ad{
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Price:        in.Price,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		WebsiteURL:   in.WebsiteURL,
		ImageURL:     in.ImageURL,
		Location:     in.Location,
		Approval:     entity.Approval{AuthorID: p.ID, Published: in.Published},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := clean(a); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create ad: %w", err)
	}
	metrics.RecordContentCreated(entity.KindAd)
	s.track(ctx, a, "", p.ID)

	return &s.enrich(ctx, []*entity.Ad{a})[0], nil
}

// Get returns an ad. Published ads are visible to everyone; any other ad
// only to its owner and admins, and otherwise reads as not found.
func (s *Service) Get(ctx context.Context, p entity.Principal, id int64) (*Item, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status() != entity.StatusPublished && !entity.Authorize(p, entity.ActionRead, a.AuthorID).Allowed {
		return nil, ErrAdNotFound
	}
	return &s.enrich(ctx, []*entity.Ad{a})[0], nil
}

// ListAll returns every ad regardless of status. Admin only.
func (s *Service) ListAll(ctx context.Context, p entity.Principal) ([]Item, error) {
	if err := entity.Authorize(p, entity.ActionListAll, 0).Err(); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.ContentFilter{})
}

// ListByStatus returns the ads in one derived status. Admin only.
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

// ListPending returns the ads awaiting a decision. Admin only.
func (s *Service) ListPending(ctx context.Context, p entity.Principal) ([]Item, error) {
	return s.ListByStatus(ctx, p, entity.StatusPendingApproval)
}

// ListPublished returns every publicly visible ad.
func (s *Service) ListPublished(ctx context.Context) ([]Item, error) {
	return s.list(ctx, repository.ContentFilter{Status: entity.StatusPublished})
}

// ListPublishedPage returns one page of publicly visible ads.
func (s *Service) ListPublishedPage(ctx context.Context, params pagination.Params) (*PaginatedResult, error) {
	var strategy pagination.OffsetStrategy
	q := strategy.CalculateQuery(params)

	total, err := s.Repo.CountPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("count published ads: %w", err)
	}
	ads, err := s.Repo.ListPublishedPaginated(ctx, q.Offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list published ads paginated: %w", err)
	}

	return &PaginatedResult{
		Data:       s.enrich(ctx, ads),
		Pagination: strategy.BuildMetadata(params, total),
	}, nil
}

// ListMine returns the caller's own ads in every status.
func (s *Service) ListMine(ctx context.Context, p entity.Principal) ([]Item, error) {
	if p.Anonymous() {
		return nil, entity.ErrUnauthorized
	}
	return s.list(ctx, repository.ContentFilter{AuthorID: p.ID})
}

// Update merges in into the ad. Owners and admins only. A non-admin
// content edit clears an existing admin decision, as for news posts.
func (s *Service) Update(ctx context.Context, p entity.Principal, in UpdateInput) (*Item, error) {
	a, err := s.load(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := entity.Authorize(p, entity.ActionEdit, a.AuthorID).Err(); err != nil {
		return nil, err
	}

	from := a.Status()
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&a.Title, in.Title)
	set(&a.Description, in.Description)
	set(&a.Category, in.Category)
	set(&a.Price, in.Price)
	set(&a.ContactEmail, in.ContactEmail)
	set(&a.ContactPhone, in.ContactPhone)
	set(&a.WebsiteURL, in.WebsiteURL)
	set(&a.ImageURL, in.ImageURL)
	set(&a.Location, in.Location)
	if in.Published != nil {
		a.Published = *in.Published
	}
	if err := clean(a); err != nil {
		return nil, err
	}

	if in.changesContent() && !p.IsAdmin() && a.Approved != nil {
		a.ResetApproval()
	}
	a.UpdatedAt = s.now()

	if err := s.Repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update ad: %w", err)
	}
	s.track(ctx, a, from, p.ID)

	return &s.enrich(ctx, []*entity.Ad{a})[0], nil
}

// Delete removes an ad. Owners and admins only.
func (s *Service) Delete(ctx context.Context, p entity.Principal, id int64) error {
	a, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := entity.Authorize(p, entity.ActionDelete, a.AuthorID).Err(); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete ad: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*entity.Ad, error) {
	if id <= 0 {
		return nil, ErrInvalidAdID
	}
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ad: %w", err)
	}
	if a == nil {
		return nil, ErrAdNotFound
	}
	return a, nil
}

func (s *Service) list(ctx context.Context, filter repository.ContentFilter) ([]Item, error) {
	ads, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	return s.enrich(ctx, ads), nil
}

func (s *Service) enrich(ctx context.Context, ads []*entity.Ad) []Item {
	ids := make([]int64, len(ads))
	for i, a := range ads {
		ids[i] = a.AuthorID
	}
	nicks := s.Authors.Nicknames(ctx, ids)

	items := make([]Item, len(ads))
	for i, a := range ads {
		items[i] = Item{Ad: *a, AuthorNickname: nicks[a.AuthorID]}
	}
	return items
}

func (s *Service) track(ctx context.Context, a *entity.Ad, from entity.Status, actorID int64) {
	if s.Tracker == nil {
		return
	}
	s.Tracker.Track(ctx, moderation.Change{
		Kind:     entity.KindAd,
		ID:       a.ID,
		Title:    a.Title,
		AuthorID: a.AuthorID,
		From:     from,
		To:       a.Status(),
		ActorID:  actorID,
	})
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// clean normalizes and validates the author fields.
func clean(a *entity.Ad) error {
	a.Description = strings.TrimSpace(markup.SanitizeHTML(a.Description))
	a.ContactEmail = strings.ToLower(strings.TrimSpace(a.ContactEmail))
	a.ContactPhone = strings.TrimSpace(a.ContactPhone)
	return a.Validate()
}
