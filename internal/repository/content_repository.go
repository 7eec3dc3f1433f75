package repository

import (
	"context"
	"time"

	"brazucas-cork/internal/domain/entity"
)

// ContentFilter narrows a content listing. Zero values disable a condition.
type ContentFilter struct {
	// AuthorID restricts results to one owner.
	AuthorID int64
	// Status restricts results to items whose derived status matches.
	// The repositories translate it into the equivalent column predicate.
	Status entity.Status
}

// ModerationItem is the kind-neutral view of a content item used by moderation.
type ModerationItem struct {
	ID    int64
	Title string
	entity.Approval
}

// ApprovalStore is the slice of a content repository used by moderation.
// Both NewsRepository and AdRepository satisfy it.
type ApprovalStore interface {
	// GetForModeration returns the moderation view of an item, or (nil, nil)
	// when the item does not exist.
	GetForModeration(ctx context.Context, id int64) (*ModerationItem, error)
	// SetPublished updates the published flag only.
	SetPublished(ctx context.Context, id int64, published bool) error
	// SetDecision stores an admin decision and its timestamp.
	SetDecision(ctx context.Context, id int64, approved bool, at time.Time) error
	// CountByStatus returns the number of items per derived status.
	CountByStatus(ctx context.Context) (map[entity.Status]int64, error)
}

type NewsRepository interface {
	ApprovalStore
	// Get returns (nil, nil) when no row matches.
	Get(ctx context.Context, id int64) (*entity.News, error)
	List(ctx context.Context, filter ContentFilter) ([]*entity.News, error)
	// ListPublishedPaginated returns published items ordered by approval time,
	// newest first.
	ListPublishedPaginated(ctx context.Context, offset, limit int) ([]*entity.News, error)
	CountPublished(ctx context.Context) (int64, error)
	Create(ctx context.Context, n *entity.News) error
	Update(ctx context.Context, n *entity.News) error
	Delete(ctx context.Context, id int64) error
}

type AdRepository interface {
	ApprovalStore
	// Get returns (nil, nil) when no row matches.
	Get(ctx context.Context, id int64) (*entity.Ad, error)
	List(ctx context.Context, filter ContentFilter) ([]*entity.Ad, error)
	ListPublishedPaginated(ctx context.Context, offset, limit int) ([]*entity.Ad, error)
	CountPublished(ctx context.Context) (int64, error)
	Create(ctx context.Context, a *entity.Ad) error
	Update(ctx context.Context, a *entity.Ad) error
	Delete(ctx context.Context, id int64) error
}
