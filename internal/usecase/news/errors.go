// Package news provides the use cases for community news posts: authoring,
// listing by visibility and ownership-checked editing. Status changes are
// reported to a moderation.Tracker.
package news

import (
	"fmt"

	"brazucas-cork/internal/domain/entity"
)

var (
	// ErrNewsNotFound indicates that the post does not exist or is not
	// visible to the caller.
	ErrNewsNotFound = fmt.Errorf("news post: %w", entity.ErrNotFound)

	// ErrInvalidNewsID indicates a non-positive id.
	ErrInvalidNewsID = &entity.ValidationError{Field: "id", Message: "must be positive"}
)
