// Package moderation applies the content status transitions: authors submit
// items for review and admins approve or reject them. Every transition that
// changes the derived status is written to the status history and, when an
// item enters review, announced to the admins.
package moderation

import (
	"errors"
	"fmt"

	"brazucas-cork/internal/domain/entity"
)

var (
	// ErrItemNotFound indicates that the content item does not exist.
	ErrItemNotFound = fmt.Errorf("content item: %w", entity.ErrNotFound)

	// ErrUnknownKind indicates a content kind without a registered store.
	ErrUnknownKind = &entity.ValidationError{Field: "kind", Message: "unknown content kind"}

	// ErrInvalidID indicates a non-positive id.
	ErrInvalidID = &entity.ValidationError{Field: "id", Message: "must be positive"}

	errNoStore = errors.New("no store configured")
)
