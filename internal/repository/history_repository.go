package repository

import (
	"context"

	"brazucas-cork/internal/domain/entity"
)

type StatusHistoryRepository interface {
	Append(ctx context.Context, change *entity.StatusChange) error
	// List returns entries for one item, oldest first.
	List(ctx context.Context, kind entity.Kind, contentID int64) ([]*entity.StatusChange, error)
}
