package repository

import (
	"context"

	"brazucas-cork/internal/domain/entity"
)

type UserRepository interface {
	// Get returns (nil, nil) when no row matches.
	Get(ctx context.Context, id int64) (*entity.User, error)
	// GetByEmail returns (nil, nil) when no row matches. Matching is case-insensitive.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Nicknames resolves many ids in one query. Unknown ids are absent from the map.
	Nicknames(ctx context.Context, ids []int64) (map[int64]string, error)
	List(ctx context.Context) ([]*entity.User, error)
	// Create returns entity.ErrConflict when the email or nickname is taken.
	Create(ctx context.Context, u *entity.User) error
	UpdateRole(ctx context.Context, id int64, role entity.Role) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
}
