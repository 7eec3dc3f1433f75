package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/repository"
)

type StatusHistoryRepo struct {
	db *sql.DB
}

func NewStatusHistoryRepo(db *sql.DB) repository.StatusHistoryRepository {
	return &StatusHistoryRepo{db: db}
}

func (repo *StatusHistoryRepo) Append(ctx context.Context, c *entity.StatusChange) error {
	const query = `
INSERT INTO status_history (kind, content_id, from_status, to_status, actor_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		string(c.Kind), c.ContentID, string(c.From), string(c.To), c.ActorID, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("Append: %w", err)
	}
	return nil
}

func (repo *StatusHistoryRepo) List(ctx context.Context, kind entity.Kind, contentID int64) ([]*entity.StatusChange, error) {
	const query = `
SELECT id, kind, content_id, from_status, to_status, actor_id, created_at
FROM status_history
WHERE kind = $1 AND content_id = $2
ORDER BY created_at ASC, id ASC`
	rows, err := repo.db.QueryContext(ctx, query, string(kind), contentID)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.StatusChange
	for rows.Next() {
		var (
			c           entity.StatusChange
			k, from, to string
		)
		if err := rows.Scan(&c.ID, &k, &c.ContentID, &from, &to, &c.ActorID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		c.Kind, c.From, c.To = entity.Kind(k), entity.Status(from), entity.Status(to)
		out = append(out, &c)
	}
	return out, rows.Err()
}
