package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/repository"
)

const newsColumns = `id, title, slug, summary, body, body_html, image_url, category,
author_id, published, approved, approved_at, created_at, updated_at`

type NewsRepo struct {
	approvalTable
	db *sql.DB
}

func NewNewsRepo(db *sql.DB) repository.NewsRepository {
	return &NewsRepo{approvalTable: approvalTable{db: db, table: "news"}, db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNews(s rowScanner) (*entity.News, error) {
	var (
		n    entity.News
		cols approvalColumns
	)
	if err := s.Scan(&n.ID, &n.Title, &n.Slug, &n.Summary, &n.Body, &n.BodyHTML, &n.ImageURL, &n.Category,
		&n.AuthorID, &n.Published, &cols.approved, &cols.approvedAt, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	cols.apply(&n.Approval)
	return &n, nil
}

func (repo *NewsRepo) Get(ctx context.Context, id int64) (*entity.News, error) {
	const query = `SELECT ` + newsColumns + ` FROM news WHERE id = $1`
	n, err := scanNews(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return n, nil
}

func (repo *NewsRepo) List(ctx context.Context, filter repository.ContentFilter) ([]*entity.News, error) {
	where, args, err := contentWhere(filter)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	query := `SELECT ` + newsColumns + ` FROM news ` + where + ` ORDER BY created_at DESC, id DESC`
	return repo.query(ctx, "List", query, args...)
}

func (repo *NewsRepo) ListPublishedPaginated(ctx context.Context, offset, limit int) ([]*entity.News, error) {
	const query = `SELECT ` + newsColumns + ` FROM news
WHERE published AND approved = TRUE
ORDER BY approved_at DESC, id DESC
LIMIT $1 OFFSET $2`
	return repo.query(ctx, "ListPublishedPaginated", query, limit, offset)
}

func (repo *NewsRepo) CountPublished(ctx context.Context) (int64, error) {
	return repo.countPublished(ctx)
}

func (repo *NewsRepo) Create(ctx context.Context, n *entity.News) error {
	const query = `
INSERT INTO news (title, slug, summary, body, body_html, image_url, category,
                  author_id, published, approved, approved_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		n.Title, n.Slug, n.Summary, n.Body, n.BodyHTML, n.ImageURL, n.Category,
		n.AuthorID, n.Published, nullBool(n.Approved), nullTime(n.ApprovedAt), n.CreatedAt, n.UpdatedAt,
	).Scan(&n.ID)
	if err != nil {
		return mapConstraintErr("Create", err)
	}
	return nil
}

func (repo *NewsRepo) Update(ctx context.Context, n *entity.News) error {
	const query = `
UPDATE news
SET title = $1, slug = $2, summary = $3, body = $4, body_html = $5, image_url = $6, category = $7,
    published = $8, approved = $9, approved_at = $10, updated_at = $11
WHERE id = $12`
	res, err := repo.db.ExecContext(ctx, query,
		n.Title, n.Slug, n.Summary, n.Body, n.BodyHTML, n.ImageURL, n.Category,
		n.Published, nullBool(n.Approved), nullTime(n.ApprovedAt), n.UpdatedAt, n.ID)
	if err != nil {
		return mapConstraintErr("Update", err)
	}
	return requireRow(res, "Update")
}

func (repo *NewsRepo) Delete(ctx context.Context, id int64) error {
	return repo.delete(ctx, id)
}

func (repo *NewsRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.News, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*entity.News, 0, 32)
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
