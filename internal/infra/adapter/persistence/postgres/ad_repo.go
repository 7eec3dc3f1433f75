package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/repository"
)

const adColumns = `id, title, description, category, price, contact_email, contact_phone, website_url,
image_url, location, author_id, published, approved, approved_at, created_at, updated_at`

type AdRepo struct {
	approvalTable
	db *sql.DB
}

func NewAdRepo(db *sql.DB) repository.AdRepository {
	return &AdRepo{approvalTable: approvalTable{db: db, table: "ads"}, db: db}
}

func scanAd(s rowScanner) (*entity.Ad, error) {
	var (
		a    entity.Ad
		cols approvalColumns
	)
	if err := s.Scan(&a.ID, &a.Title, &a.Description, &a.Category, &a.Price, &a.ContactEmail, &a.ContactPhone,
		&a.WebsiteURL, &a.ImageURL, &a.Location, &a.AuthorID, &a.Published, &cols.approved, &cols.approvedAt,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	cols.apply(&a.Approval)
	return &a, nil
}

func (repo *AdRepo) Get(ctx context.Context, id int64) (*entity.Ad, error) {
	const query = `SELECT ` + adColumns + ` FROM ads WHERE id = $1`
	a, err := scanAd(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return a, nil
}

func (repo *AdRepo) List(ctx context.Context, filter repository.ContentFilter) ([]*entity.Ad, error) {
	where, args, err := contentWhere(filter)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	query := `SELECT ` + adColumns + ` FROM ads ` + where + ` ORDER BY created_at DESC, id DESC`
	return repo.query(ctx, "List", query, args...)
}

func (repo *AdRepo) ListPublishedPaginated(ctx context.Context, offset, limit int) ([]*entity.Ad, error) {
	const query = `SELECT ` + adColumns + ` FROM ads
WHERE published AND approved = TRUE
ORDER BY approved_at DESC, id DESC
LIMIT $1 OFFSET $2`
	return repo.query(ctx, "ListPublishedPaginated", query, limit, offset)
}

func (repo *AdRepo) CountPublished(ctx context.Context) (int64, error) {
	return repo.countPublished(ctx)
}

func (repo *AdRepo) Create(ctx context.Context, a *entity.Ad) error {
	const query = `
INSERT INTO ads (title, description, category, price, contact_email, contact_phone, website_url,
                 image_url, location, author_id, published, approved, approved_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		a.Title, a.Description, a.Category, a.Price, a.ContactEmail, a.ContactPhone, a.WebsiteURL,
		a.ImageURL, a.Location, a.AuthorID, a.Published, nullBool(a.Approved), nullTime(a.ApprovedAt),
		a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		return mapConstraintErr("Create", err)
	}
	return nil
}

func (repo *AdRepo) Update(ctx context.Context, a *entity.Ad) error {
	const query = `
UPDATE ads
SET title = $1, description = $2, category = $3, price = $4, contact_email = $5, contact_phone = $6,
    website_url = $7, image_url = $8, location = $9, published = $10, approved = $11, approved_at = $12,
    updated_at = $13
WHERE id = $14`
	res, err := repo.db.ExecContext(ctx, query,
		a.Title, a.Description, a.Category, a.Price, a.ContactEmail, a.ContactPhone,
		a.WebsiteURL, a.ImageURL, a.Location, a.Published, nullBool(a.Approved), nullTime(a.ApprovedAt),
		a.UpdatedAt, a.ID)
	if err != nil {
		return mapConstraintErr("Update", err)
	}
	return requireRow(res, "Update")
}

func (repo *AdRepo) Delete(ctx context.Context, id int64) error {
	return repo.delete(ctx, id)
}

func (repo *AdRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.Ad, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*entity.Ad, 0, 32)
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
