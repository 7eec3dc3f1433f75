package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/repository"
)

const userColumns = `id, email, nickname, password_hash, role, created_at, updated_at`

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) repository.UserRepository {
	return &UserRepo{db: db}
}

func scanUser(s rowScanner) (*entity.User, error) {
	var (
		u    entity.User
		role string
	)
	if err := s.Scan(&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}

func (repo *UserRepo) Get(ctx context.Context, id int64) (*entity.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return u, nil
}

func (repo *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(repo.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByEmail: %w", err)
	}
	return u, nil
}

func (repo *UserRepo) Nicknames(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = id
	}
	query := `SELECT id, nickname FROM users WHERE id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Nicknames: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id   int64
			nick string
		)
		if err := rows.Scan(&id, &nick); err != nil {
			return nil, fmt.Errorf("Nicknames: Scan: %w", err)
		}
		out[id] = nick
	}
	return out, rows.Err()
}

func (repo *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (repo *UserRepo) Create(ctx context.Context, u *entity.User) error {
	const query = `
INSERT INTO users (email, nickname, password_hash, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		u.Email, u.Nickname, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return mapConstraintErr("Create", err)
	}
	return nil
}

func (repo *UserRepo) UpdateRole(ctx context.Context, id int64, role entity.Role) error {
	const query = `UPDATE users SET role = $1, updated_at = now() WHERE id = $2`
	res, err := repo.db.ExecContext(ctx, query, string(role), id)
	if err != nil {
		return fmt.Errorf("UpdateRole: %w", err)
	}
	return requireRow(res, "UpdateRole")
}

func (repo *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	const query = `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`
	res, err := repo.db.ExecContext(ctx, query, hash, id)
	if err != nil {
		return fmt.Errorf("UpdatePassword: %w", err)
	}
	return requireRow(res, "UpdatePassword")
}
