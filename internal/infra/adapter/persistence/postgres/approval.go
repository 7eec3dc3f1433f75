package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/repository"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// statusCase maps a row to its derived status; it mirrors entity.DeriveStatus.
const statusCase = `CASE
    WHEN approved = FALSE THEN 'rejected'
    WHEN approved IS NULL AND published THEN 'pending_approval'
    WHEN approved AND published THEN 'published'
    ELSE 'draft'
END`

// statusPredicate returns the WHERE condition selecting rows whose derived
// status is s.
func statusPredicate(s entity.Status) (string, error) {
	switch s {
	case entity.StatusDraft:
		return "(NOT published AND approved IS DISTINCT FROM FALSE)", nil
	case entity.StatusPendingApproval:
		return "(published AND approved IS NULL)", nil
	case entity.StatusPublished:
		return "(published AND approved = TRUE)", nil
	case entity.StatusRejected:
		return "(approved = FALSE)", nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// contentWhere builds the WHERE clause for a ContentFilter, numbering
// placeholders from $1.
func contentWhere(f repository.ContentFilter) (string, []any, error) {
	var conds []string
	var args []any
	if f.AuthorID != 0 {
		args = append(args, f.AuthorID)
		conds = append(conds, "author_id = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		pred, err := statusPredicate(f.Status)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, pred)
	}
	if len(conds) == 0 {
		return "", nil, nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args, nil
}

// approvalColumns scans the nullable approval columns.
type approvalColumns struct {
	approved   sql.NullBool
	approvedAt sql.NullTime
}

func (c *approvalColumns) apply(a *entity.Approval) {
	a.Approved = nil
	a.ApprovedAt = nil
	if c.approved.Valid {
		a.Approved = entity.BoolPtr(c.approved.Bool)
	}
	if c.approvedAt.Valid {
		t := c.approvedAt.Time
		a.ApprovedAt = &t
	}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// approvalTable implements repository.ApprovalStore for one content table.
// table is always a package constant.
type approvalTable struct {
	db    *sql.DB
	table string
}

func (t approvalTable) GetForModeration(ctx context.Context, id int64) (*repository.ModerationItem, error) {
	query := `SELECT id, title, author_id, published, approved, approved_at FROM ` + t.table + ` WHERE id = $1`
	var (
		item repository.ModerationItem
		cols approvalColumns
	)
	err := t.db.QueryRowContext(ctx, query, id).
		Scan(&item.ID, &item.Title, &item.AuthorID, &item.Published, &cols.approved, &cols.approvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetForModeration: %w", err)
	}
	cols.apply(&item.Approval)
	return &item, nil
}

func (t approvalTable) SetPublished(ctx context.Context, id int64, published bool) error {
	query := `UPDATE ` + t.table + ` SET published = $1 WHERE id = $2`
	res, err := t.db.ExecContext(ctx, query, published, id)
	if err != nil {
		return fmt.Errorf("SetPublished: %w", err)
	}
	return requireRow(res, "SetPublished")
}

func (t approvalTable) SetDecision(ctx context.Context, id int64, approved bool, at time.Time) error {
	query := `UPDATE ` + t.table + ` SET approved = $1, approved_at = $2 WHERE id = $3`
	res, err := t.db.ExecContext(ctx, query, approved, at, id)
	if err != nil {
		return fmt.Errorf("SetDecision: %w", err)
	}
	return requireRow(res, "SetDecision")
}

func (t approvalTable) CountByStatus(ctx context.Context) (map[entity.Status]int64, error) {
	query := `SELECT ` + statusCase + ` AS status, COUNT(*) FROM ` + t.table + ` GROUP BY 1`
	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CountByStatus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := map[entity.Status]int64{
		entity.StatusDraft:           0,
		entity.StatusPendingApproval: 0,
		entity.StatusPublished:       0,
		entity.StatusRejected:        0,
	}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("CountByStatus: Scan: %w", err)
		}
		counts[entity.Status(status)] = n
	}
	return counts, rows.Err()
}

func (t approvalTable) delete(ctx context.Context, id int64) error {
	res, err := t.db.ExecContext(ctx, `DELETE FROM `+t.table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return requireRow(res, "Delete")
}

func (t approvalTable) countPublished(ctx context.Context) (int64, error) {
	pred, _ := statusPredicate(entity.StatusPublished)
	var n int64
	if err := t.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+t.table+` WHERE `+pred).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountPublished: %w", err)
	}
	return n, nil
}

// requireRow turns an update that matched nothing into ErrNotFound.
func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: RowsAffected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}
	return nil
}

// mapConstraintErr converts a unique violation into ErrConflict.
func mapConstraintErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, entity.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
