package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "marketplace/internal/db"
	"marketplace/internal/domain"
	"marketplace/internal/query"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// search runs the COUNT and the paged SELECT for plan against table.
// Documents is never nil so an empty page encodes as [].
func search[T any](ctx context.Context, q intdb.DBTX, table, columns string, plan query.Plan, scan func(rowScanner) (T, error)) (domain.Page[T], error) {
	page := domain.Page[T]{Documents: make([]T, 0)}

	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" "+plan.Where, plan.Args...).Scan(&page.DocumentCount); err != nil {
		return page, fmt.Errorf("count %s: %w", table, err)
	}
	if page.DocumentCount == 0 {
		return page, nil
	}

	args := append(append([]any{}, plan.Args...), plan.Limit, plan.Offset)
	rows, err := q.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s %s %s LIMIT ? OFFSET ?",
		columns, table, plan.Where, plan.OrderBy), args...)
	if err != nil {
		return page, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return page, fmt.Errorf("scan %s: %w", table, err)
		}
		page.Documents = append(page.Documents, item)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("iterate %s: %w", table, err)
	}
	return page, nil
}

// loadRefs runs a two-column (owner_id, id) query whose IN list is spliced into
// queryFmt, grouping ids by owner in result order.
func loadRefs(ctx context.Context, q intdb.DBTX, queryFmt string, owners []string) (map[string][]string, error) {
	out := make(map[string][]string, len(owners))
	if len(owners) == 0 {
		return out, nil
	}
	args := make([]any, len(owners))
	for i, id := range owners {
		args[i] = id
	}
	rows, err := q.QueryContext(ctx, fmt.Sprintf(queryFmt, intdb.Placeholders(len(owners))), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var owner, id string
		if err := rows.Scan(&owner, &id); err != nil {
			return nil, err
		}
		out[owner] = append(out[owner], id)
	}
	return out, rows.Err()
}

func exists(ctx context.Context, q intdb.DBTX, table, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", table, err)
	}
	return true, nil
}

// valueTaken reports whether column already holds value on a row other than excludeID.
func valueTaken(ctx context.Context, q intdb.DBTX, table, column, value, excludeID string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ? AND id <> ? LIMIT 1", table, column),
		value, excludeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s.%s: %w", table, column, err)
	}
	return true, nil
}

func deleteByID(ctx context.Context, q intdb.DBTX, table, id string) error {
	res, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func idsOf[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
