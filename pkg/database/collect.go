package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// All runs the builder's select and maps every row onto T by db tag.
func All[T any](ctx context.Context, b *QueryBuilder) ([]*T, error) {
	rows, err := b.Select(ctx)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		return nil, wrap("collect "+b.table, err)
	}
	return items, nil
}

// One runs the builder's select limited to one row. A missing row surfaces as
// a DatabaseError wrapping pgx.ErrNoRows.
func One[T any](ctx context.Context, b *QueryBuilder) (*T, error) {
	rows, err := b.Limit(1).Select(ctx)
	if err != nil {
		return nil, err
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		return nil, wrap("collect one "+b.table, err)
	}
	return item, nil
}

// Query runs raw SQL and maps the rows onto T. Used for aggregates and joins
// the builder does not express.
func Query[T any](ctx context.Context, db DBTX, op, sql string, args ...any) ([]*T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		return nil, wrap(op, err)
	}
	return items, nil
}

// Exec runs raw SQL and returns the affected count.
func Exec(ctx context.Context, db DBTX, op, sql string, args ...any) (int64, error) {
	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, wrap(op, err)
	}
	return tag.RowsAffected(), nil
}

// Scan runs raw SQL expected to return one row and scans it into dest.
func Scan(ctx context.Context, db DBTX, op, sql string, args []any, dest ...any) error {
	return wrap(op, db.QueryRow(ctx, sql, args...).Scan(dest...))
}
