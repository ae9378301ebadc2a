package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	// ErrUnsafeMutation is returned when Update or Delete is called without a Where.
	ErrUnsafeMutation = errors.New("refusing to mutate without a where clause")
	// ErrEmptyValues is returned when Insert or Update receives no columns.
	ErrEmptyValues = errors.New("no values given")

	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
)

type predicate struct {
	sql  string
	args []any
	or   bool
}

// QueryBuilder assembles a single statement against one table. Chain methods
// mutate and return the builder; each terminal verb runs exactly one statement.
type QueryBuilder struct {
	db      DBTX
	table   string
	columns []string
	preds   []predicate
	orderBy []string
	limit   uint64
	offset  uint64
	limited bool
	offsetd bool
	err     error
}

// Table starts a builder for the given table.
func Table(db DBTX, table string) *QueryBuilder {
	b := &QueryBuilder{db: db, table: table}
	if !identifierPattern.MatchString(table) {
		b.err = fmt.Errorf("invalid table name %q", table)
	}
	return b
}

// Columns sets the select list. Defaults to *.
func (b *QueryBuilder) Columns(cols ...string) *QueryBuilder {
	b.columns = append(b.columns, cols...)
	return b
}

// Where ANDs a predicate onto the current condition. pred is either a SQL
// fragment using ? placeholders or a squirrel Sqlizer.
func (b *QueryBuilder) Where(pred any, args ...any) *QueryBuilder {
	return b.addPredicate(pred, args, false)
}

// OrWhere ORs a predicate onto the whole condition built so far.
func (b *QueryBuilder) OrWhere(pred any, args ...any) *QueryBuilder {
	return b.addPredicate(pred, args, true)
}

// Search adds an ILIKE group over cols. An empty term is ignored.
func (b *QueryBuilder) Search(term string, cols ...string) *QueryBuilder {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return b
	}
	pattern := "%" + escapeLike(term) + "%"
	group := sq.Or{}
	for _, col := range cols {
		if !identifierPattern.MatchString(col) {
			b.setErr(fmt.Errorf("invalid search column %q", col))
			return b
		}
		group = append(group, sq.ILike{col: pattern})
	}
	return b.Where(group)
}

// OrderBy appends a sort key. Direction is normalized to ASC or DESC.
func (b *QueryBuilder) OrderBy(col, dir string) *QueryBuilder {
	if !identifierPattern.MatchString(col) {
		b.setErr(fmt.Errorf("invalid order column %q", col))
		return b
	}
	b.orderBy = append(b.orderBy, col+" "+normalizeDirection(dir))
	return b
}

func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	if n < 0 {
		n = 0
	}
	b.limit = uint64(n)
	b.limited = true
	return b
}

func (b *QueryBuilder) Offset(n int) *QueryBuilder {
	if n < 0 {
		n = 0
	}
	b.offset = uint64(n)
	b.offsetd = true
	return b
}

// Paginate applies the order, limit and offset from normalized list params.
func (b *QueryBuilder) Paginate(p ListParams) *QueryBuilder {
	if p.Sort != "" {
		b.OrderBy(p.Sort, p.Order)
	}
	return b.Limit(p.Limit()).Offset(p.Offset())
}

// ToSQL renders the select statement without running it.
func (b *QueryBuilder) ToSQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	cols := b.columns
	if len(cols) == 0 {
		cols = []string{"*"}
	}
	q := sq.Select(cols...).From(b.table).PlaceholderFormat(sq.Dollar)
	if cond := b.condition(); cond != nil {
		q = q.Where(cond)
	}
	if len(b.orderBy) > 0 {
		q = q.OrderBy(b.orderBy...)
	}
	if b.limited {
		q = q.Limit(b.limit)
	}
	if b.offsetd {
		q = q.Offset(b.offset)
	}
	return q.ToSql()
}

// Select runs the select statement and returns the open rows.
func (b *QueryBuilder) Select(ctx context.Context) (pgx.Rows, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, wrap("select "+b.table, err)
	}
	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("select "+b.table, err)
	}
	return rows, nil
}

// SelectOne runs the select statement limited to one row.
func (b *QueryBuilder) SelectOne(ctx context.Context) pgx.Row {
	b.Limit(1)
	query, args, err := b.ToSQL()
	if err != nil {
		return errRow{err: wrap("select one "+b.table, err)}
	}
	return wrappedRow{row: b.db.QueryRow(ctx, query, args...), op: "select one " + b.table}
}

// Insert writes one row and returns its generated id.
func (b *QueryBuilder) Insert(ctx context.Context, values map[string]any) (uuid.UUID, error) {
	op := "insert " + b.table
	if b.err != nil {
		return uuid.Nil, wrap(op, b.err)
	}
	if len(values) == 0 {
		return uuid.Nil, wrap(op, ErrEmptyValues)
	}
	query, args, err := sq.Insert(b.table).
		SetMap(values).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return uuid.Nil, wrap(op, err)
	}

	var id uuid.UUID
	if err := b.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, wrap(op, err)
	}
	return id, nil
}

// Update applies values to every matching row and returns the affected count.
func (b *QueryBuilder) Update(ctx context.Context, values map[string]any) (int64, error) {
	op := "update " + b.table
	if b.err != nil {
		return 0, wrap(op, b.err)
	}
	if len(values) == 0 {
		return 0, wrap(op, ErrEmptyValues)
	}
	cond := b.condition()
	if cond == nil {
		return 0, wrap(op, ErrUnsafeMutation)
	}
	query, args, err := sq.Update(b.table).
		SetMap(values).
		Where(cond).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, wrap(op, err)
	}

	tag, err := b.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, wrap(op, err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes every matching row and returns the affected count.
func (b *QueryBuilder) Delete(ctx context.Context) (int64, error) {
	op := "delete " + b.table
	if b.err != nil {
		return 0, wrap(op, b.err)
	}
	cond := b.condition()
	if cond == nil {
		return 0, wrap(op, ErrUnsafeMutation)
	}
	query, args, err := sq.Delete(b.table).
		Where(cond).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, wrap(op, err)
	}

	tag, err := b.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, wrap(op, err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the number of rows matching the condition. Order, limit and
// offset are ignored.
func (b *QueryBuilder) Count(ctx context.Context) (int64, error) {
	op := "count " + b.table
	if b.err != nil {
		return 0, wrap(op, b.err)
	}
	q := sq.Select("COUNT(*)").From(b.table).PlaceholderFormat(sq.Dollar)
	if cond := b.condition(); cond != nil {
		q = q.Where(cond)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, wrap(op, err)
	}

	var n int64
	if err := b.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, wrap(op, err)
	}
	return n, nil
}

func (b *QueryBuilder) addPredicate(pred any, args []any, or bool) *QueryBuilder {
	var (
		sqlStr   string
		predArgs []any
		err      error
	)
	switch p := pred.(type) {
	case string:
		sqlStr, predArgs = p, args
	case sq.Sqlizer:
		sqlStr, predArgs, err = p.ToSql()
	default:
		err = fmt.Errorf("unsupported predicate type %T", pred)
	}
	if err != nil {
		b.setErr(err)
		return b
	}
	if strings.TrimSpace(sqlStr) == "" {
		return b
	}
	b.preds = append(b.preds, predicate{sql: sqlStr, args: predArgs, or: or})
	return b
}

// condition joins the predicates left to right. An OR groups everything
// accumulated before it, so Where(a).OrWhere(b).Where(c) is (a OR b) AND c.
func (b *QueryBuilder) condition() sq.Sqlizer {
	if len(b.preds) == 0 {
		return nil
	}
	var (
		expr string
		args []any
	)
	for i, p := range b.preds {
		switch {
		case i == 0:
			expr = p.sql
		case p.or:
			expr = "(" + expr + " OR " + p.sql + ")"
		default:
			expr = expr + " AND " + p.sql
		}
		args = append(args, p.args...)
	}
	return sq.Expr(expr, args...)
}

func (b *QueryBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

func normalizeDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "desc") {
		return "DESC"
	}
	return "ASC"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

type wrappedRow struct {
	row pgx.Row
	op  string
}

func (r wrappedRow) Scan(dest ...any) error {
	return wrap(r.op, r.row.Scan(dest...))
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
