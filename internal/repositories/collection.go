package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// table describes how one document type is stored.
type table[T any] struct {
	name     string
	resource string
	columns  []string
	// fields maps API field names to columns; only these can be filtered
	// or sorted on.
	fields map[string]string
	scan   func(rowScanner) (T, error)
	id     func(T) string
}

func (t table[T]) selectList() string {
	return strings.Join(t.columns, ", ")
}

// sqlCollection exposes a table as a pagination.Collection. Relations are
// bound to the same querier so populate reads share the snapshot.
type sqlCollection[T any] struct {
	db        *sql.DB
	q         querier
	t         table[T]
	relations func(q querier) map[string]pagination.Populator[T]
}

func newCollection[T any](db *sql.DB, t table[T], relations func(querier) map[string]pagination.Populator[T]) sqlCollection[T] {
	return sqlCollection[T]{db: db, q: db, t: t, relations: relations}
}

func (c sqlCollection[T]) Name() string { return c.t.name }

func (c sqlCollection[T]) Count(ctx context.Context, filter pagination.Filter) (int64, error) {
	where, args, err := buildWhere(c.t.fields, filter)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := c.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.t.name+where, args...).Scan(&n); err != nil {
		return 0, unavailableErr(c.t.name, err)
	}
	return n, nil
}

func (c sqlCollection[T]) Find(ctx context.Context, q pagination.Query) ([]T, error) {
	where, args, err := buildWhere(c.t.fields, q.Filter)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + c.t.selectList() + " FROM " + c.t.name + where +
		buildOrderBy(c.t.fields, q.Sort) + " LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Skip)

	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailableErr(c.t.name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		doc, err := c.t.scan(rows)
		if err != nil {
			return nil, unavailableErr(c.t.name, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailableErr(c.t.name, err)
	}
	return out, nil
}

func (c sqlCollection[T]) Relations() map[string]pagination.Populator[T] {
	if c.relations == nil {
		return nil
	}
	return c.relations(c.q)
}

// Snapshot runs fn inside a read-only REPEATABLE READ transaction so the
// count, the page and any populate reads see the same InnoDB snapshot.
func (c sqlCollection[T]) Snapshot(ctx context.Context, fn func(pagination.Collection[T]) error) error {
	if c.db == nil {
		return fn(c)
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return unavailableErr(c.t.name, err)
	}
	inner := c
	inner.db, inner.q = nil, tx
	if err := fn(inner); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return unavailableErr(c.t.name, err)
	}
	return nil
}

func getByID[T any](ctx context.Context, q querier, t table[T], id string) (T, error) {
	row := q.QueryRowContext(ctx, "SELECT "+t.selectList()+" FROM "+t.name+" WHERE id = ? LIMIT 1", id)
	doc, err := t.scan(row)
	if err != nil {
		var zero T
		if err == sql.ErrNoRows {
			return zero, domain.NotFoundError{Resource: t.resource, Err: err}
		}
		return zero, storeErr(t.resource, err)
	}
	return doc, nil
}

func findByIDs[T any](ctx context.Context, q querier, t table[T], ids []string) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := q.QueryContext(ctx,
		"SELECT "+t.selectList()+" FROM "+t.name+" WHERE id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return nil, unavailableErr(t.name, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		doc, err := t.scan(rows)
		if err != nil {
			return nil, unavailableErr(t.name, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailableErr(t.name, err)
	}
	return out, nil
}

func deleteByID[T any](ctx context.Context, q querier, t table[T], id string) error {
	res, err := q.ExecContext(ctx, "DELETE FROM "+t.name+" WHERE id = ?", id)
	if err != nil {
		return storeErr(t.resource, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.NotFoundError{Resource: t.resource}
	}
	return nil
}

var comparisonOps = map[string]string{
	"$eq":  "=",
	"$ne":  "<>",
	"$gt":  ">",
	"$gte": ">=",
	"$lt":  "<",
	"$lte": "<=",
}

// buildWhere translates a filter into a WHERE clause. Keys are visited in
// sorted order so the same filter always yields the same SQL.
func buildWhere(fields map[string]string, filter pagination.Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		clauses []string
		args    []any
	)
	for _, key := range keys {
		col, ok := fields[key]
		if !ok {
			return "", nil, domain.ValidationError{Field: key, Msg: "unsupported filter field"}
		}
		switch v := filter[key].(type) {
		case nil:
			clauses = append(clauses, col+" IS NULL")
		case map[string]any:
			ops := make([]string, 0, len(v))
			for op := range v {
				ops = append(ops, op)
			}
			sort.Strings(ops)
			for _, op := range ops {
				clause, opArgs, err := operatorClause(col, key, op, v[op])
				if err != nil {
					return "", nil, err
				}
				clauses = append(clauses, clause)
				args = append(args, opArgs...)
			}
		default:
			clauses = append(clauses, col+" = ?")
			args = append(args, v)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func operatorClause(col, key, op string, value any) (string, []any, error) {
	if sqlOp, ok := comparisonOps[op]; ok {
		return col + " " + sqlOp + " ?", []any{value}, nil
	}
	switch op {
	case "$like":
		return col + " LIKE ?", []any{value}, nil
	case "$in":
		var vals []any
		switch list := value.(type) {
		case []any:
			vals = list
		case []string:
			for _, s := range list {
				vals = append(vals, s)
			}
		default:
			return "", nil, domain.ValidationError{Field: key, Msg: "$in expects a list"}
		}
		if len(vals) == 0 {
			return "1 = 0", nil, nil
		}
		return col + " IN (" + placeholders(len(vals)) + ")", vals, nil
	}
	return "", nil, domain.ValidationError{Field: key, Msg: fmt.Sprintf("unsupported operator %s", op)}
}

// buildOrderBy maps sort keys to columns, dropping unknown fields, and
// always ends with id so ties come back in a stable order.
func buildOrderBy(fields map[string]string, keys []pagination.SortField) string {
	var parts []string
	hasID := false
	for _, k := range keys {
		col, ok := fields[k.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		if col == "id" {
			hasID = true
		}
		parts = append(parts, col+" "+dir)
	}
	if len(parts) == 0 {
		parts = append(parts, fields[pagination.DefaultSortField]+" ASC")
	}
	if !hasID {
		parts = append(parts, "id ASC")
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
