package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repos bound to a *sql.DB serve read paths; repos inside a UnitOfWork
// are bound to its transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Table maps an entity type onto its backing table. Columns excludes id;
// Values and Scan must agree with the Columns order (Scan reads id first).
type Table[T any] struct {
	Name    string
	Columns []string
	Values  func(e *T) []any
	Scan    func(scan func(dest ...any) error) (*T, error)
	ID      func(e *T) int64
	SetID   func(e *T, id int64)
}

// Repo is a generic repository over one entity type with a numeric
// surrogate id.
type Repo[T any] struct {
	q   Querier
	tbl Table[T]
}

func NewRepo[T any](q Querier, tbl Table[T]) *Repo[T] {
	return &Repo[T]{q: q, tbl: tbl}
}

func (r *Repo[T]) selectList() string {
	return "id, " + strings.Join(r.tbl.Columns, ", ")
}

// GetByID returns the entity or (nil, nil) when no row matches.
func (r *Repo[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	row := r.q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", r.selectList(), r.tbl.Name), id)

	e, err := r.tbl.Scan(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s by id: %w", r.tbl.Name, err)
	}
	return e, nil
}

// List returns entities matching the exact-match filters plus the total
// count over the filtered set before skip/limit are applied. A filter on
// a field the entity does not have fails with *UnknownFilterError.
func (r *Repo[T]) List(ctx context.Context, filters map[string]any, skip, limit int) ([]*T, int, error) {
	where, args, err := r.buildWhere(filters)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.tbl.Name, where), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.tbl.Name, err)
	}

	if limit <= 0 {
		limit = -1 // sqlite treats a negative LIMIT as "no limit"
	}
	listArgs := append(append([]any{}, args...), limit, skip)
	rows, err := r.q.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s%s ORDER BY id LIMIT ? OFFSET ?",
			r.selectList(), r.tbl.Name, where), listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.tbl.Name, err)
	}
	defer rows.Close()

	out := make([]*T, 0, 16)
	for rows.Next() {
		e, err := r.tbl.Scan(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s row: %w", r.tbl.Name, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}
	return out, total, nil
}

func (r *Repo[T]) buildWhere(filters map[string]any) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	allowed := map[string]bool{"id": true}
	for _, c := range r.tbl.Columns {
		allowed[c] = true
	}

	// sorted keys keep the generated SQL deterministic
	keys := make([]string, 0, len(filters))
	for k := range filters {
		if !allowed[k] {
			return "", nil, &UnknownFilterError{Field: k}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		conds = append(conds, k+" = ?")
		args = append(args, filters[k])
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// Save inserts the entity when it has no id yet (assigning the generated
// one) and updates the existing row otherwise. Updating a vanished id
// fails with ErrNotFound.
func (r *Repo[T]) Save(ctx context.Context, e *T) (*T, error) {
	vals := r.tbl.Values(e)

	if r.tbl.ID(e) == 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(vals)), ", ")
		res, err := r.q.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
				r.tbl.Name, strings.Join(r.tbl.Columns, ", "), placeholders), vals...)
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", r.tbl.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		r.tbl.SetID(e, id)
		return e, nil
	}

	sets := make([]string, len(r.tbl.Columns))
	for i, c := range r.tbl.Columns {
		sets[i] = c + " = ?"
	}
	res, err := r.q.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", r.tbl.Name, strings.Join(sets, ", ")),
		append(vals, r.tbl.ID(e))...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", r.tbl.Name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return e, nil
}

// Remove deletes by id. A missing id surfaces as ErrNotFound.
func (r *Repo[T]) Remove(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.tbl.Name), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.tbl.Name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
