// Package repository provides the persistence strategies for household
// entities: PostgreSQL (lib/pq) and an in-process memory store.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/homehub/internal/models"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// column is one assignment in an INSERT or UPDATE statement.
type column struct {
	name  string
	value any
}

// PostgresRepository implements list/get/create/update/delete for one
// table. Entity specifics (columns, scanning, patch mapping) are supplied
// by the per-entity constructors.
type PostgresRepository[E any, I any, P any] struct {
	// DB is the database handle for executing queries.
	DB *sql.DB

	table   string
	columns string
	orderBy string
	scan    func(scanner) (E, error)
	insert  func(I) []column
	patch   func(P) []column
}

// List returns every row in the table's display order.
func (r *PostgresRepository[E, I, P]) List(ctx context.Context) ([]E, error) {
	return r.query(ctx, "", "list "+r.table)
}

// Get returns the row with the given id, or nil when it does not exist.
func (r *PostgresRepository[E, I, P]) Get(ctx context.Context, id int64) (*E, error) {
	row := r.DB.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, r.columns, r.table), id)
	item, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", r.table, id, err)
	}
	return &item, nil
}

// Create inserts a row and returns it with its generated id and timestamp.
func (r *PostgresRepository[E, I, P]) Create(ctx context.Context, in I) (E, error) {
	cols := r.insert(in)
	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		names[i] = c.name
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = c.value
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		r.table, strings.Join(names, ", "), strings.Join(placeholders, ", "), r.columns)
	item, err := r.scan(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		var zero E
		return zero, fmt.Errorf("create %s: %w", r.table, err)
	}
	return item, nil
}

// Update sets only the supplied columns. It returns nil when no row has
// the given id. An empty patch returns the current row.
func (r *PostgresRepository[E, I, P]) Update(ctx context.Context, id int64, p P) (*E, error) {
	cols := r.patch(p)
	if len(cols) == 0 {
		return r.Get(ctx, id)
	}

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c.name, i+1)
		args = append(args, c.value)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
		r.table, strings.Join(sets, ", "), len(args), r.columns)
	item, err := r.scan(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update %s %d: %w", r.table, id, err)
	}
	return &item, nil
}

// Delete removes the row if present. Deleting a missing id is not an error.
func (r *PostgresRepository[E, I, P]) Delete(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id); err != nil {
		return fmt.Errorf("delete %s %d: %w", r.table, id, err)
	}
	return nil
}

// query runs a SELECT with an optional WHERE clause. An empty orderBy
// override keeps the table default.
func (r *PostgresRepository[E, I, P]) query(ctx context.Context, where, op string, args ...any) ([]E, error) {
	return r.queryOrdered(ctx, where, r.orderBy, op, args...)
}

func (r *PostgresRepository[E, I, P]) queryOrdered(ctx context.Context, where, orderBy, op string, args ...any) ([]E, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, r.columns, r.table)
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY " + orderBy

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []E{}
	for rows.Next() {
		item, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// set appends a column when the pointer is non-nil.
func set[T any](cols []column, name string, v *T) []column {
	if v == nil {
		return cols
	}
	return append(cols, column{name: name, value: *v})
}

// setOptional appends a column when the field was present in the patch,
// writing NULL for an explicit null.
func setOptional[T any](cols []column, name string, o models.Optional[T]) []column {
	if !o.Set {
		return cols
	}
	return append(cols, column{name: name, value: o.Value})
}
