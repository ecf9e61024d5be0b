// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"taxonomy/internal/models"
)

// Storage-level violations surfaced by Save.
var (
	ErrDuplicateLabel = errors.New("category label already exists")
	ErrParentMissing  = errors.New("parent category does not exist")
)

// PostgreSQL SQLSTATE codes mapped by translateError.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// querier is the subset of *sql.DB and *sql.Tx the store needs.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB // nil for a transaction-bound store
	q  querier
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db, q: db}
}

const categoryColumns = `id, label, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Label, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// InTx runs fn with a store bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise. Calling InTx on a
// store that is already transaction-bound runs fn in the same transaction.
func (s *CategoryStore) InTx(ctx context.Context, fn func(tx *CategoryStore) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&CategoryStore{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByLabel retrieves a category by its exact label. Returns nil if not found.
func (s *CategoryStore) FindByLabel(ctx context.Context, label string) (*models.Category, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE label = $1`, label)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by label: %w", err)
	}
	return c, nil
}

// FindSubtree returns rootID and all of its transitive descendants in a
// single recursive query. Rows are ordered by depth below the root, then
// by parent id, then by id, so the root comes first, every row follows its
// parent, and siblings appear in ascending id order. Returns an empty
// slice for an unknown root.
func (s *CategoryStore) FindSubtree(ctx context.Context, rootID int64) ([]models.Category, error) {
	rows, err := s.q.QueryContext(ctx, `
		WITH RECURSIVE sub AS (
			SELECT `+categoryColumns+`, 0 AS depth
			FROM categories
			WHERE id = $1

			UNION ALL

			SELECT c.id, c.label, c.parent_id, c.created_at, c.updated_at, s.depth + 1
			FROM categories c
			INNER JOIN sub s ON c.parent_id = s.id
		)
		SELECT `+categoryColumns+`
		FROM sub
		ORDER BY depth, parent_id NULLS FIRST, id
	`, rootID)
	if err != nil {
		return nil, fmt.Errorf("find subtree: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Save inserts c when its ID is zero and updates label and parent
// otherwise. It returns the persisted row.
func (s *CategoryStore) Save(ctx context.Context, c *models.Category) (*models.Category, error) {
	if c.ID == 0 {
		row := s.q.QueryRowContext(ctx, `
			INSERT INTO categories (label, parent_id)
			VALUES ($1, $2)
			RETURNING `+categoryColumns,
			c.Label, c.ParentID,
		)
		result, err := scanCategory(row)
		if err != nil {
			return nil, fmt.Errorf("create category: %w", translateError(err))
		}
		return result, nil
	}

	row := s.q.QueryRowContext(ctx, `
		UPDATE categories SET
			label = $1, parent_id = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+categoryColumns,
		c.Label, c.ParentID, c.ID,
	)
	result, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("update category %d: %w", c.ID, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", translateError(err))
	}
	return result, nil
}

// DeleteByIDs removes the given categories in one statement. Unknown ids
// are ignored.
func (s *CategoryStore) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.q.ExecContext(ctx, `DELETE FROM categories WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}
	return nil
}

// Count returns the total number of categories.
func (s *CategoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// Ping reports whether the underlying database is reachable.
func (s *CategoryStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

// translateError maps constraint violations to store sentinels, keeping
// the driver error in the chain.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %w", ErrDuplicateLabel, err)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %w", ErrParentMissing, err)
	}
	return err
}
