// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"context"

	"taxonomy/internal/models"
	"taxonomy/internal/store"
)

// Store is the persistence the Manager needs. InTx runs fn against a
// transaction-scoped Store.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	FindByLabel(ctx context.Context, label string) (*models.Category, error)
	FindSubtree(ctx context.Context, rootID int64) ([]models.Category, error)
	Save(ctx context.Context, c *models.Category) (*models.Category, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
	InTx(ctx context.Context, fn func(Store) error) error
}

// pgStore adapts *store.CategoryStore to Store.
type pgStore struct {
	*store.CategoryStore
}

// NewPostgresStore wraps a PostgreSQL-backed category store.
func NewPostgresStore(s *store.CategoryStore) Store {
	return pgStore{CategoryStore: s}
}

func (p pgStore) InTx(ctx context.Context, fn func(Store) error) error {
	return p.CategoryStore.InTx(ctx, func(tx *store.CategoryStore) error {
		return fn(pgStore{CategoryStore: tx})
	})
}
