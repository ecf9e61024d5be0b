// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy implements the category hierarchy manager: creating
// categories under an optional parent, reading a subtree as a nested tree,
// moving a subtree without introducing cycles, and deleting a subtree.
//
// Every operation re-reads what it needs from the Store inside one
// transaction. Label uniqueness is backed by a database constraint; the
// descendant check in Move is not re-validated against concurrent moves.
package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"taxonomy/internal/models"
	"taxonomy/internal/store"
)

// Operation names reported to the Observer.
const (
	OpCreate  = "create"
	OpSubtree = "subtree"
	OpMove    = "move"
	OpDelete  = "delete"
)

// Observer receives the outcome of every Manager operation.
type Observer interface {
	ObserveOperation(op, outcome string, elapsed time.Duration)
}

// Manager orchestrates Store calls under the hierarchy invariants.
type Manager struct {
	store    Store
	observer Observer
}

// NewManager returns a Manager backed by s. observer may be nil.
func NewManager(s Store, observer Observer) *Manager {
	return &Manager{store: s, observer: observer}
}

// Create persists a new category labelled label under parentID (nil for a
// root). The parent must exist and the label, compared and stored exactly
// as given, must be unused anywhere in the forest.
func (m *Manager) Create(ctx context.Context, label string, parentID *int64) (created *models.Category, err error) {
	defer m.observe(OpCreate, time.Now(), &err)

	if strings.TrimSpace(label) == "" {
		return nil, validation("Label is required")
	}

	err = m.store.InTx(ctx, func(tx Store) error {
		if parentID != nil {
			parent, err := tx.FindByID(ctx, *parentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return notFound("Parent not found with id: %d", *parentID)
			}
		}

		existing, err := tx.FindByLabel(ctx, label)
		if err != nil {
			return err
		}
		if existing != nil {
			return conflict("Category with the label already exists")
		}

		saved, err := tx.Save(ctx, &models.Category{Label: label, ParentID: parentID})
		if err != nil {
			return translateStoreError(err, parentID)
		}
		created = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.Children = []*models.Category{}
	slog.Info("category created",
		"category_id", created.ID,
		"label", created.Label,
		"parent_id", fmtParent(created.ParentID),
	)
	return created, nil
}

// Subtree returns the category id with all of its descendants nested
// under Children. Leaves carry an empty, non-nil Children slice.
func (m *Manager) Subtree(ctx context.Context, id int64) (root *models.Category, err error) {
	defer m.observe(OpSubtree, time.Now(), &err)

	err = m.store.InTx(ctx, func(tx Store) error {
		c, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound("Category not found with id: %d", id)
		}

		flat, err := tx.FindSubtree(ctx, id)
		if err != nil {
			return err
		}
		root = buildTree(id, flat)
		if root == nil {
			return notFound("Category not found with id: %d", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

// Move re-parents sourceID under newParentID, or detaches it to the root
// level when newParentID is nil. A category cannot become its own parent
// and cannot be moved beneath one of its descendants.
func (m *Manager) Move(ctx context.Context, sourceID int64, newParentID *int64) (err error) {
	defer m.observe(OpMove, time.Now(), &err)

	if newParentID != nil && *newParentID == sourceID {
		return invalidOperation("Cannot move category to itself")
	}

	err = m.store.InTx(ctx, func(tx Store) error {
		source, err := tx.FindByID(ctx, sourceID)
		if err != nil {
			return err
		}
		if source == nil {
			return notFound("Source category not found with id: %d", sourceID)
		}

		if newParentID != nil {
			parent, err := tx.FindByID(ctx, *newParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return notFound("New parent category not found with id: %d", *newParentID)
			}

			subtree, err := tx.FindSubtree(ctx, sourceID)
			if err != nil {
				return err
			}
			for _, c := range subtree {
				if c.ID == parent.ID {
					return invalidOperation("New parent cannot be a descendant of the source category")
				}
			}
		}

		source.ParentID = newParentID
		if _, err := tx.Save(ctx, source); err != nil {
			return translateStoreError(err, newParentID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("category moved",
		"category_id", sourceID,
		"parent_id", fmtParent(newParentID),
	)
	return nil
}

// Delete removes id and every descendant in a single batch.
func (m *Manager) Delete(ctx context.Context, id int64) (err error) {
	defer m.observe(OpDelete, time.Now(), &err)

	var removed int
	err = m.store.InTx(ctx, func(tx Store) error {
		c, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound("Category not found with id: %d", id)
		}

		subtree, err := tx.FindSubtree(ctx, id)
		if err != nil {
			return err
		}
		tree := buildTree(id, subtree)
		if tree == nil {
			return notFound("Category not found with id: %d", id)
		}
		ids := tree.IDs()
		removed = len(ids)
		return tx.DeleteByIDs(ctx, ids)
	})
	if err != nil {
		return err
	}

	slog.Info("category subtree deleted", "category_id", id, "removed", removed)
	return nil
}

// buildTree nests the flat subtree rows under their parents. Children keep
// the order of flat. Returns nil if rootID is not among the rows.
func buildTree(rootID int64, flat []models.Category) *models.Category {
	nodes := make(map[int64]*models.Category, len(flat))
	for i := range flat {
		n := flat[i]
		n.Children = []*models.Category{}
		nodes[n.ID] = &n
	}

	for _, c := range flat {
		if c.ID == rootID || c.ParentID == nil {
			continue
		}
		if parent, ok := nodes[*c.ParentID]; ok {
			parent.Children = append(parent.Children, nodes[c.ID])
		}
	}

	return nodes[rootID]
}

// translateStoreError maps storage constraint violations raised on Save to
// domain errors.
func translateStoreError(err error, parentID *int64) error {
	switch {
	case errors.Is(err, store.ErrDuplicateLabel):
		return conflict("Category with the label already exists")
	case errors.Is(err, store.ErrParentMissing) && parentID != nil:
		return notFound("Parent not found with id: %d", *parentID)
	}
	return err
}

func (m *Manager) observe(op string, start time.Time, errp *error) {
	if m.observer == nil {
		return
	}
	m.observer.ObserveOperation(op, Outcome(*errp), time.Since(start))
}

// Outcome labels err for metrics: "ok", a Kind name, or "error".
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch KindOf(err) {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidOperation:
		return "invalid_operation"
	case KindValidation:
		return "validation"
	}
	return "error"
}

func fmtParent(id *int64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprint(*id)
}
