// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchytest provides an in-memory hierarchy.Store for tests.
package hierarchytest

import (
	"context"
	"errors"
	"sort"

	"taxonomy/internal/hierarchy"
	"taxonomy/internal/models"
	"taxonomy/internal/store"
)

// MemStore is an in-memory hierarchy.Store. It is not safe for concurrent
// use. InTx snapshots the rows and restores them when fn fails. Save
// enforces label uniqueness and the parent reference the way the
// PostgreSQL schema does, and FindSubtree returns rows in the same order.
type MemStore struct {
	Rows   map[int64]models.Category
	nextID int64

	// Calls records store method names in invocation order.
	Calls []string

	// Deleted holds every id batch passed to DeleteByIDs.
	Deleted [][]int64

	// FailOn makes the named method return FailErr.
	FailOn  string
	FailErr error
}

// NewMemStore returns an empty store that assigns ids from 1.
func NewMemStore() *MemStore {
	return &MemStore{Rows: make(map[int64]models.Category), nextID: 1}
}

func (s *MemStore) record(name string) error {
	s.Calls = append(s.Calls, name)
	if s.FailOn == name {
		return s.FailErr
	}
	return nil
}

func (s *MemStore) FindByID(_ context.Context, id int64) (*models.Category, error) {
	if err := s.record("FindByID"); err != nil {
		return nil, err
	}
	c, ok := s.Rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemStore) FindByLabel(_ context.Context, label string) (*models.Category, error) {
	if err := s.record("FindByLabel"); err != nil {
		return nil, err
	}
	for _, c := range s.Rows {
		if c.Label == label {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

// FindSubtree mirrors the SQL ordering: level by level below the root,
// and within a level by parent id, then id.
func (s *MemStore) FindSubtree(_ context.Context, rootID int64) ([]models.Category, error) {
	if err := s.record("FindSubtree"); err != nil {
		return nil, err
	}
	root, ok := s.Rows[rootID]
	if !ok {
		return []models.Category{}, nil
	}

	out := []models.Category{root}
	frontier := map[int64]bool{rootID: true}
	for len(frontier) > 0 {
		var level []models.Category
		for _, c := range s.Rows {
			if c.ParentID != nil && frontier[*c.ParentID] {
				level = append(level, c)
			}
		}
		sort.Slice(level, func(i, j int) bool {
			if *level[i].ParentID != *level[j].ParentID {
				return *level[i].ParentID < *level[j].ParentID
			}
			return level[i].ID < level[j].ID
		})

		frontier = make(map[int64]bool, len(level))
		for _, c := range level {
			frontier[c.ID] = true
		}
		out = append(out, level...)
	}
	return out, nil
}

func (s *MemStore) Save(_ context.Context, c *models.Category) (*models.Category, error) {
	if err := s.record("Save"); err != nil {
		return nil, err
	}
	for _, other := range s.Rows {
		if other.Label == c.Label && other.ID != c.ID {
			return nil, store.ErrDuplicateLabel
		}
	}
	if c.ParentID != nil {
		if _, ok := s.Rows[*c.ParentID]; !ok {
			return nil, store.ErrParentMissing
		}
	}

	saved := models.Category{ID: c.ID, Label: c.Label, ParentID: c.ParentID}
	if saved.ID == 0 {
		saved.ID = s.nextID
		s.nextID++
	} else if _, ok := s.Rows[saved.ID]; !ok {
		return nil, errors.New("update of missing row")
	}
	s.Rows[saved.ID] = saved
	return &saved, nil
}

func (s *MemStore) DeleteByIDs(_ context.Context, ids []int64) error {
	if err := s.record("DeleteByIDs"); err != nil {
		return err
	}
	s.Deleted = append(s.Deleted, ids)
	for _, id := range ids {
		delete(s.Rows, id)
	}
	return nil
}

func (s *MemStore) InTx(_ context.Context, fn func(hierarchy.Store) error) error {
	snapshot := make(map[int64]models.Category, len(s.Rows))
	for k, v := range s.Rows {
		snapshot[k] = v
	}
	next := s.nextID

	if err := fn(s); err != nil {
		s.Rows = snapshot
		s.nextID = next
		return err
	}
	return nil
}

// Insert adds a row directly, bypassing the manager.
func (s *MemStore) Insert(id int64, label string, parentID *int64) {
	s.Rows[id] = models.Category{ID: id, Label: label, ParentID: parentID}
	if id >= s.nextID {
		s.nextID = id + 1
	}
}

var _ hierarchy.Store = (*MemStore)(nil)
