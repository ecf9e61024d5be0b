// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category is a labelled node in the category forest. A nil ParentID
// marks a root.
type Category struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	ParentID  *int64    `json:"parentId"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Children is only populated for tree views. It is never nil once a
	// category leaves the hierarchy manager.
	Children []*Category `json:"children"`
}

// walk visits c and every descendant in pre-order.
func (c *Category) walk(fn func(*Category)) {
	fn(c)
	for _, child := range c.Children {
		child.walk(fn)
	}
}

// IDs returns the ids of c and all of its descendants in pre-order.
func (c *Category) IDs() []int64 {
	var ids []int64
	c.walk(func(n *Category) { ids = append(ids, n.ID) })
	return ids
}
