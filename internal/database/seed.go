// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// seedTree is the sample hierarchy inserted into an empty development
// database: each root label with its direct children.
var seedTree = []struct {
	label    string
	children []string
}{
	{label: "Sports", children: []string{"Football", "Basketball", "Tennis"}},
	{label: "Music", children: []string{"Concerts", "Festivals"}},
	{label: "Conferences", children: []string{"Technology", "Science"}},
}

// Seed populates an empty categories table with a small sample forest.
// It is a no-op when any category already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, root := range seedTree {
		var rootID int64
		err := tx.QueryRow(
			`INSERT INTO categories (label) VALUES ($1) RETURNING id`, root.label,
		).Scan(&rootID)
		if err != nil {
			return fmt.Errorf("seed insert %q: %w", root.label, err)
		}
		inserted++

		for _, child := range root.children {
			if _, err := tx.Exec(
				`INSERT INTO categories (label, parent_id) VALUES ($1, $2)`, child, rootID,
			); err != nil {
				return fmt.Errorf("seed insert %q: %w", child, err)
			}
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with sample categories", "count", inserted)
	return nil
}
