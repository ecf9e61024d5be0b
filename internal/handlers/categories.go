// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for the category API.
// Handlers decode and validate requests, delegate to the hierarchy
// manager and map its errors to status codes.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"taxonomy/internal/hierarchy"
)

// Categories groups the category endpoints.
type Categories struct {
	manager *hierarchy.Manager
}

// NewCategories creates the category handler group.
func NewCategories(manager *hierarchy.Manager) *Categories {
	return &Categories{manager: manager}
}

// Routes mounts the category endpoints on r.
func (h *Categories) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/{id}/subtree", h.Subtree)
	r.Put("/{id}/move", h.Move)
	r.Delete("/{id}", h.Delete)
}

// Create handles POST /categories?parentId=<id>.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	parentID, ok := queryID(r, "parentId")
	if !ok {
		writeValidation(w, map[string]string{"parentId": "must be a valid integer"})
		return
	}

	var req createCategoryRequest
	if msg, ok := decodeJSON(w, r, &req); !ok {
		writeValidation(w, map[string]string{"body": msg})
		return
	}
	if fields := validateStruct(req); fields != nil {
		writeValidation(w, fields)
		return
	}

	created, err := h.manager.Create(r.Context(), req.Label, parentID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Subtree handles GET /categories/{id}/subtree.
func (h *Categories) Subtree(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeValidation(w, map[string]string{"id": "must be a valid integer"})
		return
	}

	tree, err := h.manager.Subtree(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// Move handles PUT /categories/{id}/move.
func (h *Categories) Move(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeValidation(w, map[string]string{"id": "must be a valid integer"})
		return
	}

	var req moveCategoryRequest
	if msg, ok := decodeJSON(w, r, &req); !ok {
		writeValidation(w, map[string]string{"body": msg})
		return
	}

	if err := h.manager.Move(r.Context(), id, req.NewParentID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Delete handles DELETE /categories/{id}.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeValidation(w, map[string]string{"id": "must be a valid integer"})
		return
	}

	if err := h.manager.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
