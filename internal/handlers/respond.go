// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"taxonomy/internal/hierarchy"
	"taxonomy/internal/middleware"
)

// Error categories reported in the "error" field of the response body.
const (
	errNotFound         = "Entity Not Found"
	errAlreadyExists    = "Entity Already Exists"
	errInvalidOperation = "Invalid Operation"
	errValidation       = "Validation Error"
	errInternal         = "Internal Server Error"
)

// errorBody is the JSON envelope written for every failed request.
type errorBody struct {
	Status  int               `json:"status"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// writeJSON serializes data as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, category, msg string) {
	writeJSON(w, status, errorBody{Status: status, Error: category, Message: msg})
}

// writeValidation reports per-field validation failures as a 400.
func writeValidation(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Status:  http.StatusBadRequest,
		Error:   errValidation,
		Message: "Invalid request data",
		Errors:  fields,
	})
}

// writeDomainError maps a hierarchy failure to its HTTP status. Anything
// that is not a domain error is logged and reported as a generic 500 so
// storage details never reach the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch hierarchy.KindOf(err) {
	case hierarchy.KindNotFound:
		writeError(w, http.StatusNotFound, errNotFound, err.Error())
	case hierarchy.KindConflict:
		writeError(w, http.StatusConflict, errAlreadyExists, err.Error())
	case hierarchy.KindInvalidOperation:
		writeError(w, http.StatusConflict, errInvalidOperation, err.Error())
	case hierarchy.KindValidation:
		writeValidation(w, map[string]string{"label": err.Error()})
	default:
		slog.Error("category request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFrom(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, errInternal, "An unexpected error occurred")
	}
}
