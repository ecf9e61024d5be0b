package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody matches the API's error response shape.
type errorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error using the standard status text as the
// error category.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	})
}
