package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Request limits.
const (
	maxLabelLen  = 255
	maxBodyBytes = 1 << 20
)

// validate is shared across requests; validator caches struct metadata
// and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validator: %v", err))
	}
	return v
}

// createCategoryRequest is the body of POST /categories.
type createCategoryRequest struct {
	Label string `json:"label" validate:"required,notblank,max=255"`
}

// moveCategoryRequest is the body of PUT /categories/{id}/move. A null or
// missing newParentId makes the category a root.
type moveCategoryRequest struct {
	NewParentID *int64 `json:"newParentId"`
}

// validateStruct runs the struct's validate tags and returns one message
// per failing field, or nil when the value is valid.
func validateStruct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "must not be blank"
	case "max":
		return "size must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

// decodeJSON reads exactly one JSON document from the request body into
// dst; anything after it other than whitespace is rejected. It returns a
// client-facing message on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) (string, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return "Request body is required", false
		case errors.As(err, &maxErr):
			return "Request body is too large", false
		case errors.As(err, &typeErr):
			return fmt.Sprintf("Field %q has the wrong type", typeErr.Field), false
		default:
			return "Malformed JSON request body", false
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return "Malformed JSON request body", false
	}
	return "", true
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, bool) {
	return parseID(chi.URLParam(r, "id"))
}

// queryID parses an optional id query parameter. An absent or empty
// parameter yields nil.
func queryID(r *http.Request, name string) (*int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, ok := parseID(raw)
	if !ok {
		return nil, false
	}
	return &id, true
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
