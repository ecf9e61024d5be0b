package hierarchy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"taxonomy/internal/models"
)

func TestBuildTree_UnknownRoot(t *testing.T) {
	assert.Nil(t, buildTree(1, nil))
	assert.Nil(t, buildTree(1, []models.Category{{ID: 2}}))
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{notFound("x %d", 1), "not_found"},
		{conflict("x"), "conflict"},
		{invalidOperation("x"), "invalid_operation"},
		{validation("x"), "validation"},
		{errors.New("x"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err))
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := notFound("Category not found with id: %d", 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "conflict", ErrConflict.Error())
}
