package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("appointment")))
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("wrapped: %w", Forbidden("nope"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindInternal:     http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, k.Status(), k.String())
	}
}

func TestIsMatchesKind(t *testing.T) {
	assert.ErrorIs(t, NotFound("question"), ErrNotFound)
	assert.NotErrorIs(t, NotFound("question"), ErrForbidden)
}

func TestMessageHidesInternals(t *testing.T) {
	err := Internal("insert appointment", errors.New("connection refused"))
	assert.Equal(t, "Internal server error", Message(err))
	assert.Equal(t, "Internal server error", Message(errors.New("raw")))
	assert.Equal(t, "user not found", Message(NotFound("user")))
}
