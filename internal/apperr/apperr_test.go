package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesKind(t *testing.T) {
	err := NotFound("Рецепт не найден")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "Рецепт не найден", err.Error())
}

func TestMessageUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("load recipe: %w", Forbidden("not your recipe"))

	assert.Equal(t, "not your recipe", Message(err))
	assert.Equal(t, ErrForbidden, Kind(err))
	assert.Equal(t, "", Message(nil))
}

func TestInvalidArgumentIsValidation(t *testing.T) {
	assert.True(t, errors.Is(Validation("bad bounds"), ErrInvalidArgument))
}

func TestStatusRoundTrip(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{Validation("x"), http.StatusBadRequest},
		{Conflict("x"), http.StatusConflict},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Forbidden("x"), http.StatusForbidden},
		{NotFound("x"), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		code := HTTPStatus(tt.err)
		assert.Equal(t, tt.code, code)
		back := FromStatus(code, "x")
		assert.Equal(t, Kind(tt.err), Kind(back))
	}

	assert.True(t, errors.Is(FromStatus(http.StatusUnprocessableEntity, "x"), ErrValidation))
}
