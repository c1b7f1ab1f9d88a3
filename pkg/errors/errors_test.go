package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := NotFound("product", "p-1")
	assert.Contains(t, e.Error(), "NOT_FOUND")
	assert.Contains(t, e.Error(), "p-1")

	wrapped := &AppError{Code: "X", Message: "boom", Err: errors.New("inner")}
	assert.Contains(t, wrapped.Error(), "inner")
}

func TestAppError_Unwrap(t *testing.T) {
	e := Conflict("product out of stock")
	assert.True(t, errors.Is(e, ErrConflict))

	e2 := RateLimited("too many login attempts")
	assert.True(t, errors.Is(e2, ErrRateLimited))
}

func TestHTTPStatus_AppError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NotFound("order", "o-1"), http.StatusNotFound},
		{AlreadyExists("user", "email", "a@b.com"), http.StatusConflict},
		{InvalidInput("phone is required"), http.StatusBadRequest},
		{Unauthorized("invalid session"), http.StatusUnauthorized},
		{Forbidden("admin only"), http.StatusForbidden},
		{Conflict("out of stock"), http.StatusConflict},
		{RateLimited("slow down"), http.StatusTooManyRequests},
		{Internal(errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(ErrRateLimited))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("anything else")))
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("check stock: %w", ErrConflict)
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestWrap(t *testing.T) {
	inner := errors.New("pq: connection refused")
	err := Wrap(inner, "load user")
	assert.True(t, errors.Is(err, inner))
	assert.Contains(t, err.Error(), "load user")
}
