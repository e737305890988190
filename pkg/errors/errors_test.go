package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"SellerPanelPlatform/pkg/errors"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   errors.ErrorCode
		status int
	}{
		{errors.ErrNotFound, http.StatusNotFound},
		{errors.ErrValidation, http.StatusBadRequest},
		{errors.ErrUnauthorized, http.StatusUnauthorized},
		{errors.ErrForbidden, http.StatusForbidden},
		{errors.ErrConflict, http.StatusConflict},
		{errors.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{errors.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := errors.New(tt.code, "test")
			assert.Equal(t, tt.status, err.HTTPStatus())
		})
	}
}

func TestGetUserMessage_PrefersDetails(t *testing.T) {
	err := errors.NewLocalized(errors.ErrValidation, "invalid email", "Некорректный email адрес")
	assert.Equal(t, "Некорректный email адрес", err.GetUserMessage())

	fallback := errors.New(errors.ErrUnauthorized, "token expired")
	assert.Equal(t, "Не авторизован", fallback.GetUserMessage())
}

func TestFrom_HidesInternalCause(t *testing.T) {
	cause := fmt.Errorf("connection refused to 10.0.0.5:5432")
	err := errors.From(cause)

	assert.Equal(t, errors.ErrInternal, err.Code)
	assert.NotContains(t, err.GetUserMessage(), "10.0.0.5")
}

func TestFrom_PassesThroughCustomError(t *testing.T) {
	original := errors.New(errors.ErrConflict, "duplicate")
	assert.Same(t, original, errors.From(original))
	assert.Nil(t, errors.From(nil))
}

func TestIsCode(t *testing.T) {
	err := errors.New(errors.ErrNotFound, "missing")
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
	assert.False(t, errors.IsCode(err, errors.ErrConflict))

	wrapped := fmt.Errorf("lookup failed: %w", err)
	assert.True(t, errors.IsCode(wrapped, errors.ErrNotFound))

	assert.False(t, errors.IsCode(fmt.Errorf("plain"), errors.ErrInternal))
	assert.False(t, errors.IsCode(nil, errors.ErrInternal))
}

func TestWrap_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := errors.Wrap(cause, errors.ErrInternal, "operation failed")

	assert.Equal(t, cause, err.Unwrap())
	assert.Contains(t, err.Error(), "operation failed")
	assert.Contains(t, err.Error(), "boom")
	assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "no-op"))
}
