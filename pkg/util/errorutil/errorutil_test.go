package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain error passes through", NewForbidden("no"), CodeForbidden, http.StatusForbidden},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewConflict("busy", nil)), CodeConflict, http.StatusConflict},
		{"no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), CodeNotFound, http.StatusNotFound},
		{"fiber not found", fiber.ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"fiber method not allowed", fiber.ErrMethodNotAllowed, "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed},
		{"fiber server error", fiber.ErrServiceUnavailable, CodeInternal, http.StatusInternalServerError},
		{"anything else", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDomainError(tc.err)
			assert.Equal(t, tc.code, got.Code)
			assert.Equal(t, tc.status, got.HTTPStatus)
		})
	}
	assert.Nil(t, ToDomainError(nil))
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(NewUnauthorized("x"), CodeUnauthorized))
	assert.False(t, HasCode(NewUnauthorized("x"), CodeForbidden))
	assert.False(t, HasCode(errors.New("x"), CodeUnauthorized))
}

func TestNewNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Complaint with id 7 not found", NewNotFound("Complaint with id 7", nil).Error())
}
