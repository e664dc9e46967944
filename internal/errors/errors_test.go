package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"duplicate registration", ErrUserExists, http.StatusBadRequest},
		{"bad credentials", ErrInvalidCredentials, http.StatusBadRequest},
		{"unauthenticated", ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"forbidden", NewForbidden("lead:delete"), http.StatusForbidden},
		{"not found", ErrLeadNotFound, http.StatusNotFound},
		{"storage", WrapError(ErrStorage, errors.New("db down")), http.StatusInternalServerError},
		{"upstream", ErrUpstreamUnavailable, http.StatusServiceUnavailable},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped domain error", fmt.Errorf("ctx: %w", ErrBlogNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestWrapError_KeepsIdentity(t *testing.T) {
	cause := errors.New("unique violation")
	err := WrapError(ErrStorage, cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, CodeStorage))
	assert.Equal(t, "storage error", GetErrorMessage(err))
}

func TestNewForbidden_Message(t *testing.T) {
	err := NewForbidden("blog:create")

	assert.Equal(t, "Missing permission: blog:create", GetErrorMessage(err))
	assert.True(t, HasCode(err, CodeForbidden))
}
