package ctxutil

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContextWithRequest(t *testing.T) {
	req := httptest.NewRequest("POST", "/chat", nil)
	req.Header.Set("X-Request-ID", "req-123")
	req.Header.Set("User-Agent", "unit-test")

	ctx := NewContextWithRequest(context.Background(), req, "handler", "Chat")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "unit-test", GetUserAgent(ctx))
	assert.Equal(t, "handler", GetModule(ctx))
	assert.Equal(t, "Chat", GetFunction(ctx))
	assert.False(t, GetStartTime(ctx).IsZero())
}

func TestNewContextWithRequest_GeneratesRequestID(t *testing.T) {
	req := httptest.NewRequest("GET", "/leads", nil)

	ctx := NewContextWithRequest(context.Background(), req, "handler", "ListLeads")

	assert.NotEmpty(t, GetRequestID(ctx))
}

func TestWithFunction_Overrides(t *testing.T) {
	ctx := WithFunction(context.Background(), "handler", "Login")
	ctx = WithFunction(ctx, "service", "Login")

	assert.Equal(t, "service", GetModule(ctx))
	assert.Equal(t, "Login", GetFunction(ctx))
	assert.Empty(t, GetUserID(ctx))
}
