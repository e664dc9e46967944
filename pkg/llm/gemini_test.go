package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Payphone-Digital/leadgen/pkg/circuit"
	"github.com/Payphone-Digital/leadgen/pkg/pool"
	"github.com/Payphone-Digital/leadgen/pkg/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := upstream.NewClient(
		upstream.Config{Name: "gemini", Timeout: time.Second},
		pool.NewConnectionPool(pool.DefaultPoolConfig(), zap.NewNop()),
		circuit.NewBreakerRegistry(upstream.BreakerConfig(5, time.Minute), zap.NewNop()),
	)
	return NewGemini(client, srv.URL, "gemini-1.5-flash", "test-key")
}

func TestGemini_Generate(t *testing.T) {
	g := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		assert.Equal(t, "hello", body.Contents[0].Parts[0].Text)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hi "},{"text":"there"}]}}]}`))
	})

	text, err := g.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", text)
}

func TestGemini_NoCandidates(t *testing.T) {
	g := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := g.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
