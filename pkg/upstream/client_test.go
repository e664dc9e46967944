package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Payphone-Digital/leadgen/pkg/circuit"
	"github.com/Payphone-Digital/leadgen/pkg/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, maxRetries, threshold int) *Client {
	t.Helper()
	registry := circuit.NewBreakerRegistry(BreakerConfig(threshold, time.Hour), zap.NewNop())
	client := NewClient(Config{
		Name:       t.Name(),
		Timeout:    time.Second,
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
	}, pool.NewConnectionPool(pool.DefaultPoolConfig(), zap.NewNop()), registry)
	client.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return client
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		assert.Equal(t, "v", r.URL.Query().Get("k"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := newTestClient(t, 2, 5)

	var out struct {
		OK bool `json:"ok"`
	}
	err := client.DoJSON(context.Background(), Request{URL: srv.URL, Query: map[string][]string{"k": {"v"}}}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(t, 3, 1)

	_, err := client.Do(context.Background(), Request{URL: srv.URL})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	// a 400 does not open the breaker
	assert.Equal(t, circuit.StateClosed, client.breaker.State())
}

func TestClient_BreakerOpensAndFailsFast(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(t, 0, 2)

	for i := 0; i < 2; i++ {
		_, err := client.Do(context.Background(), Request{URL: srv.URL})
		require.Error(t, err)
	}

	_, err := client.Do(context.Background(), Request{URL: srv.URL})
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestClient_PerAttemptTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := newTestClient(t, 0, 5)
	client.config.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := client.Do(context.Background(), Request{URL: srv.URL})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_SendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Key"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, 0, 5)
	_, err := client.Do(context.Background(), Request{
		Method:  http.MethodPost,
		URL:     srv.URL,
		Headers: map[string]string{"X-Key": "secret"},
		Body:    map[string]string{"a": "b"},
	})
	require.NoError(t, err)
}
