package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Payphone-Digital/leadgen/pkg/circuit"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/Payphone-Digital/leadgen/pkg/pool"
)

// ErrUnavailable marks calls rejected by an open breaker
var ErrUnavailable = errors.New("upstream unavailable")

const maxResponseBytes = 8 << 20

// StatusError is a non-2xx answer from the upstream
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Retryable reports whether another attempt may succeed
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// CountsAsFailure is the breaker classifier: caller cancellation and
// non-retryable client errors say nothing about upstream health.
func CountsAsFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return true
}

// BreakerConfig builds the breaker settings used for every upstream
func BreakerConfig(threshold int, timeout time.Duration) circuit.Config {
	cfg := circuit.DefaultConfig()
	cfg.Threshold = threshold
	cfg.Timeout = timeout
	cfg.IsFailure = CountsAsFailure
	return cfg
}

type Config struct {
	Name       string
	Timeout    time.Duration // per attempt
	MaxRetries int
	RetryDelay time.Duration
	MaxBackoff time.Duration
}

type Request struct {
	Method  string
	URL     string
	Query   url.Values
	Headers map[string]string
	Body    interface{} // marshalled to JSON when not nil
}

// Client is the single boundary every external call goes through:
// breaker admission, per-attempt timeout and retry with exponential backoff.
type Client struct {
	config  Config
	http    *http.Client
	breaker *circuit.Breaker
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewClient(config Config, connections *pool.ConnectionPool, breakers *circuit.BreakerRegistry) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 500 * time.Millisecond
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = 10 * time.Second
	}

	return &Client{
		config:  config,
		http:    connections.GetHTTPClient(config.Name),
		breaker: breakers.GetOrCreate(config.Name),
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do executes req and returns the response body of a 2xx answer
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		logger.WarnWithContext(ctx, "Upstream call rejected by circuit breaker").
			String("upstream", c.config.Name).
			Err(err).
			Log()
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, c.config.Name, err)
	}

	body, err := c.doWithRetry(ctx, req)
	c.breaker.Record(err)
	return body, err
}

// DoJSON executes req and decodes the 2xx body into out
func (c *Client) DoJSON(ctx context.Context, req Request, out interface{}) error {
	body, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.config.Name, err)
	}
	return nil
}

func (c *Client) doWithRetry(ctx context.Context, req Request) ([]byte, error) {
	var (
		body    []byte
		lastErr error
	)
	backoff := c.config.RetryDelay
	start := time.Now()

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, lastErr = c.doSingleRequest(ctx, req)
		if lastErr == nil {
			logger.DebugWithContext(ctx, "Upstream call succeeded").
				String("upstream", c.config.Name).
				Int("attempt", attempt+1).
				Duration(time.Since(start)).
				Log()
			return body, nil
		}

		var statusErr *StatusError
		if errors.As(lastErr, &statusErr) && !statusErr.Retryable() {
			break
		}
		if attempt == c.config.MaxRetries {
			break
		}

		logger.WarnWithContext(ctx, "Upstream attempt failed, retrying").
			String("upstream", c.config.Name).
			Int("attempt", attempt+1).
			Int("max_retries", c.config.MaxRetries).
			Err(lastErr).
			Log()

		if err := c.sleep(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
		if backoff > c.config.MaxBackoff {
			backoff = c.config.MaxBackoff
		}
	}

	logger.ErrorWithContext(ctx, "Upstream call failed").
		String("upstream", c.config.Name).
		Duration(time.Since(start)).
		Err(lastErr).
		Log()

	return nil, lastErr
}

func (c *Client) doSingleRequest(ctx context.Context, req Request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, values := range req.Query {
			for _, v := range values {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: respData}
	}

	return respData, nil
}
