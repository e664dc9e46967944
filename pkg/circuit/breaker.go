package circuit

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State represents circuit breaker state
type State int

const (
	StateClosed   State = iota // calls pass through
	StateOpen                  // calls fail fast
	StateHalfOpen              // probing whether the upstream recovered
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// Config defines circuit breaker configuration
type Config struct {
	Threshold        int           // consecutive failures before opening
	Timeout          time.Duration // open period before probing
	SuccessThreshold int           // probe successes needed to close
	MaxHalfOpen      int           // concurrent probes allowed

	// IsFailure decides which errors count against the upstream.
	// Nil counts every error except caller cancellation.
	IsFailure func(error) bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Threshold:        5,
		Timeout:          30 * time.Second,
		SuccessThreshold: 2,
		MaxHalfOpen:      1,
	}
}

func defaultIsFailure(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// Snapshot is a point-in-time view of one breaker
type Snapshot struct {
	Name        string    `json:"name"`
	State       string    `json:"state"`
	Failures    int       `json:"failures"`
	LastFailure time.Time `json:"last_failure,omitempty"`
}

// Breaker guards one upstream
type Breaker struct {
	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	probes      int
	lastFailure time.Time
	config      Config
	logger      *zap.Logger
	name        string
	now         func() time.Time
}

// NewBreaker creates a new circuit breaker
func NewBreaker(name string, config Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.IsFailure == nil {
		config.IsFailure = defaultIsFailure
	}
	if config.MaxHalfOpen <= 0 {
		config.MaxHalfOpen = 1
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}

	return &Breaker{
		state:  StateClosed,
		config: config,
		logger: logger,
		name:   name,
		now:    time.Now,
	}
}

// Execute runs fn when the breaker admits the call and records its outcome
func (b *Breaker) Execute(fn func() error) error {
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn()
	b.Record(err)
	return err
}

// Allow admits or rejects a call. Every admitted call must be followed by Record.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.lastFailure) < b.config.Timeout {
			return ErrCircuitOpen
		}
		b.transitionTo(StateHalfOpen)
		b.probes = 1
		return nil

	case StateHalfOpen:
		if b.probes >= b.config.MaxHalfOpen {
			return ErrTooManyRequests
		}
		b.probes++
		return nil

	default:
		return nil
	}
}

// Record records the result of an admitted call
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen && b.probes > 0 {
		b.probes--
	}

	switch {
	case err == nil:
		b.recordSuccess()
	case b.config.IsFailure(err):
		b.recordFailure()
	}
}

// recordFailure must hold lock
func (b *Breaker) recordFailure() {
	b.failures++
	b.successes = 0
	b.lastFailure = b.now()

	switch b.state {
	case StateClosed:
		if b.failures >= b.config.Threshold {
			b.transitionTo(StateOpen)
		}
	case StateHalfOpen:
		b.transitionTo(StateOpen)
	}
}

// recordSuccess must hold lock
func (b *Breaker) recordSuccess() {
	b.failures = 0

	if b.state == StateHalfOpen {
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.transitionTo(StateClosed)
		}
	}
}

// transitionTo must hold lock
func (b *Breaker) transitionTo(newState State) {
	oldState := b.state
	b.state = newState
	b.probes = 0
	b.successes = 0

	if newState == StateClosed {
		b.failures = 0
	}

	b.logger.Info("Circuit breaker state changed",
		zap.String("name", b.name),
		zap.String("from", oldState.String()),
		zap.String("to", newState.String()),
		zap.Int("failures", b.failures),
	)
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Snapshot{
		Name:        b.name,
		State:       b.state.String(),
		Failures:    b.failures,
		LastFailure: b.lastFailure,
	}
}

// Reset forces the breaker closed
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = StateClosed
	b.failures = 0
	b.successes = 0
	b.probes = 0

	b.logger.Info("Circuit breaker reset", zap.String("name", b.name))
}

// BreakerRegistry hands out one breaker per upstream name
type BreakerRegistry struct {
	mu       sync.RWMutex
	breakers map[string]*Breaker
	config   Config
	logger   *zap.Logger
}

func NewBreakerRegistry(config Config, logger *zap.Logger) *BreakerRegistry {
	return &BreakerRegistry{
		breakers: make(map[string]*Breaker),
		config:   config,
		logger:   logger,
	}
}

func (r *BreakerRegistry) GetOrCreate(name string) *Breaker {
	r.mu.RLock()
	breaker, exists := r.breakers[name]
	r.mu.RUnlock()

	if exists {
		return breaker
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if breaker, exists = r.breakers[name]; exists {
		return breaker
	}

	breaker = NewBreaker(name, r.config, r.logger)
	r.breakers[name] = breaker
	return breaker
}

// Snapshots returns the state of every registered breaker
func (r *BreakerRegistry) Snapshots() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Snapshot, 0, len(r.breakers))
	for _, breaker := range r.breakers {
		out = append(out, breaker.Snapshot())
	}
	return out
}
