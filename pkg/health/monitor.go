package health

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Payphone-Digital/leadgen/pkg/circuit"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Status represents health check status
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
	StatusDegraded
	StatusDisabled
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusUnhealthy:
		return "unhealthy"
	case StatusDegraded:
		return "degraded"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult represents the result of a health check
type CheckResult struct {
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Latency   time.Duration `json:"latency_ns"`
	LastCheck time.Time     `json:"last_check"`
}

// Checker interface for health checks
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// CheckerFunc adapts a function to Checker
type CheckerFunc func(ctx context.Context) CheckResult

func (f CheckerFunc) Check(ctx context.Context) CheckResult { return f(ctx) }

// Pinger is anything with a context-aware Ping, such as the Redis client
type Pinger interface {
	Ping(ctx context.Context) error
}

func timed(start time.Time, status Status, message string) CheckResult {
	return CheckResult{
		Status:    status,
		Message:   message,
		Latency:   time.Since(start),
		LastCheck: start,
	}
}

// DatabaseChecker pings the pool behind a gorm handle
type DatabaseChecker struct {
	DB *gorm.DB
}

func (c *DatabaseChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	if c.DB == nil {
		return timed(start, StatusUnhealthy, "database connection not initialized")
	}

	sqlDB, err := c.DB.DB()
	if err != nil {
		return timed(start, StatusUnhealthy, "failed to get database instance: "+err.Error())
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return timed(start, StatusUnhealthy, "database ping failed: "+err.Error())
	}

	stats := sqlDB.Stats()
	return timed(start, StatusHealthy,
		"open: "+strconv.Itoa(stats.OpenConnections)+", idle: "+strconv.Itoa(stats.Idle))
}

// PoolReporter exposes connection pool counters, as the Redis client does
type PoolReporter interface {
	PoolStats() map[string]interface{}
}

// PingChecker reports disabled when Target is nil. Targets that are also
// PoolReporters get their pool counters in the message.
type PingChecker struct {
	Target Pinger
}

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	if c.Target == nil {
		return timed(start, StatusDisabled, "")
	}
	if err := c.Target.Ping(ctx); err != nil {
		return timed(start, StatusUnhealthy, "ping failed: "+err.Error())
	}
	if reporter, ok := c.Target.(PoolReporter); ok {
		stats := reporter.PoolStats()
		return timed(start, StatusHealthy,
			fmt.Sprintf("total: %v, idle: %v", stats["total_conns"], stats["idle_conns"]))
	}
	return timed(start, StatusHealthy, "")
}

// BreakerChecker is degraded while any upstream circuit is not closed
type BreakerChecker struct {
	Registry *circuit.BreakerRegistry
}

func (c *BreakerChecker) Check(_ context.Context) CheckResult {
	start := time.Now()
	if c.Registry == nil {
		return timed(start, StatusDisabled, "")
	}

	var tripped []string
	for _, snap := range c.Registry.Snapshots() {
		if snap.State != circuit.StateClosed.String() {
			tripped = append(tripped, snap.Name+"="+snap.State)
		}
	}
	if len(tripped) == 0 {
		return timed(start, StatusHealthy, "")
	}
	sort.Strings(tripped)

	message := tripped[0]
	for _, t := range tripped[1:] {
		message += ", " + t
	}
	return timed(start, StatusDegraded, message)
}

type registration struct {
	checker  Checker
	critical bool
}

// Report is the aggregate of one run over every registered checker
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Healthy reports whether no critical dependency is unhealthy
func (r Report) Healthy() bool {
	return r.Status != StatusUnhealthy
}

// Monitor runs named checks on demand or on an interval
type Monitor struct {
	mu       sync.RWMutex
	checkers map[string]registration
	results  map[string]CheckResult
	timeout  time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	running  bool
}

func NewMonitor(timeout time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Monitor{
		checkers: make(map[string]registration),
		results:  make(map[string]CheckResult),
		timeout:  timeout,
		logger:   logger,
	}
}

// Register adds a checker. A failing critical checker makes the report unhealthy,
// a failing non-critical one only degrades it.
func (m *Monitor) Register(name string, checker Checker, critical bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkers[name] = registration{checker: checker, critical: critical}
	m.logger.Info("Registered health checker",
		zap.String("name", name),
		zap.Bool("critical", critical),
	)
}

// CheckAll runs every checker concurrently and aggregates the results
func (m *Monitor) CheckAll(ctx context.Context) Report {
	m.mu.RLock()
	checkers := make(map[string]registration, len(m.checkers))
	for name, reg := range m.checkers {
		checkers[name] = reg
	}
	m.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var (
		wg      sync.WaitGroup
		resMu   sync.Mutex
		results = make(map[string]CheckResult, len(checkers))
	)
	for name, reg := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := reg.checker.Check(ctx)
			resMu.Lock()
			results[name] = result
			resMu.Unlock()
		}()
	}
	wg.Wait()

	report := Report{Status: StatusHealthy, Checks: results}
	for name, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			if checkers[name].critical {
				report.Status = StatusUnhealthy
			} else if report.Status == StatusHealthy {
				report.Status = StatusDegraded
			}
		case StatusDegraded:
			if report.Status == StatusHealthy {
				report.Status = StatusDegraded
			}
		}

		if result.Status == StatusUnhealthy || result.Status == StatusDegraded {
			m.logger.Warn("Health check failed",
				zap.String("name", name),
				zap.String("status", result.Status.String()),
				zap.String("message", result.Message),
				zap.Duration("latency", result.Latency),
			)
		}
	}

	m.mu.Lock()
	for name, result := range results {
		if prev, ok := m.results[name]; !ok || prev.Status != result.Status {
			m.logger.Info("Health status changed",
				zap.String("name", name),
				zap.String("from", prev.Status.String()),
				zap.String("to", result.Status.String()),
			)
		}
		m.results[name] = result
	}
	m.mu.Unlock()

	return report
}

// Start runs CheckAll every interval until Stop
func (m *Monitor) Start(interval time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return errors.New("health monitor already running")
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		m.CheckAll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.CheckAll(ctx)
			}
		}
	}()
	return nil
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	m.cancel()
}
