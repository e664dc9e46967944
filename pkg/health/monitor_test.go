package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Payphone-Digital/leadgen/pkg/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type pooledPinger struct{ stubPinger }

func (pooledPinger) PoolStats() map[string]interface{} {
	return map[string]interface{}{"total_conns": uint32(4), "idle_conns": uint32(3)}
}

type togglePinger struct{ err *error }

func (p togglePinger) Ping(context.Context) error { return *p.err }

func TestMonitor_CriticalFailureIsUnhealthy(t *testing.T) {
	m := NewMonitor(time.Second, zap.NewNop())
	m.Register("database", &PingChecker{Target: stubPinger{err: errors.New("refused")}}, true)
	m.Register("redis", &PingChecker{}, false)

	report := m.CheckAll(context.Background())
	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.False(t, report.Healthy())
	assert.Equal(t, StatusDisabled, report.Checks["redis"].Status)
	assert.Contains(t, report.Checks["database"].Message, "refused")
}

func TestPingChecker_ReportsPoolStats(t *testing.T) {
	result := (&PingChecker{Target: pooledPinger{}}).Check(context.Background())

	assert.Equal(t, StatusHealthy, result.Status)
	assert.Equal(t, "total: 4, idle: 3", result.Message)
}

func TestMonitor_LogsStatusTransitionsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewMonitor(time.Second, zap.New(core))

	var pingErr error
	m.Register("redis", &PingChecker{Target: togglePinger{err: &pingErr}}, false)

	m.CheckAll(context.Background())
	m.CheckAll(context.Background())
	assert.Equal(t, 1, logs.FilterMessage("Health status changed").Len())

	pingErr = errors.New("down")
	m.CheckAll(context.Background())

	changes := logs.FilterMessage("Health status changed").All()
	require.Len(t, changes, 2)
	assert.Equal(t, "healthy", changes[1].ContextMap()["from"])
	assert.Equal(t, "unhealthy", changes[1].ContextMap()["to"])
}

func TestMonitor_OptionalFailureDegrades(t *testing.T) {
	m := NewMonitor(time.Second, nil)
	m.Register("database", &PingChecker{Target: stubPinger{}}, true)
	m.Register("redis", &PingChecker{Target: stubPinger{err: errors.New("down")}}, false)

	report := m.CheckAll(context.Background())
	assert.Equal(t, StatusDegraded, report.Status)
	assert.True(t, report.Healthy())
}

func TestBreakerChecker(t *testing.T) {
	cfg := circuit.DefaultConfig()
	cfg.Threshold = 1
	registry := circuit.NewBreakerRegistry(cfg, zap.NewNop())
	breaker := registry.GetOrCreate("gemini")

	checker := &BreakerChecker{Registry: registry}
	assert.Equal(t, StatusHealthy, checker.Check(context.Background()).Status)

	require.NoError(t, breaker.Allow())
	breaker.Record(errors.New("boom"))

	result := checker.Check(context.Background())
	assert.Equal(t, StatusDegraded, result.Status)
	assert.Equal(t, "gemini=OPEN", result.Message)
}

func TestStatus_MarshalText(t *testing.T) {
	text, err := StatusDegraded.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "degraded", string(text))
}
