package logger

import (
	"context"
	"time"

	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogBuilder accumulates fields for one log entry enriched from ctx
type ContextLogBuilder struct {
	logger     *OptimizedLogger
	ctx        context.Context
	level      zapcore.Level
	fields     []zap.Field
	message    string
	shouldLog  bool
	autoFields bool
}

// WithContext starts an entry bound to ctx
func (ol *OptimizedLogger) WithContext(ctx context.Context) *ContextLogBuilder {
	return &ContextLogBuilder{
		logger:     ol,
		ctx:        ctx,
		level:      zapcore.InfoLevel,
		fields:     make([]zap.Field, 0, 12),
		shouldLog:  true,
		autoFields: true,
	}
}

// AutoFields toggles extraction of request metadata
func (clb *ContextLogBuilder) AutoFields(auto bool) *ContextLogBuilder {
	clb.autoFields = auto
	return clb
}

// extractContextFields copies request metadata from ctx into the entry
func (clb *ContextLogBuilder) extractContextFields() {
	if !clb.autoFields || clb.ctx == nil {
		return
	}

	if requestID := ctxutil.GetRequestID(clb.ctx); requestID != "" {
		clb.fields = append(clb.fields, zap.String("request_id", requestID))
	}

	if clientIP := ctxutil.GetClientIP(clb.ctx); clientIP != "" {
		clb.fields = append(clb.fields, zap.String("client_ip", clientIP))
	}

	if userID := ctxutil.GetUserID(clb.ctx); userID != "" {
		clb.fields = append(clb.fields, zap.String("user_id", userID))
	}

	if module := ctxutil.GetModule(clb.ctx); module != "" {
		clb.fields = append(clb.fields, zap.String("module", module))
	}

	if function := ctxutil.GetFunction(clb.ctx); function != "" {
		clb.fields = append(clb.fields, zap.String("function", function))
	}

	if elapsed := ctxutil.GetDuration(clb.ctx); elapsed > 0 {
		clb.fields = append(clb.fields, zap.Duration("elapsed", elapsed))
	}
}

func (clb *ContextLogBuilder) Info(message string) *ContextLogBuilder {
	if !clb.logger.ShouldLog(zapcore.InfoLevel) {
		clb.shouldLog = false
		return clb
	}
	clb.level = zapcore.InfoLevel
	clb.message = message
	clb.extractContextFields()
	return clb
}

func (clb *ContextLogBuilder) Warn(message string) *ContextLogBuilder {
	if !clb.logger.ShouldLog(zapcore.WarnLevel) {
		clb.shouldLog = false
		return clb
	}
	clb.level = zapcore.WarnLevel
	clb.message = message
	clb.extractContextFields()
	return clb
}

func (clb *ContextLogBuilder) Error(message string) *ContextLogBuilder {
	if !clb.logger.ShouldLog(zapcore.ErrorLevel) {
		clb.shouldLog = false
		return clb
	}
	clb.level = zapcore.ErrorLevel
	clb.message = message
	clb.extractContextFields()
	return clb
}

func (clb *ContextLogBuilder) Debug(message string) *ContextLogBuilder {
	if !clb.logger.ShouldLog(zapcore.DebugLevel) {
		clb.shouldLog = false
		return clb
	}
	clb.level = zapcore.DebugLevel
	clb.message = message
	clb.extractContextFields()
	return clb
}

func (clb *ContextLogBuilder) String(key, value string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Strings(key string, values []string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Strings(key, values))
	}
	return clb
}

func (clb *ContextLogBuilder) Int(key string, value int) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Int64(key string, value int64) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int64(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Bool(key string, value bool) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Bool(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Float64(key string, value float64) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Float64(key, value))
	}
	return clb
}

func (clb *ContextLogBuilder) Duration(value time.Duration) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Duration("duration", value))
	}
	return clb
}

func (clb *ContextLogBuilder) Err(err error) *ContextLogBuilder {
	if clb.shouldLog && err != nil {
		clb.fields = append(clb.fields, zap.Error(err))
	}
	return clb
}

func (clb *ContextLogBuilder) Any(key string, value interface{}) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Any(key, value))
	}
	return clb
}

// Fields adds every entry of the map
func (clb *ContextLogBuilder) Fields(fields map[string]interface{}) *ContextLogBuilder {
	if clb.shouldLog {
		for k, v := range fields {
			clb.fields = append(clb.fields, zap.Any(k, v))
		}
	}
	return clb
}

func (clb *ContextLogBuilder) Method(method string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String("method", method))
	}
	return clb
}

func (clb *ContextLogBuilder) Path(path string) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.String("path", path))
	}
	return clb
}

func (clb *ContextLogBuilder) StatusCode(code int) *ContextLogBuilder {
	if clb.shouldLog {
		clb.fields = append(clb.fields, zap.Int("status_code", code))
	}
	return clb
}

// Log writes the entry unless it was filtered out
func (clb *ContextLogBuilder) Log() {
	if !clb.shouldLog {
		return
	}

	switch clb.level {
	case zapcore.DebugLevel:
		clb.logger.logger.Debug(clb.message, clb.fields...)
	case zapcore.InfoLevel:
		clb.logger.logger.Info(clb.message, clb.fields...)
	case zapcore.WarnLevel:
		clb.logger.logger.Warn(clb.message, clb.fields...)
	case zapcore.ErrorLevel:
		clb.logger.logger.Error(clb.message, clb.fields...)
	}
}

func WithContext(ctx context.Context) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx)
}

func InfoWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Info(message)
}

func WarnWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Warn(message)
}

func ErrorWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Error(message)
}

func DebugWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return GetOptimizedLogger().WithContext(ctx).Debug(message)
}
