package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds operation-scoped logging context for a single message
// being decoded, encoded, or a model being loaded.
type LogContext struct {
	TraceID   string    // OpenTelemetry trace ID
	SpanID    string    // OpenTelemetry span ID
	ServiceID uint16    // SOME/IP service id
	MethodID  uint16    // SOME/IP method id
	ClientID  uint16    // SOME/IP request client id
	SessionID uint16    // SOME/IP request session id
	Direction string    // "request" or "response"
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for a service/method pair.
func NewLogContext(serviceID, methodID uint16) *LogContext {
	return &LogContext{
		ServiceID: serviceID,
		MethodID:  methodID,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:   lc.TraceID,
		SpanID:    lc.SpanID,
		ServiceID: lc.ServiceID,
		MethodID:  lc.MethodID,
		ClientID:  lc.ClientID,
		SessionID: lc.SessionID,
		Direction: lc.Direction,
		StartTime: lc.StartTime,
	}
}

// WithDirection returns a copy with the direction set
func (lc *LogContext) WithDirection(direction string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Direction = direction
	}
	return clone
}

// WithRequestID returns a copy with the client/session id set
func (lc *LogContext) WithRequestID(clientID, sessionID uint16) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.ClientID = clientID
		clone.SessionID = sessionID
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
