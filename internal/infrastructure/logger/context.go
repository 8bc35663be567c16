package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	projectIDKey contextKey = "project_id"
)

// WithContext returns a copy of ctx carrying l
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger carried by ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithProjectID stores the project being operated on in ctx
func WithProjectID(ctx context.Context, projectID string) context.Context {
	return context.WithValue(ctx, projectIDKey, projectID)
}

// RequestID returns the request ID stored in ctx
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ProjectID returns the project ID stored in ctx
func ProjectID(ctx context.Context) string {
	id, _ := ctx.Value(projectIDKey).(string)
	return id
}

// TraceFields returns trace_id and span_id fields for the span in ctx
func TraceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// ContextLogger logs with the correlation fields found in its context
type ContextLogger struct {
	ctx context.Context
	l   *zap.Logger
}

// L returns a ContextLogger for ctx.
// Usage: logger.L(ctx).Info("project created", zap.String("code", code))
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, l: FromContext(ctx)}
}

// For returns a ContextLogger that writes to l instead of the context logger
func For(ctx context.Context, l *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, l: l}
}

func (cl *ContextLogger) enriched() *zap.Logger {
	l := cl.l
	if l == nil {
		l = zap.NewNop()
	}
	fields := TraceFields(cl.ctx)
	if id := RequestID(cl.ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := ProjectID(cl.ctx); id != "" {
		fields = append(fields, zap.String("project_id", id))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// With returns a child ContextLogger with extra fields
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	l := cl.l
	if l == nil {
		l = zap.NewNop()
	}
	return &ContextLogger{ctx: cl.ctx, l: l.With(fields...)}
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) { cl.enriched().Debug(msg, fields...) }
func (cl *ContextLogger) Info(msg string, fields ...zap.Field)  { cl.enriched().Info(msg, fields...) }
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field)  { cl.enriched().Warn(msg, fields...) }
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) { cl.enriched().Error(msg, fields...) }

// Zap returns the enriched *zap.Logger
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enriched()
}
