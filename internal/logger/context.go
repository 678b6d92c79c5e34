package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxLoggerKey struct{}

// ContextWithLogger attaches a logger to the context
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, l)
}

// FromContext retrieves the logger from context, falling back to the
// package logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxLoggerKey{}).(*zap.Logger); ok {
		return l
	}
	return logger.Desugar()
}

// With creates a child context with additional logger fields
func With(ctx context.Context, fields ...zap.Field) context.Context {
	return ContextWithLogger(ctx, FromContext(ctx).With(fields...))
}

// WithPasteboard tags every entry logged through ctx with the medium name
func WithPasteboard(ctx context.Context, name string) context.Context {
	return With(ctx, zap.String("pasteboard", name))
}

// Sugar returns a sugared logger from context
func Sugar(ctx context.Context) *zap.SugaredLogger {
	return FromContext(ctx).Sugar()
}
