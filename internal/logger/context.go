package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// WithContext returns a copy of ctx carrying log.
func WithContext(ctx context.Context, log logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the logger stored in ctx, or fallback when there is none.
func FromContext(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if log, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger); ok {
		return log
	}
	return fallback
}
