package cassowary

import "go.uber.org/zap"

// zapLogger adapts a *zap.Logger to the Logger interface.
type zapLogger struct {
	base *zap.Logger
}

// NewZapLogger wraps a *zap.Logger as a Logger, so solver lifecycle events
// (AddConstraint, RemoveConstraint, BeginEdit, Resolve, EndEdit) flow into the caller's
// existing structured logging pipeline.
func NewZapLogger(base *zap.Logger) Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &zapLogger{base: base}
}

func (l *zapLogger) Log(event string, fields ...Field) {
	zf := make([]zap.Field, len(fields))
	for i, f := range fields {
		zf[i] = zap.Any(f.Key, f.Value)
	}
	l.base.Info(event, zf...)
}
