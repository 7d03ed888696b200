// Package log builds the zap loggers used by the bookshelf server and adapts them to
// graphql-go's panic logging hook.
package log

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger writing at the given level ("debug", "info", "warn", "error").
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log: invalid level %q", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "log: build logger")
	}
	return logger, nil
}

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx, or "" if none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// PanicLogger logs panics recovered during query execution. It satisfies graphql-go's log.Logger.
type PanicLogger struct {
	Logger *zap.Logger
	// OnPanic, if set, is called after each logged panic.
	OnPanic func()
}

// LogPanic logs the recovered value together with the goroutine stack.
func (l *PanicLogger) LogPanic(ctx context.Context, value interface{}) {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	l.Logger.Error("graphql: panic occurred",
		zap.Any("panic", value),
		zap.String("request_id", RequestID(ctx)),
		zap.ByteString("stack", buf),
	)
	if l.OnPanic != nil {
		l.OnPanic()
	}
}
