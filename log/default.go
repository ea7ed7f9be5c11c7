package log

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"
)

var defaultLog atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr)
	defaultLog.Store(&l)
}

// Default returns the process-wide default logger.
func Default() Logger { return *defaultLog.Load() }

// SetDefault replaces the process-wide default logger.
func SetDefault(l Logger) { defaultLog.Store(&l) }

// Config applies opts to the default logger.
func Config(opts ...Option) {
	l := Default().Wrap(opts...)
	defaultLog.Store(&l)
}

// With returns the default logger with attrs added to every record.
func With(attrs ...slog.Attr) Logger { return Default().With(attrs...) }

// The package-level functions do not delegate to the Logger methods, so that
// the caller depth seen by runtime.Callers matches.
func logDefault(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	l := Default()
	if ctx == nil {
		ctx = context.Background()
	}

	if !l.Enabled(ctx, level) {
		return
	}

	var pc uintptr

	if l.cfg.caller {
		var pcs [1]uintptr

		runtime.Callers(3, pcs[:])
		pc = pcs[0]
	}

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pc)
	r.AddAttrs(attrs...)

	_ = l.handler.Handle(ctx, r)
}

func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logDefault(ctx, LevelTrace, msg, attrs)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logDefault(ctx, LevelDebug, msg, attrs)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logDefault(ctx, LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logDefault(ctx, LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logDefault(ctx, LevelError, msg, attrs)
}

func Trace(msg string, attrs ...slog.Attr) {
	logDefault(context.Background(), LevelTrace, msg, attrs)
}

func Debug(msg string, attrs ...slog.Attr) {
	logDefault(context.Background(), LevelDebug, msg, attrs)
}

func Info(msg string, attrs ...slog.Attr) {
	logDefault(context.Background(), LevelInfo, msg, attrs)
}

func Warn(msg string, attrs ...slog.Attr) {
	logDefault(context.Background(), LevelWarn, msg, attrs)
}

func Error(msg string, attrs ...slog.Attr) {
	logDefault(context.Background(), LevelError, msg, attrs)
}
