// Package logger provides a zap-based structured logger that stamps every
// entry with the service name and, when one is active, the trace id.
package logger

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity a Logger writes.
type Level int8

const (
	LevelDebug = Level(zapcore.DebugLevel)
	LevelInfo  = Level(zapcore.InfoLevel)
	LevelWarn  = Level(zapcore.WarnLevel)
	LevelError = Level(zapcore.ErrorLevel)
)

// ParseLevel maps debug, info, warn and error onto a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// TraceIDFn extracts a trace id from a context, or returns "".
type TraceIDFn func(ctx context.Context) string

// Logger writes JSON lines through zap.
type Logger struct {
	sugar     *zap.SugaredLogger
	traceIDFn TraceIDFn
}

// New builds a Logger writing to w. traceIDFn may be nil.
func New(w io.Writer, minLevel Level, serviceName string, traceIDFn TraceIDFn) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.MessageKey = "msg"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		zapcore.Level(minLevel),
	)
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).
		With(zap.String("service", serviceName))

	return &Logger{sugar: z.Sugar(), traceIDFn: traceIDFn}
}

// Debug logs at debug level. args are alternating keys and values.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.DebugLevel, msg, args)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.InfoLevel, msg, args)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.WarnLevel, msg, args)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.ErrorLevel, msg, args)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func (l *Logger) write(ctx context.Context, lvl zapcore.Level, msg string, args []any) {
	if l.traceIDFn != nil {
		if id := l.traceIDFn(ctx); id != "" {
			args = append(args, "trace_id", id)
		}
	}
	switch lvl {
	case zapcore.DebugLevel:
		l.sugar.Debugw(msg, args...)
	case zapcore.InfoLevel:
		l.sugar.Infow(msg, args...)
	case zapcore.WarnLevel:
		l.sugar.Warnw(msg, args...)
	default:
		l.sugar.Errorw(msg, args...)
	}
}
