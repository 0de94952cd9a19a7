package logger

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKeyType struct{}

var (
	global atomic.Pointer[Logger]

	// fallback пишет только предупреждения и ошибки, пока CLI не настроил свой логгер.
	fallback = sync.OnceValue(func() *Logger {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		l, err := cfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			l = zap.NewNop()
		}
		return &Logger{l: l.Named("fallback")}
	})
)

// NewContext привязывает логгер к контексту. Так тесты подменяют логгер
// отдельного вызова, не трогая глобальный.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKeyType{}, l)
}

// FromContext возвращает логгер, привязанный к контексту.
func FromContext(ctx context.Context) (*Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	l, ok := ctx.Value(loggerKeyType{}).(*Logger)
	return l, ok && l != nil
}

// SetGlobalLogger заменяет глобальный логгер; nil возвращает резервный.
func SetGlobalLogger(l *Logger) {
	global.Store(l)
}

// Log выбирает логгер: из контекста, глобальный, затем резервный.
func Log(ctx context.Context) *Logger {
	if l, ok := FromContext(ctx); ok {
		return l
	}
	if l := global.Load(); l != nil {
		return l
	}
	return fallback()
}

// ForRequest гарантирует идентификатор запроса в контексте и возвращает
// логгер операции с полями fields.
func ForRequest(ctx context.Context, fields ...zap.Field) (context.Context, *Logger) {
	ctx, _ = EnsureRequestID(ctx)
	return ctx, Log(ctx).With(fields...)
}
