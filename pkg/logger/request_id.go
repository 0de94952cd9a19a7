package logger

import (
	"context"

	"github.com/google/uuid"
)

// HeaderRequestID - HTTP заголовок для передачи идентификатора запроса.
const HeaderRequestID = "X-Request-ID"

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

// NewRequestIDContext кладет идентификатор запроса в контекст, генерируя новый при пустом значении.
func NewRequestIDContext(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = GenerateRequestID()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// EnsureRequestID возвращает контекст с идентификатором запроса, сохраняя уже существующий.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := GetRequestID(ctx); ok {
		return ctx, id
	}
	id := GenerateRequestID()
	return context.WithValue(ctx, requestIDKey, id), id
}

// GetRequestID извлекает идентификатор запроса из контекста.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// GenerateRequestID генерирует новый идентификатор запроса.
func GenerateRequestID() string {
	return uuid.New().String()
}
