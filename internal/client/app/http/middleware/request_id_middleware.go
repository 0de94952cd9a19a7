// Package middleware содержит промежуточное ПО локального шлюза.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"socialclient/pkg/logger"
)

const localRequestID = "requestID"

// NewRequestIDMiddleware берет X-Request-ID из запроса или генерирует новый
// и возвращает его в заголовке ответа.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		id := ctx.Get(logger.HeaderRequestID)
		if id == "" {
			id = logger.GenerateRequestID()
		}
		ctx.Locals(localRequestID, id)
		ctx.Set(logger.HeaderRequestID, id)
		return ctx.Next()
	}
}

// Context возвращает контекст запроса с идентификатором запроса.
func Context(ctx fiber.Ctx) context.Context {
	requestCtx := ctx.Context()
	if id, ok := ctx.Locals(localRequestID).(string); ok && id != "" {
		return logger.NewRequestIDContext(requestCtx, id)
	}
	return requestCtx
}
