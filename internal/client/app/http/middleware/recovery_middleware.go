package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"socialclient/pkg/logger"
)

// Константы для логирования.
const (
	LogServerPanic        = "gateway panic"
	LogFailedPanicReply   = "failed to send error response after panic"
	MessageInternalServer = "Internal Server Error"
)

// NewRecoveryMiddleware перехватывает панику обработчика и отвечает 500.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) (err error) {
		requestCtx := Context(ctx)

		defer func() {
			if r := recover(); r != nil {
				log := logger.Log(requestCtx)
				log.Error(requestCtx, LogServerPanic,
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())))

				if sendErr := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": MessageInternalServer,
				}); sendErr != nil {
					log.Error(requestCtx, LogFailedPanicReply, zap.Error(sendErr))
				}
				err = nil
			}
		}()

		return ctx.Next()
	}
}
