// Package proxy пересылает GraphQL запросы через клиент с локальной сессией.
package proxy

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"socialclient/internal/client/app/dto"
	"socialclient/internal/client/app/http/middleware"
	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/ports/services"
	"socialclient/pkg/logger"
)

// Сообщения об ошибках.
const (
	MessageInvalidBody   = "invalid request body"
	MessageMissingQuery  = "query is required"
	MessageForwardFailed = "failed to reach graphql backend"
	MessageSessionFailed = "failed to read session"
)

// Handler пересылает операции в GraphQL API.
type Handler struct {
	executor services.OperationExecutor
}

// NewHandler создает обработчик пересылки.
func NewHandler(executor services.OperationExecutor) *Handler {
	return &Handler{executor: executor}
}

// Forward выполняет операцию и отдает ответ сервера с его статусом.
func (h *Handler) Forward(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)
	log := logger.Log(requestCtx).With(zap.String("method", "Forward"))

	var op entities.Operation
	if err := ctx.Bind().JSON(&op); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: MessageInvalidBody})
	}
	if op.Query == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: MessageMissingQuery})
	}

	resp, err := h.executor.Execute(requestCtx, op)
	if err != nil {
		log.Warn(requestCtx, MessageForwardFailed,
			zap.String("operation", op.OperationName), zap.Error(err))
		if errors.Is(err, apierr.ErrTransport) {
			return ctx.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: MessageForwardFailed})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: MessageSessionFailed})
	}

	status := resp.StatusCode
	if status == 0 {
		status = fiber.StatusOK
	}

	return ctx.Status(status).JSON(dto.NewGraphQLResponse(resp))
}
