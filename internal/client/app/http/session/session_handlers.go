// Package session содержит обработчики сессии локального шлюза.
package session

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"socialclient/internal/client/app/dto"
	"socialclient/internal/client/app/http/middleware"
	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/ports/services"
	"socialclient/pkg/logger"
)

// Сообщения об ошибках.
const (
	MessageInvalidBody      = "invalid request body"
	MessageMissingFields    = "email and password are required"
	MessageLoginRejected    = "login rejected"
	MessageBackendAvailable = "backend unavailable"
	MessageLogoutFailed     = "logout failed"
)

// Handler обслуживает маршруты сессии.
type Handler struct {
	session services.SessionManager
}

// NewHandler создает обработчик сессии.
func NewHandler(session services.SessionManager) *Handler {
	return &Handler{session: session}
}

// Status возвращает состояние текущей сессии.
func (h *Handler) Status(ctx fiber.Ctx) error {
	return ctx.JSON(dto.SessionResponse{
		Authenticated: h.session.IsAuthenticated(),
		User:          h.session.CurrentUser(),
	})
}

// Login выполняет вход с переданными учетными данными.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)

	var req dto.LoginRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: MessageInvalidBody})
	}
	if req.Email == "" || req.Password == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: MessageMissingFields})
	}

	user, err := h.session.Login(requestCtx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apierr.ErrTransport) {
			return ctx.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: MessageBackendAvailable})
		}

		message := MessageLoginRejected
		var gqlErr *apierr.GraphQLError
		if errors.As(err, &gqlErr) && gqlErr.Message != "" {
			message = gqlErr.Message
		}
		return ctx.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: message})
	}

	return ctx.JSON(dto.SessionResponse{Authenticated: true, User: user})
}

// Logout завершает сессию.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)

	if err := h.session.Logout(requestCtx); err != nil {
		logger.Log(requestCtx).Error(requestCtx, MessageLogoutFailed, zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: MessageLogoutFailed})
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
