// Package http содержит локальный HTTP шлюз клиента.
package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"socialclient/internal/client/app/dto"
	"socialclient/internal/client/app/http/middleware"
	"socialclient/internal/client/app/http/proxy"
	"socialclient/internal/client/app/http/session"
	"socialclient/internal/client/config"
	"socialclient/internal/client/ports/services"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MessageRouteNotFound - ответ на неизвестный маршрут.
const MessageRouteNotFound = "Route not found"

// NewApp создает fiber приложение шлюза с кодеком jsoniter.
func NewApp(cfg *config.GatewayConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "socialclient gateway",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
}

// SetupRouter настраивает маршрутизацию шлюза.
func SetupRouter(app *fiber.App, sessions services.SessionManager, executor services.OperationExecutor, gatherer prometheus.Gatherer) {
	sessionHandler := session.NewHandler(sessions)
	proxyHandler := proxy.NewHandler(executor)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// API версии 1.
	apiV1 := app.Group("/api/v1")
	apiV1.Post("/graphql", proxyHandler.Forward)
	apiV1.Get("/session", sessionHandler.Status)

	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/login", sessionHandler.Login)
	authRoutes.Post("/logout", sessionHandler.Logout)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: MessageRouteNotFound})
	})
}
