// Package graphqltest предоставляет поддельный GraphQL сервер на fiber для тестов.
package graphqltest

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v3"
	jsoniter "github.com/json-iterator/go"

	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/domain/entities"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Request - запрос, полученный поддельным сервером.
type Request struct {
	Operation entities.Operation
	// Bearer - токен из заголовка Authorization без префикса.
	Bearer    string
	RequestID string
}

// Reply - ответ поддельного сервера. Raw отправляется как есть, иначе Body кодируется в JSON.
type Reply struct {
	Status int
	Body   any
	Raw    string
}

// HandlerFunc формирует ответ на запрос.
type HandlerFunc func(req Request) Reply

// Data возвращает успешный ответ {"data": data}.
func Data(data any) Reply {
	return Reply{Status: fiber.StatusOK, Body: map[string]any{"data": data}}
}

// Errors возвращает ответ со списком ошибок GraphQL.
func Errors(status int, errs ...*apierr.GraphQLError) Reply {
	list := make([]apierr.GraphQLError, 0, len(errs))
	for _, e := range errs {
		list = append(list, *e)
	}
	return Reply{Status: status, Body: map[string]any{"data": nil, "errors": list}}
}

// Backend - поддельный GraphQL сервер на loopback интерфейсе.
type Backend struct {
	URL string

	mu       sync.Mutex
	handler  HandlerFunc
	requests []Request
}

// NewBackend запускает сервер и останавливает его по завершении теста.
func NewBackend(t testing.TB, handler HandlerFunc) *Backend {
	t.Helper()

	b := &Backend{handler: handler}

	app := fiber.New(fiber.Config{Immutable: true})
	app.Post("/graphql", b.serve)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	b.URL = "http://" + ln.Addr().String() + "/graphql"

	ready := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := app.Listener(ln, fiber.ListenConfig{
			DisableStartupMessage: true,
			BeforeServeFunc: func(*fiber.App) error {
				close(ready)
				return nil
			},
		})
		if err != nil && !errors.Is(err, net.ErrClosed) {
			t.Logf("fake graphql backend stopped: %v", err)
		}
	}()

	select {
	case <-ready:
	case <-done:
	}

	// Закрытие слушателя завершает Serve, даже если он еще не начал принимать соединения.
	t.Cleanup(func() {
		_ = app.Shutdown()
		_ = ln.Close()
		<-done
	})

	return b
}

// SetHandler заменяет обработчик запросов.
func (b *Backend) SetHandler(handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = handler
}

// Requests возвращает копию полученных запросов.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count возвращает число запросов с указанным именем операции.
func (b *Backend) Count(operationName string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Operation.OperationName == operationName {
			n++
		}
	}
	return n
}

func (b *Backend) serve(c fiber.Ctx) error {
	var op entities.Operation
	if err := json.Unmarshal(bytes.Clone(c.Body()), &op); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("malformed request")
	}

	req := Request{
		Operation: op,
		Bearer:    strings.Clone(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")),
		RequestID: strings.Clone(c.Get("X-Request-ID")),
	}

	b.mu.Lock()
	b.requests = append(b.requests, req)
	handler := b.handler
	b.mu.Unlock()

	reply := handler(req)
	if reply.Status == 0 {
		reply.Status = fiber.StatusOK
	}
	c.Status(reply.Status)

	if reply.Raw != "" || reply.Body == nil {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlain)
		return c.SendString(reply.Raw)
	}

	payload, err := json.Marshal(reply.Body)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}
