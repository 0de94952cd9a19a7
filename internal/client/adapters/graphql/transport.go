// Package graphql реализует транспорт GraphQL поверх HTTP и клиент сервиса авторизации.
package graphql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3/client"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"socialclient/internal/client/config"
	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/metrics"
	"socialclient/internal/client/ports/transport"
	"socialclient/internal/client/resilience"
	"socialclient/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Константы для логирования.
const (
	LogMethodDo = "Do"

	LogRequestSent         = "graphql request sent"
	LogResponseHasErrors   = "graphql response contains errors"
	ErrorFailedToSend      = "failed to send graphql request"
	ErrorFailedToDecode    = "failed to decode graphql response"
	MessageUnauthenticated = "unauthorized"

	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
)

// Transport отправляет операции GraphQL на один endpoint.
type Transport struct {
	client   *client.Client
	endpoint string
	breaker  *resilience.CircuitBreaker
	metrics  *metrics.Collector
}

var _ transport.GraphQL = (*Transport)(nil)

// NewTransport создает транспорт с Circuit Breaker на сетевые сбои.
func NewTransport(cfg *config.APIConfig, collector *metrics.Collector) *Transport {
	c := client.New().
		SetTimeout(cfg.RequestTimeout).
		SetUserAgent(cfg.UserAgent).
		SetJSONMarshal(json.Marshal).
		SetJSONUnmarshal(json.Unmarshal)

	breaker := resilience.NewCircuitBreaker("graphql", resilience.CircuitBreakerConfig{
		ErrorThreshold: cfg.BreakerErrorThreshold,
		Timeout:        cfg.BreakerTimeout,
	})

	return &Transport{
		client:   c,
		endpoint: cfg.URL,
		breaker:  breaker,
		metrics:  collector,
	}
}

// Do выполняет операцию. Ответ с ошибками GraphQL не является ошибкой транспорта.
func (t *Transport) Do(ctx context.Context, op entities.Operation, bearer string) (*entities.Response, error) {
	ctx, requestID := logger.EnsureRequestID(ctx)
	log := logger.Log(ctx).With(
		zap.String("method", LogMethodDo),
		zap.String("operation", op.OperationName))

	var resp *entities.Response
	err := t.breaker.Execute(ctx, func() error {
		var sendErr error
		resp, sendErr = t.send(ctx, op, bearer, requestID)
		return sendErr
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToSend, zap.Error(err))
		t.metrics.Request(metrics.OutcomeTransportError)
		if errors.Is(err, apierr.ErrTransport) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", apierr.ErrTransport, err)
	}

	if len(resp.Errors) > 0 {
		log.Debug(ctx, LogResponseHasErrors,
			zap.Int("status", resp.StatusCode),
			zap.String("code", resp.Errors[0].RawCode()))
		t.metrics.Request(metrics.OutcomeGraphQLError)
		return resp, nil
	}

	log.Debug(ctx, LogRequestSent, zap.Int("status", resp.StatusCode))
	t.metrics.Request(metrics.OutcomeOK)
	return resp, nil
}

func (t *Transport) send(ctx context.Context, op entities.Operation, bearer, requestID string) (*entities.Response, error) {
	req := t.client.R().
		SetContext(ctx).
		SetHeader(logger.HeaderRequestID, requestID).
		SetJSON(op)
	if bearer != "" {
		req.SetHeader(headerAuthorization, bearerPrefix+bearer)
	}

	httpResp, err := req.Post(t.endpoint)
	if err != nil {
		return nil, err
	}
	defer httpResp.Close()

	status := httpResp.StatusCode()
	body := httpResp.Body()

	var out entities.Response
	decodeErr := json.Unmarshal(body, &out)
	out.StatusCode = status

	// 401 без тела GraphQL трактуется как ошибка аутентификации.
	if status == http.StatusUnauthorized && (decodeErr != nil || len(out.Errors) == 0) {
		out.Data = nil
		out.Errors = []apierr.GraphQLError{*apierr.NewGraphQLError(apierr.CodeNotAuthenticated, MessageUnauthenticated)}
		return &out, nil
	}

	if decodeErr != nil || (len(out.Errors) == 0 && len(out.Data) == 0) {
		if status >= http.StatusBadRequest {
			return nil, &apierr.HTTPStatusError{URL: t.endpoint, StatusCode: status, Body: truncate(body, 512)}
		}
		if decodeErr == nil {
			decodeErr = errors.New("neither data nor errors present")
		}
		return nil, fmt.Errorf("%w: %s: %w", apierr.ErrInvalidResponse, ErrorFailedToDecode, decodeErr)
	}

	return &out, nil
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit])
}

// BreakerState возвращает состояние Circuit Breaker транспорта.
func (t *Transport) BreakerState() resilience.CircuitState {
	return t.breaker.State()
}
