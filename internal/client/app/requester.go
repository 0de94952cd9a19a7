// Package app содержит прикладной слой клиента: сессию, запросы с обновлением токенов и API.
package app

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/metrics"
	"socialclient/internal/client/ports/store"
	"socialclient/internal/client/ports/transport"
	"socialclient/internal/client/refresh"
	"socialclient/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Константы для логирования.
const (
	LogMethodExecute = "Execute"

	LogRetryingRequest     = "retrying request with refreshed token"
	LogAuthFailureKept     = "auth failure not recovered, returning original response"
	ErrorFailedToLoadCreds = "failed to load credentials"
	ErrorFailedToDecode    = "failed to decode response data"
)

// AuthFailureHandler решает, можно ли восстановить запрос после ошибки аутентификации.
type AuthFailureHandler interface {
	HandleAuthFailure(ctx context.Context, failure error, usedToken string) (refresh.Outcome, error)
}

// Requester выполняет запросы с токеном из хранилища и повторяет запрос
// не более одного раза после обновления токенов.
type Requester struct {
	transport transport.GraphQL
	store     store.CredentialStore
	handler   AuthFailureHandler
	metrics   *metrics.Collector
}

// NewRequester создает Requester.
func NewRequester(t transport.GraphQL, st store.CredentialStore, handler AuthFailureHandler, collector *metrics.Collector) *Requester {
	return &Requester{
		transport: t,
		store:     st,
		handler:   handler,
		metrics:   collector,
	}
}

// Execute выполняет операцию. Ошибка возвращается только при сбое транспорта
// или хранилища; ошибки GraphQL остаются в ответе.
func (r *Requester) Execute(ctx context.Context, op entities.Operation) (*entities.Response, error) {
	ctx, log := logger.ForRequest(ctx,
		zap.String("method", LogMethodExecute),
		zap.String("operation", op.OperationName))

	creds, err := r.store.Load(ctx)
	if err != nil {
		log.Error(ctx, ErrorFailedToLoadCreds, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToLoadCreds, err)
	}

	resp, err := r.transport.Do(ctx, op, creds.AccessToken)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) == 0 {
		return resp, nil
	}

	failure := resp.Err()
	outcome, err := r.handler.HandleAuthFailure(ctx, failure, creds.AccessToken)
	if err != nil || !outcome.Retry {
		if err != nil && err != failure { //nolint:errorlint // тот же экземпляр означает ошибку не из класса аутентификации
			log.Info(ctx, LogAuthFailureKept, zap.Error(err))
		}
		return resp, nil
	}

	log.Debug(ctx, LogRetryingRequest, zap.Bool("shared", outcome.Shared))
	r.metrics.RequestRetry()

	return r.transport.Do(ctx, op, outcome.AccessToken)
}

// Query выполняет операцию и декодирует data в out.
// Ошибки GraphQL возвращаются как *apierr.ResponseError.
func (r *Requester) Query(ctx context.Context, op entities.Operation, out any) error {
	resp, err := r.Execute(ctx, op)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("%s: %w: %w", ErrorFailedToDecode, apierr.ErrInvalidResponse, err)
	}
	return nil
}
