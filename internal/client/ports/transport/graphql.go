// Package transport определяет интерфейс транспорта GraphQL.
package transport

import (
	"context"

	"socialclient/internal/client/domain/entities"
)

// GraphQL выполняет одну операцию. bearer пустой - заголовок Authorization не отправляется.
// Ошибка возвращается только при сбое транспорта; ошибки GraphQL приходят в Response.Errors.
type GraphQL interface {
	Do(ctx context.Context, op entities.Operation, bearer string) (*entities.Response, error)
}
