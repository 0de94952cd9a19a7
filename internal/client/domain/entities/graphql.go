package entities

import (
	jsoniter "github.com/json-iterator/go"

	"socialclient/internal/client/domain/apierr"
)

// Operation - запрос GraphQL: документ, переменные и имя операции.
type Operation struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Response - ответ GraphQL вместе с HTTP статусом.
type Response struct {
	Data       jsoniter.RawMessage   `json:"data,omitempty"`
	Errors     []apierr.GraphQLError `json:"errors,omitempty"`
	StatusCode int                   `json:"-"`
}

// FirstError возвращает первую ошибку ответа или nil.
func (r *Response) FirstError() *apierr.GraphQLError {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

// Err возвращает *apierr.ResponseError, если в ответе есть ошибки.
func (r *Response) Err() error {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	return &apierr.ResponseError{StatusCode: r.StatusCode, Errors: r.Errors}
}
