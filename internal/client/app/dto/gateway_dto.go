// Package dto содержит структуры запросов и ответов локального шлюза.
package dto

import (
	jsoniter "github.com/json-iterator/go"

	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/domain/entities"
)

// LoginRequest - тело POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse - состояние сессии.
type SessionResponse struct {
	Authenticated bool           `json:"authenticated"`
	User          *entities.User `json:"user"`
}

// GraphQLResponse - тело ответа GraphQL, отдаваемое шлюзом.
type GraphQLResponse struct {
	Data   jsoniter.RawMessage   `json:"data"`
	Errors []apierr.GraphQLError `json:"errors,omitempty"`
}

// NewGraphQLResponse подставляет null вместо пустого data.
func NewGraphQLResponse(resp *entities.Response) GraphQLResponse {
	data := resp.Data
	if len(data) == 0 {
		data = jsoniter.RawMessage("null")
	}
	return GraphQLResponse{Data: data, Errors: resp.Errors}
}

// ErrorResponse - ошибка шлюза.
type ErrorResponse struct {
	Error string `json:"error"`
}
