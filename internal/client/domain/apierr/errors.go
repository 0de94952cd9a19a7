package apierr

import (
	"errors"
	"fmt"
	"strings"
)

// Сентинел-ошибки клиента.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoRefreshToken   = errors.New("no refresh token stored")
	ErrRefreshFailed    = errors.New("session refresh failed")
	ErrTransport        = errors.New("transport failure")
	ErrInvalidResponse  = errors.New("invalid graphql response")
)

// GraphQLError - элемент списка errors ответа GraphQL.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// NewGraphQLError создает ошибку с кодом в extensions.
func NewGraphQLError(code Code, message string) *GraphQLError {
	return &GraphQLError{
		Message:    message,
		Extensions: map[string]any{"code": string(code)},
	}
}

func (e *GraphQLError) Error() string {
	if code := e.RawCode(); code != "" {
		return fmt.Sprintf("graphql: %s (%s)", e.Message, code)
	}
	return "graphql: " + e.Message
}

// RawCode возвращает extensions.code как есть.
func (e *GraphQLError) RawCode() string {
	if e.Extensions == nil {
		return ""
	}
	code, _ := e.Extensions["code"].(string)
	return code
}

// Code возвращает код из закрытого набора.
func (e *GraphQLError) Code() Code {
	return ParseCode(e.RawCode())
}

// Is позволяет проверять errors.Is(err, ErrNotAuthenticated).
func (e *GraphQLError) Is(target error) bool {
	return target == ErrNotAuthenticated && e.Code().IsAuth()
}

// ResponseError - ответ сервера со списком ошибок.
type ResponseError struct {
	StatusCode int
	Errors     []GraphQLError
}

func (e *ResponseError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("graphql: empty error list (status %d)", e.StatusCode)
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", e.Errors[0].Error(), len(e.Errors)-1)
}

// Unwrap отдает первую ошибку, по ней классифицируется весь ответ.
func (e *ResponseError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return &e.Errors[0]
}

// HTTPStatusError возвращается, если сервер ответил не-2xx без тела GraphQL.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status %d from %s", e.StatusCode, e.URL)
}

// Unwrap относит ошибку к классу транспортных.
func (e *HTTPStatusError) Unwrap() error {
	return ErrTransport
}

// Classifier определяет класс ошибки аутентификации.
type Classifier struct {
	// LegacyMatching включает разбор сообщения ("unauthorized", "expired")
	// для серверов, не заполняющих extensions.code.
	LegacyMatching bool
}

var legacyMarkers = []string{"unauthorized", "expired"}

// IsAuthFailure сообщает, что err относится к классу ошибок аутентификации.
func (c Classifier) IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotAuthenticated) {
		return true
	}
	if !c.LegacyMatching {
		return false
	}

	var gqlErr *GraphQLError
	if !errors.As(err, &gqlErr) || gqlErr.RawCode() != "" {
		return false
	}
	message := strings.ToLower(gqlErr.Message)
	for _, marker := range legacyMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}
