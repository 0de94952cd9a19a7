// Package apierr определяет закрытую таксономию ошибок GraphQL API
// и классификацию ошибок аутентификации.
package apierr

import "strings"

// Code - код ошибки из extensions.code ответа GraphQL.
type Code string

// Известные коды. Любой другой код приводится к CodeUnknown.
const (
	CodeNotAuthenticated Code = "AUTH_NOT_AUTHENTICATED"
	CodeTokenExpired     Code = "AUTH_TOKEN_EXPIRED"
	CodeTokenInvalid     Code = "AUTH_TOKEN_INVALID"
	CodeRefreshInvalid   Code = "AUTH_REFRESH_INVALID"
	CodeForbidden        Code = "FORBIDDEN"
	CodeBadUserInput     Code = "BAD_USER_INPUT"
	CodeValidation       Code = "GRAPHQL_VALIDATION_FAILED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInternal         Code = "INTERNAL_SERVER_ERROR"
	CodeUnknown          Code = "UNKNOWN"
)

// aliases сопоставляет распространенные коды серверов GraphQL с закрытым набором.
var aliases = map[string]Code{
	"UNAUTHENTICATED": CodeNotAuthenticated,
	"TOKEN_EXPIRED":   CodeTokenExpired,
	"INVALID_TOKEN":   CodeTokenInvalid,
}

var known = map[Code]struct{}{
	CodeNotAuthenticated: {},
	CodeTokenExpired:     {},
	CodeTokenInvalid:     {},
	CodeRefreshInvalid:   {},
	CodeForbidden:        {},
	CodeBadUserInput:     {},
	CodeValidation:       {},
	CodeNotFound:         {},
	CodeInternal:         {},
}

// ParseCode приводит произвольную строку к коду из закрытого набора.
func ParseCode(raw string) Code {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if code, ok := aliases[normalized]; ok {
		return code
	}
	if _, ok := known[Code(normalized)]; ok {
		return Code(normalized)
	}
	return CodeUnknown
}

// IsAuth сообщает, что код означает недействительный access токен,
// который можно восстановить обновлением сессии.
func (c Code) IsAuth() bool {
	switch c {
	case CodeNotAuthenticated, CodeTokenExpired, CodeTokenInvalid:
		return true
	default:
		return false
	}
}
