// Package redact маскирует чувствительные данные (e-mail, токены) перед записью в лог.
package redact

import "strings"

const (
	tokenPlaceholder = "[REDACTED_TOKEN]"
	maskedLocal      = "***"
)

// Email оставляет первые два символа локальной части и домен.
//
//	"foobar@example.com" -> "fo***@example.com"
//	"ab@ex.com"          -> "***@ex.com"
//	"no-at"              -> "***"
func Email(s string) string {
	if strings.Count(s, "@") != 1 {
		return maskedLocal
	}

	local, domain, _ := strings.Cut(s, "@")
	runes := []rune(local)
	if len(runes) > 2 {
		local = string(runes[:2]) + maskedLocal
	} else {
		local = maskedLocal
	}

	return local + "@" + domain
}

// Token возвращает заглушку для непустого токена и пустую строку для пустого,
// чтобы в логе было видно, присутствовал ли токен.
func Token(tok string) string {
	if tok == "" {
		return ""
	}
	return tokenPlaceholder
}
