package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken возвращается, если access токен не является JWT.
var ErrOpaqueToken = errors.New("access token is not a JWT")

// AccessClaims - поля access токена, нужные клиенту.
type AccessClaims struct {
	Subject   string
	Username  string
	ExpiresAt time.Time
}

type accessJWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ParseAccessClaims читает claims без проверки подписи: подпись проверяет сервер,
// клиенту нужны только срок действия и идентификатор пользователя.
func ParseAccessClaims(token string) (*AccessClaims, error) {
	var claims accessJWTClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpaqueToken, err)
	}

	subject := claims.Subject
	if subject == "" {
		subject = claims.UserID
	}

	result := &AccessClaims{
		Subject:  subject,
		Username: claims.Username,
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}

// ExpiresWithin сообщает, истекает ли токен в пределах window от now.
// Токен без exp считается бессрочным.
func (c *AccessClaims) ExpiresWithin(window time.Duration, now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(window).Before(c.ExpiresAt)
}
