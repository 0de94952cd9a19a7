// Package entities содержит доменные модели клиента социальной сети.
package entities

// Ключи хранилища учетных данных.
const (
	KeyAccessToken  = "token"
	KeyRefreshToken = "refreshToken"
)

// Credentials - пара bearer-токенов текущей сессии.
type Credentials struct {
	AccessToken  string `json:"token" yaml:"token"`
	RefreshToken string `json:"refreshToken" yaml:"refreshToken"`
}

// IsZero сообщает, что в паре нет ни одного токена.
func (c Credentials) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// AuthPayload - ответ login/register: токены и пользователь.
type AuthPayload struct {
	Credentials
	User *User `json:"user"`
}
