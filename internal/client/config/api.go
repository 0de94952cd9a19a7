package config

import "time"

// APIConfig описывает подключение к GraphQL API.
type APIConfig struct {
	URL            string        `yaml:"url" env:"CLIENT_API_URL" env-default:"http://localhost:4000/graphql"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"CLIENT_API_REQUEST_TIMEOUT" env-default:"10s"`
	UserAgent      string        `yaml:"user_agent" env:"CLIENT_API_USER_AGENT" env-default:"socialclient/1.0"`
	TrendingTTL    time.Duration `yaml:"trending_ttl" env:"CLIENT_TRENDING_TTL" env-default:"5m"`
	// Порог ошибок транспорта, после которого запросы отклоняются без обращения к сети.
	BreakerErrorThreshold int           `yaml:"breaker_error_threshold" env:"CLIENT_API_BREAKER_ERRORS" env-default:"5"`
	BreakerTimeout        time.Duration `yaml:"breaker_timeout" env:"CLIENT_API_BREAKER_TIMEOUT" env-default:"10s"`
}
