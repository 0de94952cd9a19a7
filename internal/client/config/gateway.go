package config

import (
	"net"
	"strconv"
	"time"
)

// GatewayConfig представляет конфигурацию локального HTTP шлюза сессии.
type GatewayConfig struct {
	Host         string        `yaml:"host" env:"CLIENT_GATEWAY_HOST" env-default:"127.0.0.1"`
	Port         int           `yaml:"port" env:"CLIENT_GATEWAY_PORT" env-default:"8787"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"CLIENT_GATEWAY_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"CLIENT_GATEWAY_WRITE_TIMEOUT" env-default:"30s"`
}

// GetAddress возвращает адрес шлюза.
func (c *GatewayConfig) GetAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
