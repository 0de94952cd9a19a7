package redis

import (
	"net"
	"strconv"
	"time"
)

// Значения по умолчанию.
const (
	DefaultHost        = "localhost"
	DefaultPort        = 6379
	DefaultPoolSize    = 10
	DefaultPingTimeout = 5 * time.Second
)

// Config содержит настройки подключения к Redis.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize        int
	MinIdleConns    int
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	// PingTimeout ограничивает проверку соединения при подключении.
	PingTimeout time.Duration
}

// Address возвращает адрес host:port, подставляя значения по умолчанию.
func (c *Config) Address() string {
	host := c.Host
	if host == "" {
		host = DefaultHost
	}
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
