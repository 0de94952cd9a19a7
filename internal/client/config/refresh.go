package config

import "time"

// RefreshConfig управляет обновлением сессии.
type RefreshConfig struct {
	Timeout        time.Duration `yaml:"timeout" env:"CLIENT_REFRESH_TIMEOUT" env-default:"10s"`
	Ahead          time.Duration `yaml:"ahead" env:"CLIENT_REFRESH_AHEAD" env-default:"1m"`
	LockTTL        time.Duration `yaml:"lock_ttl" env:"CLIENT_REFRESH_LOCK_TTL" env-default:"15s"`
	LockPoll       time.Duration `yaml:"lock_poll" env:"CLIENT_REFRESH_LOCK_POLL" env-default:"100ms"`
	KeepaliveSpec  string        `yaml:"keepalive_spec" env:"CLIENT_KEEPALIVE_SPEC" env-default:"@every 30s"`
	LegacyMatching bool          `yaml:"legacy_matching" env:"CLIENT_AUTH_LEGACY_MATCHING" env-default:"false"`
	ProbeAttempts  int           `yaml:"probe_attempts" env:"CLIENT_PROBE_ATTEMPTS" env-default:"3"`
}
