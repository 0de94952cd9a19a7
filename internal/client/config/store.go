package config

// Драйверы хранилища учетных данных.
const (
	StoreDriverMemory = "memory"
	StoreDriverFile   = "file"
	StoreDriverRedis  = "redis"
)

// StoreConfig выбирает хранилище токенов.
type StoreConfig struct {
	Driver    string `yaml:"driver" env:"CLIENT_STORE_DRIVER" env-default:"file"`
	FilePath  string `yaml:"file_path" env:"CLIENT_STORE_FILE" env-default:""`
	SessionID string `yaml:"session_id" env:"CLIENT_SESSION_ID" env-default:"default"`
}
