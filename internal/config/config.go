package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backend names accepted for storage.backend.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Content  ContentConfig
	Progress ProgressConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StorageConfig selects and configures the user store backend.
type StorageConfig struct {
	Backend    string // "sqlite" or "file"
	SQLitePath string // path to the sqlite database file
	UsersFile  string // path to the flat-file user store
}

type ContentConfig struct {
	Dir string // directory holding one markdown document per category
}

type ProgressConfig struct {
	File string // path to the durable progress JSON file
	// CategorySize is the assumed number of questions per category used for
	// completion percentages. The content files are not consulted.
	CategorySize int
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level string
	Env   string
}

// LoadConfig reads configuration from config.yaml plus environment overrides.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "20s")
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.sqlite_path", "instance/app.db")
	v.SetDefault("storage.users_file", "instance/users.json")
	v.SetDefault("content.dir", "content")
	v.SetDefault("progress.file", "instance/user_progress.json")
	v.SetDefault("progress.category_size", 20)
	v.SetDefault("jwt.access_token_ttl", "15m")
	v.SetDefault("jwt.refresh_token_ttl", "168h")
	v.SetDefault("redis.db", 0)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine, defaults plus env cover everything.
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Storage: StorageConfig{
			Backend:    v.GetString("storage.backend"),
			SQLitePath: v.GetString("storage.sqlite_path"),
			UsersFile:  v.GetString("storage.users_file"),
		},
		Content: ContentConfig{
			Dir: v.GetString("content.dir"),
		},
		Progress: ProgressConfig{
			File:         v.GetString("progress.file"),
			CategorySize: v.GetInt("progress.category_size"),
		},
		JWT: JWTConfig{
			SecretKey:       v.GetString("jwt.secret_key"),
			AccessTokenTTL:  v.GetDuration("jwt.access_token_ttl"),
			RefreshTokenTTL: v.GetDuration("jwt.refresh_token_ttl"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
	}

	switch cfg.Storage.Backend {
	case BackendSQLite, BackendFile:
	default:
		return nil, fmt.Errorf("unsupported storage backend: %q", cfg.Storage.Backend)
	}
	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("jwt.secret_key is not configured")
	}
	if cfg.Progress.CategorySize <= 0 {
		return nil, fmt.Errorf("progress.category_size must be positive, got %d", cfg.Progress.CategorySize)
	}

	return cfg, nil
}

// GetDSN returns the sqlite connection string for the user store.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("file:%s?_foreign_keys=on", c.Storage.SQLitePath)
}
