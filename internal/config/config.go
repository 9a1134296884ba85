package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "STORE_"

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Backend       string `koanf:"backend" validate:"oneof=file postgres redis"`
	DataFile      string `koanf:"data_file" validate:"required_if=Backend file"`
	DatabaseURL   string `koanf:"database_url" validate:"required_if=Backend postgres"`
	RedisAddr     string `koanf:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db" validate:"gte=0"`
	SnapshotKey   string `koanf:"snapshot_key" validate:"required"`

	LogLevel    string `koanf:"log_level" validate:"oneof=debug info warn error"`
	MetricsFile string `koanf:"metrics_file"`

	AdminUser     string `koanf:"admin_user" validate:"required"`
	AdminPassword string `koanf:"admin_password" validate:"required"`
}

func defaults() map[string]any {
	return map[string]any{
		"backend":        BackendFile,
		"data_file":      "store_data.json",
		"redis_db":       0,
		"snapshot_key":   "default",
		"log_level":      "warn",
		"admin_user":     "admin",
		"admin_password": "password",
	}
}

// Load reads defaults, then STORE_* environment variables (STORE_DATA_FILE sets
// data_file), and validates the result.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	envTransformer := func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, envPrefix))
	}
	if err := k.Load(env.Provider(envPrefix, ".", envTransformer), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	return validator.New().Struct(c)
}

// String renders the config with secrets masked.
func (c Config) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  backend: %s\n", c.Backend))
	switch c.Backend {
	case BackendFile:
		b.WriteString(fmt.Sprintf("  data_file: %s\n", c.DataFile))
	case BackendPostgres:
		b.WriteString("  database_url: ****\n")
	case BackendRedis:
		b.WriteString(fmt.Sprintf("  redis_addr: %s\n", c.RedisAddr))
		b.WriteString(fmt.Sprintf("  redis_db: %d\n", c.RedisDB))
	}
	b.WriteString(fmt.Sprintf("  snapshot_key: %s\n", c.SnapshotKey))
	b.WriteString(fmt.Sprintf("  log_level: %s\n", c.LogLevel))
	b.WriteString(fmt.Sprintf("  metrics_file: %s\n", c.MetricsFile))
	return b.String()
}
