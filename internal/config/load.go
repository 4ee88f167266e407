package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix shared by all configuration environment variables.
const EnvPrefix = "TODO"

// ConfigFileEnv names the variable that points at an explicit config file.
const ConfigFileEnv = "TODO_CONFIG_FILE"

var defaults = map[string]any{
	"server.port":                        3000,
	"server.log_level":                   "info",
	"server.allowed_origins":             []string{"http://localhost:5173"},
	"server.shutdown_timeout_seconds":    10,
	"database.max_open_conns":            10,
	"database.max_idle_conns":            5,
	"database.conn_max_lifetime_minutes": 5,
	"auth.token_lifetime_minutes":        1667,
	"auth.bcrypt_cost":                   10,
	"avatar.default_file_key":            "default-avatar",
	"avatar.default_mime_type":           "image/jpeg",
	"avatar.request_timeout_seconds":     10,
}

// keys without defaults still need an env binding so Unmarshal sees them.
var requiredKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"avatar.signed_url_api",
}

// Load reads configuration from an optional config file and from environment
// variables, which take precedence. The file is taken from TODO_CONFIG_FILE
// when set, otherwise ./config.yaml is used if it exists.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range requiredKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	// PORT is honoured for platforms that inject it.
	if err := v.BindEnv("server.port", "TODO_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind env for server.port: %w", err)
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
