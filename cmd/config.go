package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "SF"

	keyAPIBaseURL      = "api.base_url"
	keyAPITimeout      = "api.timeout"
	keyCartBackend     = "cart.backend"
	keyCartPath        = "cart.path"
	keyRedisAddr       = "redis.addr"
	keyRedisPassword   = "redis.password"
	keyRedisDB         = "redis.db"
	keyRedisTTL        = "redis.ttl"
	keySecretsBackend  = "secrets.backend"
	keyPaymentEndpoint = "payment.endpoint"
	keyLogLevel        = "log.level"

	cartBackendTOML  = "toml"
	cartBackendRedis = "redis"
)

// configDir is ~/.storefront unless SF_HOME points elsewhere.
func configDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return envOrDefault("SF_HOME", filepath.Join(homeDir, ".storefront")), nil
}

// loadConfig layers, lowest first: defaults, config.toml, .env, SF_* variables.
func loadConfig(dir string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := viper.New()
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(keyAPIBaseURL, "https://api.storefront.example")
	cfg.SetDefault(keyAPITimeout, 30*time.Second)
	cfg.SetDefault(keyCartBackend, cartBackendTOML)
	cfg.SetDefault(keyCartPath, filepath.Join(dir, "cart.toml"))
	cfg.SetDefault(keyRedisAddr, "127.0.0.1:6379")
	cfg.SetDefault(keyRedisPassword, "")
	cfg.SetDefault(keyRedisDB, 0)
	cfg.SetDefault(keyRedisTTL, 30*24*time.Hour)
	cfg.SetDefault(keySecretsBackend, "auto")
	cfg.SetDefault(keyPaymentEndpoint, "https://pay.storefront.example/payments")
	cfg.SetDefault(keyLogLevel, "warn")

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
