package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// The process-wide configuration. Loaded once on startup; read-only afterward.
var Config = load()

func load() ShiroConfig {
	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()

	cfg := ShiroConfig{
		Env:      Dev,
		Addr:     ":9001",
		BaseUrl:  "http://localhost:9001",
		LogLevel: "info",
		Postgres: PostgresConfig{
			User:     "postgres",
			Password: "password",
			Hostname: "localhost",
			Port:     5432,
			DbName:   "shiro",
			LogLevel: "warn",
			MinConn:  2,
			MaxConn:  8,
		},
		Auth: AuthConfig{
			Provider:    "google",
			OAuthScopes: []string{"openid", "email", "profile"},
		},
	}

	if path := os.Getenv("SHIRO_CONFIG_FILE"); path != "" {
		contents, err := os.ReadFile(path)
		if err != nil {
			panic(fmt.Errorf("failed to read config file %s: %w", path, err))
		}
		if err := yaml.Unmarshal(contents, &cfg); err != nil {
			panic(fmt.Errorf("failed to parse config file %s: %w", path, err))
		}
	}

	applyEnvOverrides(&cfg)

	return cfg
}

// Secrets usually come from the environment rather than the config file.
func applyEnvOverrides(cfg *ShiroConfig) {
	envStr("SHIRO_ENV", (*string)(&cfg.Env))
	envStr("SHIRO_ADDR", &cfg.Addr)
	envStr("SHIRO_BASE_URL", &cfg.BaseUrl)
	envStr("SHIRO_LOG_LEVEL", &cfg.LogLevel)

	envStr("SHIRO_POSTGRES_USER", &cfg.Postgres.User)
	envStr("SHIRO_POSTGRES_PASSWORD", &cfg.Postgres.Password)
	envStr("SHIRO_POSTGRES_HOSTNAME", &cfg.Postgres.Hostname)
	envInt("SHIRO_POSTGRES_PORT", &cfg.Postgres.Port)
	envStr("SHIRO_POSTGRES_DBNAME", &cfg.Postgres.DbName)

	envStr("SHIRO_STORAGE_ENDPOINT", &cfg.Storage.Endpoint)
	envStr("SHIRO_STORAGE_ACCESS_KEY", &cfg.Storage.AccessKey)
	envStr("SHIRO_STORAGE_SECRET_KEY", &cfg.Storage.SecretKey)

	envStr("SHIRO_CDN_PURGE_TOKEN", &cfg.CDN.PurgeToken)

	envStr("SHIRO_OAUTH_CLIENT_ID", &cfg.Auth.OAuthClientID)
	envStr("SHIRO_OAUTH_CLIENT_SECRET", &cfg.Auth.OAuthClientSecret)

	envStr("SHIRO_MICROCMS_API_KEY", &cfg.Sources.MicroCMS.APIKey)
	envStr("SHIRO_QIITA_TOKEN", &cfg.Sources.Qiita.Token)
}

func envStr(name string, dest *string) {
	if val := os.Getenv(name); val != "" {
		*dest = val
	}
}

func envInt(name string, dest *int) {
	if val := os.Getenv(name); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			panic(fmt.Errorf("bad value for %s: %w", name, err))
		}
		*dest = parsed
	}
}

func (cfg ShiroConfig) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func (info PostgresConfig) TracelogLevel() tracelog.LogLevel {
	level, err := tracelog.LogLevelFromString(strings.ToLower(info.LogLevel))
	if err != nil {
		return tracelog.LogLevelWarn
	}
	return level
}
