package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
	Language   LanguageConfig   `mapstructure:"language"`
	Credential CredentialConfig `mapstructure:"credential"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig holds PostgreSQL settings for invocation history
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds Redis settings for the credential store
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LanguageConfig holds language service settings.
// EndpointURL and APIKey are fallbacks for callers that send no credentials.
type LanguageConfig struct {
	EndpointURL     string        `mapstructure:"endpoint_url"`
	APIKey          string        `mapstructure:"api_key"`
	Timeout         time.Duration `mapstructure:"timeout"`
	NetworkDomains  []string      `mapstructure:"network_domains"`
	CellConcurrency int           `mapstructure:"cell_concurrency"`
}

// CredentialConfig holds credential vault settings
type CredentialConfig struct {
	Store      string        `mapstructure:"store"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Credential store backends
const (
	CredentialStoreMemory = "memory"
	CredentialStoreRedis  = "redis"
)

const envPrefix = "LANGPACK"

// Load reads configuration from a .env file, if present, and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Credential.Store != CredentialStoreMemory && cfg.Credential.Store != CredentialStoreRedis {
		return nil, fmt.Errorf("unsupported credential store %q", cfg.Credential.Store)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "langpack")
	v.SetDefault("database.password", "langpack")
	v.SetDefault("database.dbname", "langpack")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("language.endpoint_url", "")
	v.SetDefault("language.api_key", "")
	v.SetDefault("language.timeout", 30*time.Second)
	v.SetDefault("language.network_domains", []string{"azure.com"})
	v.SetDefault("language.cell_concurrency", 4)

	v.SetDefault("credential.store", CredentialStoreMemory)
	v.SetDefault("credential.session_ttl", 5*time.Minute)
}
