// Package config loads the application configuration from a YAML file with
// environment variable bindings for secrets.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	Generation GenerationConfig `mapstructure:"generation"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type OpenAIConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float32 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// Timeout returns the request ceiling for upstream calls.
func (c OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type CacheConfig struct {
	// Backend selects the cache store: "memory" or "redis".
	Backend           string      `mapstructure:"backend"`
	InsightTTLMinutes int         `mapstructure:"insight_ttl_minutes"`
	Redis             RedisConfig `mapstructure:"redis"`
}

// InsightTTL returns the personality-insight cache lifetime.
func (c CacheConfig) InsightTTL() time.Duration {
	return time.Duration(c.InsightTTLMinutes) * time.Minute
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ArchiveConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Database DatabaseConfig `mapstructure:"database"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type GenerationConfig struct {
	Language string `mapstructure:"language"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/serendipity")
	}

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.max_tokens", 300)
	v.SetDefault("openai.timeout_seconds", 30)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.insight_ttl_minutes", 60)
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("archive.database.port", 3306)
	v.SetDefault("generation.language", "english")

	// Bind OpenAI credentials to environment variables only (not from config file)
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("openai.model", "OPENAI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_MODEL environment variable: %w", err)
	}
	if err := v.BindEnv("archive.database.password", "ARCHIVE_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind ARCHIVE_DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	return &cfg, nil
}
