package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"schedulai/core/constants"
	"schedulai/core/logger"
)

// Config holds every tunable the server needs. Values come from the
// environment (optionally seeded from a .env file), with sane defaults for
// local development.
type Config struct {
	ServerPort string

	Database DatabaseConfig
	Redis    RedisConfig

	// Google OAuth / Calendar
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// LLM backend (OpenRouter chat completions)
	OpenRouterAPIKey string
	LLMModel         string

	// The single IANA timezone every temporal computation runs in.
	ScheduleTimezone string

	// Session tokens
	JWTSecret string

	// ICS export target
	S3Bucket          string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

var (
	instance *Config
	loadOnce sync.Once
	loadErr  error
)

// Load reads configuration once and caches it for the process lifetime.
func Load() (*Config, error) {
	loadOnce.Do(func() {
		instance, loadErr = load()
	})
	return instance, loadErr
}

// Get returns the loaded config and panics if Load was never called
// successfully. Use GetSafe where a nil config is tolerable.
func Get() *Config {
	if instance == nil {
		panic("config: Get called before Load")
	}
	return instance
}

// GetSafe returns the loaded config or nil.
func GetSafe() *Config {
	return instance
}

func load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("config: no .env file found, using environment only")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SERVER_PORT", "7070")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "schedulai")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SCHEDULE_TIMEZONE", constants.DefaultTimezone)
	v.SetDefault("LLM_MODEL", "openai/gpt-4o-mini")
	v.SetDefault("S3_REGION", "us-east-1")

	cfg := &Config{
		ServerPort: v.GetString("SERVER_PORT"),
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  v.GetString("REDIRECT_URI"),
		OpenRouterAPIKey:   v.GetString("OPENROUTER_API_KEY"),
		LLMModel:           v.GetString("LLM_MODEL"),
		ScheduleTimezone:   v.GetString("SCHEDULE_TIMEZONE"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Region:           v.GetString("S3_REGION"),
		S3AccessKeyID:      v.GetString("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey:  v.GetString("S3_SECRET_ACCESS_KEY"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
