package config

import (
	"errors"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Addr     string

	DBType     string // file, sqlite, postgres
	DBDSN      string
	SQLitePath string
	DataFile   string

	JWTSecret string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		cfg = &Config{
			Env:           getEnv("APP_ENV", "development"),
			LogLevel:      getEnv("LOG_LEVEL", "info"),
			Addr:          ":" + getEnv("PORT", "8080"),
			DBType:        getEnv("STORAGE_BACKEND", "file"),
			DBDSN:         getEnv("POSTGRES_DSN", ""),
			SQLitePath:    getEnv("SQLITE_PATH", "data/fitmind.db"),
			DataFile:      getEnv("DATA_FILE", "data/fitmind.json"),
			JWTSecret:     getEnv("JWT_SECRET", ""),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		}
		if cfg.JWTSecret == "" && cfg.Env == "development" {
			cfg.JWTSecret = "dev-secret"
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case "file":
		if c.DataFile == "" {
			return errors.New("DATA_FILE is required when STORAGE_BACKEND=file")
		}
	default:
		return errors.New("STORAGE_BACKEND must be one of: file, sqlite, postgres")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required outside development")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
