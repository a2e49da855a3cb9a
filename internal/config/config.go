package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		ENV string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		Driver       string
		DSN          string
		Host         string
		Port         string
		User         string
		Password     string
		Name         string
		MaxOpenConns int
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host        string
		Port        string
		CORSOrigins []string
	}

	GRPC struct {
		Host string
		Port string
	}

	Auth struct {
		Secret   string
		Issuer   string
		TokenTTL time.Duration
	}
}

// Load reads an optional .env file and builds the config from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := New()
	if cfg.Auth.Secret == "" {
		if cfg.App.ENV != "development" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.Auth.Secret = "development-secret"
	}
	return cfg, nil
}

func New() *Config {
	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "development")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "http_server")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", "mysql"))
	cfg.DB.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 20)
	cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
	cfg.DB.User = getEnvDefault("DB_USER", "root")
	cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
	cfg.DB.Name = getEnvDefault("DB_NAME", "skilllink")

	switch cfg.DB.Driver {
	case "postgres", "postgresql":
		cfg.DB.Driver = "postgres"
		cfg.DB.Port = getEnvDefault("DB_PORT", "5432")
		cfg.DB.DSN = os.Getenv("POSTGRES_DSN")
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
				cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port,
			)
		}
	case "sqlite":
		cfg.DB.DSN = getEnvDefault("SQLITE_PATH", "skilllink.db")
	default:
		cfg.DB.Driver = "mysql"
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.DSN = os.Getenv("MYSQL_DSN")
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
				cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
			)
		}
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "127.0.0.1")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8000")
	cfg.HTTP.CORSOrigins = splitList(getEnvDefault("CORS_ORIGINS", "http://localhost:3000"))

	// gRPC health listener
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")

	// Tokens
	cfg.Auth.Secret = os.Getenv("JWT_SECRET")
	cfg.Auth.Issuer = getEnvDefault("JWT_ISSUER", "skilllink")
	cfg.Auth.TokenTTL = getEnvDuration("TOKEN_TTL", 30*time.Minute)

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
