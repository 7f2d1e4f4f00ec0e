package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const defaultJWTSecret = "dev-secret-change-in-production"

type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	LogLevel       string
	LogFormat      string
	AllowedOrigins []string

	DB    DBConfig
	Redis RedisConfig
	Cache CacheConfig
	JWT   JWTConfig
}

type DBConfig struct {
	URL         string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// DSN returns DATABASE_URL when set, otherwise a keyword/value DSN built
// from the discrete settings.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host          string
	Port          string
	RedisPassword string
	RedisDB       string
}

// Enabled reports whether a Redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type CacheConfig struct {
	TTL time.Duration
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// Load reads configuration from the environment, after loading a .env file
// if one exists in the working directory.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: getEnv("APP_NAME", "todo-api"),
		AppEnv:  getEnv("APP_ENV", "development"),
		AppPort: getEnv("APP_PORT", "8080"),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		DB: DBConfig{
			URL:         os.Getenv("DATABASE_URL"),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "todo_db"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: parseBool(getEnv("DB_AUTO_MIGRATE", "true"), true),
		},

		Redis: RedisConfig{
			Host:          os.Getenv("REDIS_HOST"),
			Port:          getEnv("REDIS_PORT", "6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnv("REDIS_DB", "0"),
		},

		Cache: CacheConfig{
			TTL: parseDuration(getEnv("CACHE_TTL", "10m"), 10*time.Minute),
		},

		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET_KEY", getEnv("JWT_SECRET", defaultJWTSecret)),
			TokenTTL: parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRES", "168h"), 7*24*time.Hour),
		},
	}

	return cfg
}

// Validate rejects settings that must not reach production.
func (c *Config) Validate() error {
	if c.AppEnv == "production" && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET_KEY must be set in production environment")
	}
	if c.JWT.TokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRES must be positive, got %s", c.JWT.TokenTTL)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		logrus.WithField("value", value).Warn("Invalid duration, using default")
		return defaultValue
	}
	return duration
}

func parseBool(value string, defaultValue bool) bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
