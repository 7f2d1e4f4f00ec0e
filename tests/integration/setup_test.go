//go:build integration

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/aymenmusic/todo-list-2025/internal/cache"
	"github.com/aymenmusic/todo-list-2025/internal/config"
	"github.com/aymenmusic/todo-list-2025/internal/db"
	"github.com/aymenmusic/todo-list-2025/internal/handler"
	"github.com/aymenmusic/todo-list-2025/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestEnv holds all test dependencies
type TestEnv struct {
	DB          *sql.DB
	RedisClient *redis.Client
	Config      *config.Config
	Registry    *prometheus.Registry
	Metrics     *observability.Metrics
	Router      *gin.Engine
}

// SetupTestEnv connects to the test database and Redis, applies the schema
// and builds a router with a private metrics registry.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	cfg := loadTestConfig()

	database, err := db.Init(&cfg.DB)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Migrate(ctx, database); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	truncate(t, database)

	redisClient, err := cache.SetupRedis(&cfg.Redis)
	if err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	redisClient.FlushDB(ctx)

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	return &TestEnv{
		DB:          database,
		RedisClient: redisClient,
		Config:      cfg,
		Registry:    reg,
		Metrics:     metrics,
		Router:      handler.SetupHandler(database, redisClient, cfg, metrics, reg),
	}
}

// Cleanup cleans up test environment
func (env *TestEnv) Cleanup(t *testing.T) {
	t.Helper()

	if env.DB != nil {
		truncate(t, env.DB)
		env.DB.Close()
	}

	if env.RedisClient != nil {
		env.RedisClient.FlushDB(context.Background())
		env.RedisClient.Close()
	}
}

func truncate(t *testing.T, database *sql.DB) {
	t.Helper()
	if _, err := database.Exec("TRUNCATE TABLE todos, users RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// loadTestConfig loads test configuration with defaults
func loadTestConfig() *config.Config {
	return &config.Config{
		AppName:        "integration-test",
		AppEnv:         "test",
		AppPort:        getEnv("APP_PORT", "8081"),
		AllowedOrigins: []string{"*"},
		DB: config.DBConfig{
			URL:      os.Getenv("TEST_DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "todo_db_test"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: config.RedisConfig{
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnv("REDIS_DB", "1"),
		},
		Cache: config.CacheConfig{TTL: time.Minute},
		JWT: config.JWTConfig{
			Secret:   getEnv("JWT_SECRET_KEY", "test-secret-key-for-integration"),
			TokenTTL: time.Hour,
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// doRequest sends body as JSON, with a bearer token when token is set.
func doRequest(router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// registerAndLogin creates a user and returns an access token and the user id.
func registerAndLogin(t *testing.T, router http.Handler, username string) (string, int) {
	t.Helper()

	w := doRequest(router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": "SecurePass123!",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return login(t, router, username)
}

func loginToken(t *testing.T, router http.Handler, username string) string {
	t.Helper()
	token, _ := login(t, router, username)
	return token
}

func login(t *testing.T, router http.Handler, username string) (string, int) {
	t.Helper()

	w := doRequest(router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "SecurePass123!",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID int `json:"id"`
		} `json:"user"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)

	return resp.AccessToken, resp.User.ID
}

type todoResponse struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DueDate     *time.Time `json:"due_date"`
	UserID      int        `json:"user_id"`
}

func createTodo(t *testing.T, router http.Handler, token string, body interface{}) todoResponse {
	t.Helper()

	w := doRequest(router, http.MethodPost, "/api/todos/", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var todo todoResponse
	decode(t, w, &todo)
	return todo
}
