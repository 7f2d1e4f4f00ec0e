package handler

import (
	"database/sql"

	"github.com/aymenmusic/todo-list-2025/internal/auth"
	"github.com/aymenmusic/todo-list-2025/internal/cache"
	"github.com/aymenmusic/todo-list-2025/internal/config"
	"github.com/aymenmusic/todo-list-2025/internal/middleware"
	"github.com/aymenmusic/todo-list-2025/internal/observability"
	"github.com/aymenmusic/todo-list-2025/internal/todo"
	"github.com/aymenmusic/todo-list-2025/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupHandler initializes all dependencies and routes. redisClient may be
// nil, which disables caching and logout. gatherer defaults to the global
// Prometheus registry.
func SetupHandler(
	db *sql.DB,
	redisClient *redis.Client,
	cfg *config.Config,
	metrics *observability.Metrics,
	gatherer prometheus.Gatherer,
) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.PrometheusMiddleware(metrics),
	)

	// Shared infrastructure
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	todoCache := cache.NewTodoCache(redisClient, cfg.Cache.TTL)
	denylist := cache.NewTokenDenylist(redisClient)

	// Initialize repositories
	userRepo := user.NewUserRepository()
	todoRepo := todo.NewTodoRepository()

	// Initialize services
	userService := user.NewUserService(userRepo, db, tokens, denylist, todoCache, metrics)
	todoService := todo.NewTodoService(todoRepo, db, todoCache, metrics)

	// Initialize controllers
	userController := user.NewUserController(userService)
	todoController := todo.NewTodoController(todoService)
	healthHandler := NewHealthHandler(db, redisClient)

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	authMiddleware := middleware.AuthMiddleware(tokens, denylist)

	// Operational routes
	r.GET("/", Index)
	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Public and self-service routes - Authentication
	userController.SetupRoutes(r.Group("/api/auth"), authMiddleware, denylist.Enabled())

	// Protected routes - Todos
	todos := r.Group("/api/todos")
	todos.Use(authMiddleware)
	todoController.SetupRoutes(todos)

	return r
}
