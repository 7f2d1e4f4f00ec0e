package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const healthTimeout = 2 * time.Second

// DBPinger is satisfied by *sql.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db    DBPinger
	redis *redis.Client
}

func NewHealthHandler(db *sql.DB, redisClient *redis.Client) *HealthHandler {
	h := &HealthHandler{redis: redisClient}
	if db != nil {
		h.db = db
	}
	return h
}

// Check reports whether Postgres and, when configured, Redis answer a ping.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "healthy", "database": "up", "redis": "disabled"}

	if h.db == nil {
		status = http.StatusServiceUnavailable
		body["database"] = "down"
	} else if err := h.db.PingContext(ctx); err != nil {
		logrus.WithError(err).Warn("Health check: database unreachable")
		status = http.StatusServiceUnavailable
		body["database"] = "down"
	}

	if h.redis != nil {
		body["redis"] = "up"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			logrus.WithError(err).Warn("Health check: redis unreachable")
			status = http.StatusServiceUnavailable
			body["redis"] = "down"
		}
	}

	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}
	c.JSON(status, body)
}

// Index lists the API entry points.
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Todo List API",
		"endpoints": gin.H{
			"auth":  "/api/auth",
			"todos": "/api/todos",
		},
		"documentation": "See README.md for API documentation",
	})
}
