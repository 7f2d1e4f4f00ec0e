//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPI_Index(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	w := doRequest(env.Router, http.MethodGet, "/", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome to the Todo List API")
}

func TestAPI_Health(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	w := doRequest(env.Router, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"up","redis":"up"}`, w.Body.String())
}

func TestAPI_MetricsAfterTraffic(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	token, _ := registerAndLogin(t, env.Router, "metrics")
	createTodo(t, env.Router, token, map[string]string{"title": "counted"})

	w := doRequest(env.Router, http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `auth_events_total{event="register",outcome="success"} 1`)
	assert.Contains(t, body, `auth_events_total{event="login",outcome="success"} 1`)
	assert.Contains(t, body, `todo_operations_total{operation="create"} 1`)
	assert.Contains(t, body, `endpoint="/api/todos/"`)
}

// TestAPI_FullUserFlow walks a user through every endpoint
func TestAPI_FullUserFlow(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	token, userID := registerAndLogin(t, env.Router, "journey")

	w := doRequest(env.Router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	todo := createTodo(t, env.Router, token, map[string]interface{}{
		"title":       "Ship it",
		"description": nil,
	})
	assert.Equal(t, userID, todo.UserID)
	assert.Equal(t, "", todo.Description)
	assert.Nil(t, todo.DueDate)

	w = doRequest(env.Router, http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), token, map[string]interface{}{
		"completed": "yes",
		"due_date":  "2025-01-15 09:30",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated todoResponse
	decode(t, w, &updated)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.DueDate)

	w = doRequest(env.Router, http.MethodDelete, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(env.Router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "journey",
		"password": "SecurePass123!",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
