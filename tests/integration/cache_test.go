//go:build integration

package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/aymenmusic/todo-list-2025/internal/cache"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCache_TodoCaching checks that reads are served from Redis and that a
// write makes the next read go back to Postgres.
func TestCache_TodoCaching(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	ctx := context.Background()
	token, userID := registerAndLogin(t, env.Router, "cacheuser")
	todo := createTodo(t, env.Router, token, map[string]string{"title": "cached"})
	path := fmt.Sprintf("/api/todos/%d", todo.ID)

	version, err := env.RedisClient.Get(ctx, cache.UserVersionKey(userID)).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// First read misses, second hits
	require.Equal(t, http.StatusOK, doRequest(env.Router, http.MethodGet, path, token, nil).Code)
	require.Equal(t, http.StatusOK, doRequest(env.Router, http.MethodGet, path, token, nil).Code)

	exists, err := env.RedisClient.Exists(ctx, cache.TodoKey(userID, version, todo.ID)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.Metrics.CacheMissesTotal.WithLabelValues("todo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.Metrics.CacheHitsTotal.WithLabelValues("todo")))

	// An update invalidates the cached copy
	w := doRequest(env.Router, http.MethodPut, path, token, map[string]string{"title": "fresh"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(env.Router, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched todoResponse
	decode(t, w, &fetched)
	assert.Equal(t, "fresh", fetched.Title)
}

func TestCache_ListInvalidatedOnCreateAndDelete(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	token, _ := registerAndLogin(t, env.Router, "listcache")

	listLen := func() int {
		w := doRequest(env.Router, http.MethodGet, "/api/todos/", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var todos []todoResponse
		decode(t, w, &todos)
		return len(todos)
	}

	assert.Equal(t, 0, listLen())
	assert.Equal(t, 0, listLen())

	todo := createTodo(t, env.Router, token, map[string]string{"title": "new"})
	assert.Equal(t, 1, listLen())

	w := doRequest(env.Router, http.MethodDelete, fmt.Sprintf("/api/todos/%d", todo.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, listLen())
}

func TestCache_UsersDoNotShareEntries(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	aliceToken, _ := registerAndLogin(t, env.Router, "alice_cache")
	bobToken, _ := registerAndLogin(t, env.Router, "bob_cache")

	createTodo(t, env.Router, aliceToken, map[string]string{"title": "alice's"})

	w := doRequest(env.Router, http.MethodGet, "/api/todos/", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(env.Router, http.MethodGet, "/api/todos/", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
