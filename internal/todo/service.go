package todo

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/aymenmusic/todo-list-2025/internal/cache"
	"github.com/aymenmusic/todo-list-2025/internal/observability"
	"github.com/aymenmusic/todo-list-2025/internal/utils"

	"github.com/sirupsen/logrus"
)

const cacheTimeout = 2 * time.Second

type TodoServiceInterface interface {
	ListTodos(ctx context.Context, userID int, completed *bool) ([]*Todo, error)
	GetTodo(ctx context.Context, id, userID int) (*Todo, error)
	CreateTodo(ctx context.Context, userID int, input *CreateInput) (*Todo, error)
	UpdateTodo(ctx context.Context, id, userID int, patch *Patch) (*Todo, error)
	DeleteTodo(ctx context.Context, id, userID int) error
}

type TodoService struct {
	repo    TodoRepositoryInterface
	db      *sql.DB
	withTx  utils.TxFunc
	cache   *cache.TodoCache
	metrics *observability.Metrics
}

// NewTodoService builds the service. A nil or disabled todoCache sends every
// read to the database.
func NewTodoService(repo TodoRepositoryInterface, db *sql.DB, todoCache *cache.TodoCache, metrics *observability.Metrics) *TodoService {
	return &TodoService{
		repo:    repo,
		db:      db,
		withTx:  utils.Transactor(db),
		cache:   todoCache,
		metrics: metrics,
	}
}

func (s *TodoService) ListTodos(ctx context.Context, userID int, completed *bool) ([]*Todo, error) {
	version, cached := s.cacheVersion(ctx, userID)

	var cacheKey string
	if cached {
		cacheKey = cache.TodoListKey(userID, version, listFilter(completed))
		var todos []*Todo
		if s.readCache(ctx, cacheKey, "todo_list", &todos) && todos != nil {
			return todos, nil
		}
	}

	todos, err := s.repo.ListByUser(ctx, s.db, userID, completed)
	if err != nil {
		return nil, err
	}

	if cached {
		s.writeCache(ctx, cacheKey, todos)
	}

	return todos, nil
}

func (s *TodoService) GetTodo(ctx context.Context, id, userID int) (*Todo, error) {
	version, cached := s.cacheVersion(ctx, userID)

	var cacheKey string
	if cached {
		cacheKey = cache.TodoKey(userID, version, id)
		var todo Todo
		if s.readCache(ctx, cacheKey, "todo", &todo) {
			return &todo, nil
		}
	}

	todo, err := s.repo.GetByID(ctx, s.db, id, userID)
	if err != nil {
		return nil, err
	}

	if cached {
		s.writeCache(ctx, cacheKey, todo)
	}

	return todo, nil
}

func (s *TodoService) CreateTodo(ctx context.Context, userID int, input *CreateInput) (*Todo, error) {
	todo := &Todo{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		UserID:      userID,
	}

	if err := s.withTx(ctx, func(tx utils.DBTX) error {
		return s.repo.Create(ctx, tx, todo)
	}); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, userID, "create")
	return todo, nil
}

// UpdateTodo locks the todo, merges the patch and writes it back in one
// transaction.
func (s *TodoService) UpdateTodo(ctx context.Context, id, userID int, patch *Patch) (*Todo, error) {
	var updated *Todo

	err := s.withTx(ctx, func(tx utils.DBTX) error {
		todo, err := s.repo.GetByIDForUpdate(ctx, tx, id, userID)
		if err != nil {
			return err
		}

		patch.Apply(todo)
		if err := s.repo.Update(ctx, tx, todo); err != nil {
			return err
		}

		updated = todo
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, userID, "update")
	return updated, nil
}

func (s *TodoService) DeleteTodo(ctx context.Context, id, userID int) error {
	if err := s.repo.Delete(ctx, s.db, id, userID); err != nil {
		return err
	}

	s.afterMutation(ctx, userID, "delete")
	return nil
}

func (s *TodoService) afterMutation(ctx context.Context, userID int, operation string) {
	s.metrics.TodoOperation(operation)

	cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	if err := s.cache.InvalidateUser(cacheCtx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to invalidate todo cache")
	}
}

// cacheVersion reports the user's cache version and whether the cache can be
// used for this request.
func (s *TodoService) cacheVersion(ctx context.Context, userID int) (int64, bool) {
	if !s.cache.Enabled() {
		return 0, false
	}

	cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	version, err := s.cache.Version(cacheCtx, userID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read todo cache version")
		return 0, false
	}
	return version, true
}

func (s *TodoService) readCache(ctx context.Context, key, keyType string, dest interface{}) bool {
	cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	data, err := s.cache.Get(cacheCtx, key)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read todo cache")
		return false
	}

	if data == nil || json.Unmarshal(data, dest) != nil {
		s.metrics.CacheLookup(keyType, false)
		logrus.WithField("key", key).Debug("cache miss")
		return false
	}

	s.metrics.CacheLookup(keyType, true)
	logrus.WithField("key", key).Debug("cache hit")
	return true
}

func (s *TodoService) writeCache(ctx context.Context, key string, value interface{}) {
	cacheCtx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	// Set cache (ignore error, cache miss is not critical)
	if err := s.cache.Set(cacheCtx, key, value); err != nil {
		logrus.WithError(err).Warn("Failed to set todo cache")
	}
}

func listFilter(completed *bool) string {
	if completed == nil {
		return "all"
	}
	return strconv.FormatBool(*completed)
}
