package todo

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aymenmusic/todo-list-2025/internal/apperr"
	"github.com/aymenmusic/todo-list-2025/internal/auth"

	"github.com/gin-gonic/gin"
)

type TodoController struct {
	service TodoServiceInterface
}

func NewTodoController(service TodoServiceInterface) *TodoController {
	return &TodoController{
		service: service,
	}
}

// SetupRoutes registers the todo routes on rg, which must already carry the
// auth middleware.
func (tc *TodoController) SetupRoutes(rg *gin.RouterGroup) {
	for _, root := range []string{"", "/"} {
		rg.GET(root, tc.ListTodos)
		rg.POST(root, tc.CreateTodo)
	}
	rg.GET("/:id", tc.GetTodo)
	rg.PUT("/:id", tc.UpdateTodo)
	rg.DELETE("/:id", tc.DeleteTodo)
}

// ListTodos handles listing the user's todos, optionally filtered by ?completed=
func (tc *TodoController) ListTodos(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var completed *bool
	if value, present := c.GetQuery("completed"); present {
		filter := strings.ToLower(value) == "true"
		completed = &filter
	}

	todos, err := tc.service.ListTodos(c.Request.Context(), userID, completed)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, todos)
}

// CreateTodo handles todo creation
func (tc *TodoController) CreateTodo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		apperr.Respond(c, apperr.ErrInvalidBody)
		return
	}

	input, err := ParseCreateRequest(body)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	todo, err := tc.service.CreateTodo(c.Request.Context(), userID, input)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, todo)
}

// GetTodo handles getting a todo by ID
func (tc *TodoController) GetTodo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := parseTodoID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	todo, err := tc.service.GetTodo(c.Request.Context(), id, userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, todo)
}

// UpdateTodo handles partial updates. A missing todo is reported before any
// problem with the body.
func (tc *TodoController) UpdateTodo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := parseTodoID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		apperr.Respond(c, apperr.ErrInvalidBody)
		return
	}

	patch, err := ParsePatch(body)
	if err != nil {
		if _, getErr := tc.service.GetTodo(c.Request.Context(), id, userID); getErr != nil {
			apperr.Respond(c, getErr)
			return
		}
		apperr.Respond(c, err)
		return
	}

	todo, err := tc.service.UpdateTodo(c.Request.Context(), id, userID, patch)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, todo)
}

// DeleteTodo handles deleting a todo
func (tc *TodoController) DeleteTodo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := parseTodoID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	if err := tc.service.DeleteTodo(c.Request.Context(), id, userID); err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}

func currentUser(c *gin.Context) (int, bool) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		apperr.Respond(c, auth.ErrInvalidToken)
		return 0, false
	}
	return userID, true
}

// parseTodoID treats a non-numeric id as a todo that does not exist.
func parseTodoID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, ErrTodoNotFound
	}
	return id, nil
}
