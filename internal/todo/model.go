package todo

import (
	"time"

	"github.com/aymenmusic/todo-list-2025/internal/apperr"
)

const MaxTitleLength = 100

type Todo struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DueDate     *time.Time `json:"due_date"`
	UserID      int        `json:"user_id"`
}

var (
	ErrMissingTitle       = apperr.Validation("Title is required", "title must be a non-empty string")
	ErrInvalidTitle       = apperr.Validation("Invalid title", "title must be a string")
	ErrTitleTooLong       = apperr.Validation("Invalid title", "title must be at most 100 characters")
	ErrInvalidDescription = apperr.Validation("Invalid description", "description must be a string or null")
	ErrInvalidDueDate     = apperr.Validation("Invalid due date format", "Use ISO format (YYYY-MM-DDTHH:MM:SS)")
	ErrTodoNotFound       = apperr.NotFound("Todo not found", "No todo with this id belongs to you")
	ErrOwnerNotFound      = apperr.Unauthorized("Invalid token", "The account for this token no longer exists")
)
