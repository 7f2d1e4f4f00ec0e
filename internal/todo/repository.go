package todo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aymenmusic/todo-list-2025/internal/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

const pgForeignKeyViolation = "23503"

type TodoRepository struct{}

// Every lookup is scoped by owner, so a todo of another user reads as
// not found.
type TodoRepositoryInterface interface {
	Create(ctx context.Context, q utils.DBTX, todo *Todo) error
	GetByID(ctx context.Context, q utils.DBTX, id, userID int) (*Todo, error)
	GetByIDForUpdate(ctx context.Context, q utils.DBTX, id, userID int) (*Todo, error)
	ListByUser(ctx context.Context, q utils.DBTX, userID int, completed *bool) ([]*Todo, error)
	Update(ctx context.Context, q utils.DBTX, todo *Todo) error
	Delete(ctx context.Context, q utils.DBTX, id, userID int) error
}

func NewTodoRepository() TodoRepositoryInterface {
	return &TodoRepository{}
}

const todoColumns = `
	id, title, description, completed,
	created_at, updated_at, due_date, user_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TodoRepository) Create(
	ctx context.Context,
	q utils.DBTX,
	todo *Todo,
) error {
	query := `
		INSERT INTO todos (
			title, description, completed, due_date, user_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowContext(ctx, query,
		todo.Title,
		todo.Description,
		todo.Completed,
		nullTime(todo.DueDate),
		todo.UserID,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		if isOwnerViolation(err) {
			logrus.WithField("user_id", todo.UserID).Warn("Todo owner no longer exists")
			return ErrOwnerNotFound
		}
		logrus.WithError(err).Error("Failed to create todo")
		return err
	}
	todo.CreatedAt = todo.CreatedAt.UTC()
	todo.UpdatedAt = todo.UpdatedAt.UTC()

	logrus.WithFields(logrus.Fields{
		"todo_id": todo.ID,
		"user_id": todo.UserID,
	}).Debug("Todo created")

	return nil
}

func (r *TodoRepository) GetByID(
	ctx context.Context,
	q utils.DBTX,
	id int,
	userID int,
) (*Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`
	return scanOne(q.QueryRowContext(ctx, query, id, userID))
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *TodoRepository) GetByIDForUpdate(
	ctx context.Context,
	q utils.DBTX,
	id int,
	userID int,
) (*Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2 FOR UPDATE`
	return scanOne(q.QueryRowContext(ctx, query, id, userID))
}

// ListByUser returns the user's todos, newest first, optionally filtered by
// completion status. The result is never nil.
func (r *TodoRepository) ListByUser(
	ctx context.Context,
	q utils.DBTX,
	userID int,
	completed *bool,
) ([]*Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1`
	args := []any{userID}
	if completed != nil {
		query += ` AND completed = $2`
		args = append(args, *completed)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		logrus.WithError(err).Error("Failed to list todos")
		return nil, err
	}
	defer rows.Close()

	todos := make([]*Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return todos, nil
}

// Update writes every mutable field and refreshes updated_at.
func (r *TodoRepository) Update(
	ctx context.Context,
	q utils.DBTX,
	todo *Todo,
) error {
	query := `
		UPDATE todos
		SET title = $1,
			description = $2,
			completed = $3,
			due_date = $4,
			updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at
	`

	err := q.QueryRowContext(ctx, query,
		todo.Title,
		todo.Description,
		todo.Completed,
		nullTime(todo.DueDate),
		todo.ID,
		todo.UserID,
	).Scan(&todo.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTodoNotFound
		}
		logrus.WithError(err).Error("Failed to update todo")
		return err
	}
	todo.UpdatedAt = todo.UpdatedAt.UTC()

	return nil
}

func (r *TodoRepository) Delete(
	ctx context.Context,
	q utils.DBTX,
	id int,
	userID int,
) error {
	result, err := q.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete todo")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrTodoNotFound
	}

	return nil
}

func scanOne(row *sql.Row) (*Todo, error) {
	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return t, nil
}

func scanTodo(row rowScanner) (*Todo, error) {
	var (
		t           Todo
		description sql.NullString
		dueDate     sql.NullTime
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&description,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
		&dueDate,
		&t.UserID,
	)
	if err != nil {
		return nil, err
	}

	t.Description = description.String
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if dueDate.Valid {
		due := dueDate.Time.UTC()
		t.DueDate = &due
	}

	return &t, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// isOwnerViolation reports a todos.user_id foreign key failure, which happens
// when a still-valid token outlives its deleted account.
func isOwnerViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
