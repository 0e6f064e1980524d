package repository

import (
	"context"
	"database/sql"
	"fmt"

	"taskmanager-be/internal/entities"
)

// TaskRepository defines the interface for task database operations. Every
// operation on an existing task matches on both the task ID and the owner's
// user ID, so a task owned by someone else is indistinguishable from a
// missing one.
type TaskRepository interface {
	Create(ctx context.Context, userID, title string) (*entities.Task, error)
	GetByUserID(ctx context.Context, userID string) ([]*entities.Task, error)
	Update(ctx context.Context, id, userID string, title *string, completed *bool) error
	Delete(ctx context.Context, id, userID string) error
}

type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create inserts a new task owned by userID
func (r *taskRepository) Create(ctx context.Context, userID, title string) (*entities.Task, error) {
	query := `
		INSERT INTO tasks (title, user_id)
		VALUES ($1, $2)
		RETURNING id, title, completed, user_id, created_at
	`

	var task entities.Task
	err := r.db.QueryRowContext(ctx, query, title, userID).Scan(
		&task.ID,
		&task.Title,
		&task.Completed,
		&task.UserID,
		&task.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return &task, nil
}

// GetByUserID retrieves all tasks for a specific user, newest first
func (r *taskRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Task, error) {
	query := `
		SELECT id, title, completed, user_id, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*entities.Task, 0)
	for rows.Next() {
		var task entities.Task
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Completed,
			&task.UserID,
			&task.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// Update changes the non-nil fields of a task the user owns
func (r *taskRepository) Update(ctx context.Context, id, userID string, title *string, completed *bool) error {
	query := `
		UPDATE tasks
		SET title = COALESCE($1, title),
		    completed = COALESCE($2, completed)
		WHERE id = $3 AND user_id = $4
	`

	result, err := r.db.ExecContext(ctx, query, nullString(title), nullBool(completed), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return requireAffected(result)
}

// Delete removes a task the user owns
func (r *taskRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
