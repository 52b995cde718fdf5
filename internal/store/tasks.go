package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Raikadier/Captus-sub002/internal/model"
)

const taskColumns = "id, user_id, title, description, due_date, completed, created_at, updated_at"

// CreateTask inserts a new task for the user.
func (s *Store) CreateTask(ctx context.Context, userID, title, description string, dueDate *time.Time) (*model.Task, error) {
	now := time.Now()
	task := &model.Task{
		ID:          uuid.Must(uuid.NewV7()).String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, description, due_date, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		task.ID, task.UserID, task.Title, task.Description, formatNullableTime(task.DueDate),
		formatTime(task.CreatedAt), formatTime(task.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

// ListOpenTasks returns the user's incomplete tasks, oldest first.
func (s *Store) ListOpenTasks(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? AND completed = 0 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// GetTask returns the task only when it belongs to userID.
func (s *Store) GetTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`,
		taskID, userID,
	)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return task, nil
}

// CompleteTask marks the user's task as completed. ErrNotFound when the task
// does not exist or is owned by someone else; the row is untouched then.
func (s *Store) CompleteTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET completed = 1, updated_at = ? WHERE id = ? AND user_id = ?`,
		formatTime(time.Now()), taskID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(ctx, userID, taskID)
}

func scanTask(row rowScanner) (*model.Task, error) {
	var task model.Task
	var dueDate sql.NullString
	var completed int
	var createdAt, updatedAt string

	if err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &dueDate, &completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	task.DueDate = parseNullableTime(dueDate)
	task.Completed = completed != 0
	task.CreatedAt = parseTime(createdAt)
	task.UpdatedAt = parseTime(updatedAt)
	return &task, nil
}
