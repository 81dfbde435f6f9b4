package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"staff-tracker/internal/models"
	"staff-tracker/internal/store"
)

const taskColumns = `id, text, is_completed, assigned_to, created_at, due_date`

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t         models.Task
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.Text, &t.IsCompleted, &t.AssignedTo, &createdAt, &t.DueDate); err != nil {
		return t, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return t, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	t.CreatedAt = ts
	return t, nil
}

func (s *Store) queryTasks(ctx context.Context, where string, args ...any) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks `+where+` ORDER BY rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	list := make([]models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows tasks: %w", err)
	}
	return list, nil
}

func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.queryTasks(ctx, "")
}

func (s *Store) ListTasksByAssignee(ctx context.Context, employeeID string) ([]models.Task, error) {
	return s.queryTasks(ctx, "WHERE assigned_to=?", employeeID)
}

func (s *Store) ListTasksByCompletion(ctx context.Context, completed bool) ([]models.Task, error) {
	return s.queryTasks(ctx, "WHERE is_completed=?", completed)
}

func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, store.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *Store) InsertTask(ctx context.Context, t models.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, text, is_completed, assigned_to, created_at, due_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.Text, t.IsCompleted, t.AssignedTo, t.CreatedAt.UTC().Format(time.RFC3339Nano), t.DueDate)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) UpdateTask(ctx context.Context, id string, u models.UpdateTaskDTO) error {
	sets := store.TaskAssignments(u)
	if len(sets) == 0 {
		_, err := s.GetTask(ctx, id)
		return err
	}
	clause, args := setClause(sets)
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE tasks SET "+clause+" WHERE id=?", args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ToggleTask(ctx context.Context, id string) (bool, error) {
	var completed bool
	err := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET is_completed = NOT is_completed WHERE id=? RETURNING is_completed`, id,
	).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, store.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle task: %w", err)
	}
	return completed, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return affected(res)
}
