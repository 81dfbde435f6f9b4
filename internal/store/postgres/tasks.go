package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"staff-tracker/internal/models"
	"staff-tracker/internal/store"
)

const taskColumns = `id, text, is_completed, assigned_to, created_at, due_date`

func scanTask(row pgx.Row) (models.Task, error) {
	var t models.Task
	if err := row.Scan(&t.ID, &t.Text, &t.IsCompleted, &t.AssignedTo, &t.CreatedAt, &t.DueDate); err != nil {
		return t, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (s *Store) queryTasks(ctx context.Context, where string, args ...any) ([]models.Task, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks `+where+` ORDER BY created_at, id`, args...)
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
	return s.queryTasks(ctx, "WHERE assigned_to=$1", employeeID)
}

func (s *Store) ListTasksByCompletion(ctx context.Context, completed bool) ([]models.Task, error) {
	return s.queryTasks(ctx, "WHERE is_completed=$1", completed)
}

func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	t, err := scanTask(s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Task{}, store.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *Store) InsertTask(ctx context.Context, t models.Task) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (id, text, is_completed, assigned_to, created_at, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.Text, t.IsCompleted, t.AssignedTo, t.CreatedAt, t.DueDate)
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
	clause, args, idx := setClause(sets)
	args = append(args, id)

	ct, err := s.pool.Exec(ctx, "UPDATE tasks SET "+clause+" WHERE id=$"+fmt.Sprintf("%d", idx), args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ToggleTask(ctx context.Context, id string) (bool, error) {
	var completed bool
	err := s.pool.QueryRow(ctx,
		`UPDATE tasks SET is_completed = NOT is_completed WHERE id=$1 RETURNING is_completed`, id,
	).Scan(&completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, store.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle task: %w", err)
	}
	return completed, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	ct, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
