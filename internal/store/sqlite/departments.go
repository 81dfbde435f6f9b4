package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"staff-tracker/internal/models"
	"staff-tracker/internal/store"
)

func (s *Store) ListDepartments(ctx context.Context) ([]models.Department, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, manager_id FROM departments ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query departments: %w", err)
	}
	defer rows.Close()

	list := make([]models.Department, 0)
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (s *Store) GetDepartment(ctx context.Context, id string) (models.Department, error) {
	var d models.Department
	err := s.db.QueryRowContext(ctx, `SELECT id, name, description, manager_id FROM departments WHERE id=?`, id).
		Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Department{}, store.ErrNotFound
	}
	if err != nil {
		return models.Department{}, fmt.Errorf("get department: %w", err)
	}
	return d, nil
}

func (s *Store) InsertDepartment(ctx context.Context, d models.Department) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO departments (id, name, description, manager_id) VALUES (?, ?, ?, ?)`,
		d.ID, d.Name, d.Description, d.ManagerID)
	if err != nil {
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

func (s *Store) UpdateDepartment(ctx context.Context, id string, u models.UpdateDepartmentDTO) error {
	sets := store.DepartmentAssignments(u)
	if len(sets) == 0 {
		_, err := s.GetDepartment(ctx, id)
		return err
	}
	clause, args := setClause(sets)
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE departments SET "+clause+" WHERE id=?", args...)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
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

func (s *Store) DeleteDepartment(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM departments WHERE id=?`, id)
	if err != nil {
		return false, fmt.Errorf("delete department: %w", err)
	}
	return affected(res)
}
