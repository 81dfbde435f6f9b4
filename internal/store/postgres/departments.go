package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"staff-tracker/internal/models"
	"staff-tracker/internal/store"
)

func (s *Store) ListDepartments(ctx context.Context) ([]models.Department, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, description, manager_id FROM departments ORDER BY name, id`)
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
	err := s.pool.QueryRow(ctx, `SELECT id, name, description, manager_id FROM departments WHERE id=$1`, id).
		Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Department{}, store.ErrNotFound
	}
	if err != nil {
		return models.Department{}, fmt.Errorf("get department: %w", err)
	}
	return d, nil
}

func (s *Store) InsertDepartment(ctx context.Context, d models.Department) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO departments (id, name, description, manager_id) VALUES ($1, $2, $3, $4)`,
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
	clause, args, idx := setClause(sets)
	args = append(args, id)

	ct, err := s.pool.Exec(ctx, "UPDATE departments SET "+clause+" WHERE id=$"+fmt.Sprintf("%d", idx), args...)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id string) (bool, error) {
	ct, err := s.pool.Exec(ctx, `DELETE FROM departments WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete department: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
