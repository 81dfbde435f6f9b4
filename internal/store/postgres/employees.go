package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"staff-tracker/internal/models"
	"staff-tracker/internal/store"
)

const employeeColumns = `id, first_name, last_name, email, department, position, salary, hire_date, status, phone, address`

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.Position,
		&e.Salary, &e.HireDate, &e.Status, &e.Phone, &e.Address)
	return e, err
}

func (s *Store) queryEmployees(ctx context.Context, where string, args ...any) ([]models.Employee, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees `+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	list := make([]models.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows employees: %w", err)
	}
	return list, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.queryEmployees(ctx, "")
}

func (s *Store) ListEmployeesByDepartment(ctx context.Context, department string) ([]models.Employee, error) {
	return s.queryEmployees(ctx, "WHERE department=$1", department)
}

func (s *Store) ListEmployeesByStatus(ctx context.Context, status string) ([]models.Employee, error) {
	return s.queryEmployees(ctx, "WHERE status=$1", status)
}

func (s *Store) getEmployeeWhere(ctx context.Context, where string, arg any) (models.Employee, error) {
	e, err := scanEmployee(s.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE `+where+` LIMIT 1`, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Employee{}, store.ErrNotFound
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (models.Employee, error) {
	return s.getEmployeeWhere(ctx, "id=$1", id)
}

func (s *Store) FindEmployeeByEmail(ctx context.Context, email string) (models.Employee, error) {
	return s.getEmployeeWhere(ctx, "email=$1", email)
}

func (s *Store) InsertEmployee(ctx context.Context, e models.Employee) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO employees (id, first_name, last_name, email, department, position, salary, hire_date, status, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, e.ID, e.FirstName, e.LastName, e.Email, e.Department, e.Position, e.Salary, e.HireDate, e.Status, e.Phone, e.Address)
	if err != nil {
		return mapErr(err)
	}
	return nil
}

func (s *Store) UpdateEmployee(ctx context.Context, id string, u models.UpdateEmployeeDTO) error {
	sets := store.EmployeeAssignments(u)
	if len(sets) == 0 {
		_, err := s.GetEmployee(ctx, id)
		return err
	}
	clause, args, idx := setClause(sets)
	query := "UPDATE employees SET " + clause + ", updated_at=NOW() WHERE id=$" + fmt.Sprintf("%d", idx)
	args = append(args, id)

	ct, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapErr(err)
	}
	if ct.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) (bool, error) {
	ct, err := s.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete employee: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
