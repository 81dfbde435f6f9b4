package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"staff-tracker/internal/models"
	"staff-tracker/internal/store"
)

const employeeColumns = `id, first_name, last_name, email, department, position, salary, hire_date, status, phone, address`

func scanEmployee(row rowScanner) (models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.Position,
		&e.Salary, &e.HireDate, &e.Status, &e.Phone, &e.Address)
	return e, err
}

func (s *Store) queryEmployees(ctx context.Context, where string, args ...any) ([]models.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees `+where+` ORDER BY rowid`, args...)
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
	return s.queryEmployees(ctx, "WHERE department=?", department)
}

func (s *Store) ListEmployeesByStatus(ctx context.Context, status string) ([]models.Employee, error) {
	return s.queryEmployees(ctx, "WHERE status=?", status)
}

func (s *Store) getEmployeeWhere(ctx context.Context, where string, arg any) (models.Employee, error) {
	e, err := scanEmployee(s.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE `+where+` LIMIT 1`, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Employee{}, store.ErrNotFound
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (models.Employee, error) {
	return s.getEmployeeWhere(ctx, "id=?", id)
}

func (s *Store) FindEmployeeByEmail(ctx context.Context, email string) (models.Employee, error) {
	return s.getEmployeeWhere(ctx, "email=?", email)
}

func (s *Store) InsertEmployee(ctx context.Context, e models.Employee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, first_name, last_name, email, department, position, salary, hire_date, status, phone, address)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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
	clause, args := setClause(sets)
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE employees SET "+clause+", updated_at=CURRENT_TIMESTAMP WHERE id=?", args...)
	if err != nil {
		return mapErr(err)
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

func (s *Store) DeleteEmployee(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id=?`, id)
	if err != nil {
		return false, fmt.Errorf("delete employee: %w", err)
	}
	return affected(res)
}
