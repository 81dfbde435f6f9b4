// Package store defines the persistence contract shared by the Postgres and
// SQLite backends.
package store

import (
	"context"
	"errors"

	"staff-tracker/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	ListEmployeesByDepartment(ctx context.Context, department string) ([]models.Employee, error)
	ListEmployeesByStatus(ctx context.Context, status string) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id string) (models.Employee, error)
	// FindEmployeeByEmail returns ErrNotFound when no employee has the email.
	FindEmployeeByEmail(ctx context.Context, email string) (models.Employee, error)
	InsertEmployee(ctx context.Context, e models.Employee) error
	UpdateEmployee(ctx context.Context, id string, u models.UpdateEmployeeDTO) error
	// DeleteEmployee reports whether a row was removed.
	DeleteEmployee(ctx context.Context, id string) (bool, error)
}

type TaskStore interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	ListTasksByAssignee(ctx context.Context, employeeID string) ([]models.Task, error)
	ListTasksByCompletion(ctx context.Context, completed bool) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	InsertTask(ctx context.Context, t models.Task) error
	UpdateTask(ctx context.Context, id string, u models.UpdateTaskDTO) error
	// ToggleTask flips is_completed in a single statement and returns the new value.
	ToggleTask(ctx context.Context, id string) (bool, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
}

type DepartmentStore interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	GetDepartment(ctx context.Context, id string) (models.Department, error)
	InsertDepartment(ctx context.Context, d models.Department) error
	UpdateDepartment(ctx context.Context, id string, u models.UpdateDepartmentDTO) error
	DeleteDepartment(ctx context.Context, id string) (bool, error)
}

type Store interface {
	EmployeeStore
	TaskStore
	DepartmentStore

	// Migrate creates tables and indexes if they do not exist.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
