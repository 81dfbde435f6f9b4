package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"staff-tracker/internal/live"
	"staff-tracker/internal/models"
	"staff-tracker/internal/store"
)

type EmployeeService struct {
	store store.EmployeeStore
	pub   Publisher
	newID func() string
	log   *logrus.Entry
}

// CanonicalEmail is the form emails are stored and compared in.
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	return s.store.ListEmployees(ctx)
}

// ListByDepartment matches the department name exactly (case-sensitive).
func (s *EmployeeService) ListByDepartment(ctx context.Context, department string) ([]models.Employee, error) {
	return s.store.ListEmployeesByDepartment(ctx, department)
}

func (s *EmployeeService) ListActive(ctx context.Context) ([]models.Employee, error) {
	return s.store.ListEmployeesByStatus(ctx, models.StatusActive)
}

func (s *EmployeeService) Get(ctx context.Context, id string) (models.Employee, error) {
	e, err := s.store.GetEmployee(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

// Create adds an employee with status active and returns its id. No write
// happens if another employee already has the email.
func (s *EmployeeService) Create(ctx context.Context, in models.CreateEmployeeDTO) (string, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = CanonicalEmail(in.Email)
	in.Department = strings.TrimSpace(in.Department)
	in.Position = strings.TrimSpace(in.Position)
	in.HireDate = strings.TrimSpace(in.HireDate)
	if err := validateStruct(in); err != nil {
		return "", err
	}

	if err := s.checkEmailFree(ctx, in.Email, ""); err != nil {
		return "", err
	}

	e := models.Employee{
		ID:         s.newID(),
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Department: in.Department,
		Position:   in.Position,
		Salary:     in.Salary,
		HireDate:   in.HireDate,
		Status:     models.StatusActive,
		Phone:      optionalString(in.Phone),
		Address:    optionalString(in.Address),
	}
	if err := s.store.InsertEmployee(ctx, e); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return "", ErrDuplicateEmail
		}
		return "", fmt.Errorf("insert employee: %w", err)
	}

	s.log.WithFields(logrus.Fields{"employee_id": e.ID, "department": e.Department}).Info("employee created")
	s.pub.Publish(ctx, live.TopicEmployees)
	return e.ID, nil
}

// Update applies the non-nil fields of in. A changed email must not belong to
// another employee. Blank optional fields are ignored.
func (s *EmployeeService) Update(ctx context.Context, id string, in models.UpdateEmployeeDTO) error {
	var err error
	if in.FirstName, err = requireNonBlank("firstName", in.FirstName); err != nil {
		return err
	}
	if in.LastName, err = requireNonBlank("lastName", in.LastName); err != nil {
		return err
	}
	if in.Department, err = requireNonBlank("department", in.Department); err != nil {
		return err
	}
	if in.Position, err = requireNonBlank("position", in.Position); err != nil {
		return err
	}
	if in.HireDate, err = requireNonBlank("hireDate", in.HireDate); err != nil {
		return err
	}
	if in.Email != nil {
		email := CanonicalEmail(*in.Email)
		if email == "" {
			return invalid("email cannot be empty")
		}
		in.Email = &email
	}
	in.Phone = optionalString(in.Phone)
	in.Address = optionalString(in.Address)
	if err := validateStruct(in); err != nil {
		return err
	}

	if in.Email != nil {
		if err := s.checkEmailFree(ctx, *in.Email, id); err != nil {
			return err
		}
	}

	if err := s.store.UpdateEmployee(ctx, id, in); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return ErrEmployeeNotFound
		case errors.Is(err, store.ErrDuplicateEmail):
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update employee: %w", err)
	}

	if !in.IsEmpty() {
		s.log.WithField("employee_id", id).Info("employee updated")
		s.pub.Publish(ctx, live.TopicEmployees)
	}
	return nil
}

// Remove deletes the employee. Removing an unknown id succeeds; tasks that
// reference the employee are left as they are.
func (s *EmployeeService) Remove(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteEmployee(ctx, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if deleted {
		s.log.WithField("employee_id", id).Info("employee removed")
		s.pub.Publish(ctx, live.TopicEmployees)
	}
	return nil
}

// checkEmailFree fails with ErrDuplicateEmail if an employee other than self
// holds email.
func (s *EmployeeService) checkEmailFree(ctx context.Context, email, self string) error {
	existing, err := s.store.FindEmployeeByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check email: %w", err)
	case existing.ID == self:
		return nil
	default:
		return ErrDuplicateEmail
	}
}
