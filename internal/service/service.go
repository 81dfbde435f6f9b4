// Package service holds the employee, task and department operations: input
// validation, email uniqueness, and change notification for live queries.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"staff-tracker/internal/live"
	"staff-tracker/internal/models"
	"staff-tracker/internal/store"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("employee_status", func(fl validator.FieldLevel) bool {
		return models.IsValidStatus(fl.Field().String())
	})
	return v
}

// Publisher is told which collections a successful mutation touched.
type Publisher interface {
	Publish(ctx context.Context, topics ...live.Topic)
}

type Service struct {
	Employees   *EmployeeService
	Tasks       *TaskService
	Departments *DepartmentService
}

type options struct {
	now   func() time.Time
	newID func() string
}

type Option func(*options)

// WithClock overrides the clock used to stamp task creation times.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides record identity generation.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func New(st store.Store, pub Publisher, log *logrus.Logger, opts ...Option) *Service {
	o := options{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{
		Employees: &EmployeeService{
			store: st, pub: pub, newID: o.newID,
			log: log.WithField("component", "employees"),
		},
		Tasks: &TaskService{
			store: st, pub: pub, newID: o.newID, now: o.now,
			log: log.WithField("component", "tasks"),
		},
		Departments: &DepartmentService{
			store: st, pub: pub, newID: o.newID,
			log: log.WithField("component", "departments"),
		},
	}
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// optionalString trims s and maps a blank value to nil.
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// requireNonBlank trims a supplied partial-update field; a blank value is rejected.
func requireNonBlank(field string, s *string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, invalid("%s cannot be empty", field)
	}
	return &v, nil
}
