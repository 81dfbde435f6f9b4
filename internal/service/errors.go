package service

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail     = errors.New("employee with this email already exists")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrDepartmentNotFound = errors.New("department not found")
)

// Wire codes reported to clients.
const (
	CodeDuplicateEmail     = "DuplicateEmail"
	CodeEmployeeNotFound   = "EmployeeNotFound"
	CodeTaskNotFound       = "TaskNotFound"
	CodeDepartmentNotFound = "DepartmentNotFound"
	CodeInvalidArgument    = "InvalidArgument"
	CodeInternal           = "Internal"
)

// ValidationError reports caller input that was rejected before any write.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid input: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(format string, args ...any) error {
	return &ValidationError{Err: fmt.Errorf(format, args...)}
}

// ErrorCode classifies err for the transport layers.
func ErrorCode(err error) string {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return CodeDuplicateEmail
	case errors.Is(err, ErrEmployeeNotFound):
		return CodeEmployeeNotFound
	case errors.Is(err, ErrTaskNotFound):
		return CodeTaskNotFound
	case errors.Is(err, ErrDepartmentNotFound):
		return CodeDepartmentNotFound
	case errors.As(err, &verr):
		return CodeInvalidArgument
	default:
		return CodeInternal
	}
}
