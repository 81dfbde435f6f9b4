package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("wrap: %w", ErrDuplicateEmail), CodeDuplicateEmail},
		{ErrEmployeeNotFound, CodeEmployeeNotFound},
		{ErrTaskNotFound, CodeTaskNotFound},
		{ErrDepartmentNotFound, CodeDepartmentNotFound},
		{invalid("bad %s", "thing"), CodeInvalidArgument},
		{errors.New("connection refused"), CodeInternal},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, ErrorCode(c.err), c.err.Error())
	}
}

func TestValidationError_Message(t *testing.T) {
	err := invalid("email cannot be empty")
	assert.EqualError(t, err, "invalid input: email cannot be empty")
}
