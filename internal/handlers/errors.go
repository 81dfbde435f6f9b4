package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staff-tracker/internal/api"
	"staff-tracker/internal/service"
)

func statusFor(code string) int {
	switch code {
	case service.CodeDuplicateEmail:
		return http.StatusConflict
	case service.CodeEmployeeNotFound, service.CodeTaskNotFound, service.CodeDepartmentNotFound, api.CodeUnknownOperation:
		return http.StatusNotFound
	case service.CodeInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape shared by REST, RPC and live errors. Internal
// failures are not described to the client.
func errorBody(err error) (code, msg string) {
	code = api.Code(err)
	if code == service.CodeInternal {
		return code, "internal error"
	}
	return code, err.Error()
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	code, msg := errorBody(err)
	c.JSON(statusFor(code), gin.H{"error": msg, "code": code})
}

func bindError(c *gin.Context, err error) {
	respondError(c, &service.ValidationError{Err: err})
}
