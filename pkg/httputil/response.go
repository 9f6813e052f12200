package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parishops/parish-api/pkg/errors"
)

// Response wraps all API responses in the uniform success envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a success response for a newly created resource
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError maps an error onto the failure envelope. Constraint
// violations and not-found lookups keep their message; anything else is
// reported as a generic failure so store errors never leak details.
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := err.(*errors.AppError); ok {
		switch appErr.Code {
		case errors.ErrNotFound:
			status = http.StatusNotFound
			message = appErr.Message
		case errors.ErrBadRequest:
			status = http.StatusBadRequest
			message = appErr.Message
		case errors.ErrUnauthorized:
			status = http.StatusUnauthorized
			message = appErr.Message
		case errors.ErrForbidden:
			status = http.StatusForbidden
			message = appErr.Message
		case errors.ErrConflict:
			status = http.StatusConflict
			message = appErr.Message
		}
	}

	c.JSON(status, Response{
		Success: false,
		Error:   message,
	})
}

// RespondWithBadRequest reports a malformed request body or parameter.
func RespondWithBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   message,
	})
}
