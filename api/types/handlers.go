package types

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/killallgit/fortune-api/pkg/errors"
)

// SendError translates err into a status code and a standard error body
func SendError(c *gin.Context, err error) {
	response := ErrorResponse{
		Status:  StatusError,
		Message: err.Error(),
		Error:   string(apperrors.GetCode(err)),
	}
	if appErr, ok := apperrors.As(err); ok {
		response.Message = appErr.Message
		if len(appErr.Details) > 0 {
			response.Details = appErr.Details
		}
	}
	c.JSON(apperrors.GetHTTPCode(err), response)
}

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Status:  StatusError,
		Message: message,
		Error:   string(apperrors.ErrCodeNotFound),
	})
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
