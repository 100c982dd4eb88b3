package types

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxnote/ideas-api/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: message})
}

// SendInternalError sends a standardized internal server error response
func SendInternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}

// SendError maps an application error to its HTTP status and envelope
func SendError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		c.JSON(appErr.GetHTTPCode(), ErrorResponse{Error: appErr.Message})
		return
	}
	SendInternalError(c, err.Error())
}
