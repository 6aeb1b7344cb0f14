package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response is the JSON envelope of every API endpoint.
type Response struct {
	Status string      `json:"status"`
	Msg    string      `json:"msg"`
	Data   interface{} `json:"data,omitempty"`
}

// Respond writes the envelope with an explicit status string.
func Respond(c *gin.Context, httpStatus int, status, message string, data interface{}) {
	c.JSON(httpStatus, Response{
		Status: status,
		Msg:    message,
		Data:   data,
	})
}

// RespondSuccess sends a 200 with data.
func RespondSuccess(c *gin.Context, data interface{}) {
	Respond(c, http.StatusOK, statusSuccess, "", data)
}

// RespondSuccessMessage sends a 200 with a message and data.
func RespondSuccessMessage(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusOK, statusSuccess, message, data)
}

// RespondError sends an error envelope with the given HTTP status.
func RespondError(c *gin.Context, httpStatus int, message string) {
	Respond(c, httpStatus, statusError, message, nil)
}

// RespondErrorAbort sends an error envelope and aborts the handler chain,
// for use in middleware.
func RespondErrorAbort(c *gin.Context, httpStatus int, message string) {
	RespondError(c, httpStatus, message)
	c.Abort()
}
