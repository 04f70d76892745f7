package utils

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Success writes the uniform response envelope.
func Success(c *gin.Context, status int, message string, data gin.H) {
	c.JSON(status, gin.H{"success": true, "message": message, "data": data})
}

// Fail writes an operational error in the envelope shape.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "status": status, "message": message})
}

// DBError translates storage errors into the operational taxonomy at the
// boundary so engine-specific messages never leak to clients.
func DBError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		Fail(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		Fail(c, http.StatusBadRequest, "Duplicate value. Please use another value.")
	default:
		Internal(c, err)
	}
}

// Internal writes a generic 500. The underlying message is only exposed in
// development mode.
func Internal(c *gin.Context, err error) {
	body := gin.H{"success": false, "status": http.StatusInternalServerError, "message": "Something went wrong."}
	if os.Getenv("APP_ENV") == "development" && err != nil {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
