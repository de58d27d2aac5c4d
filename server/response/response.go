package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes the uniform response envelope. err may be nil for successes.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	errMessage := ""
	if err != nil {
		errMessage = err.Error()
		if message == "" {
			message = errMessage
		}
	}

	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
		"errors":  errMessage,
		"status":  http.StatusText(status),
	})
}
