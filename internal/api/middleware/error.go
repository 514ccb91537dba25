package middleware

import (
	"net/http"

	"capsim/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts panics into the same error envelope the handlers
// return, so clients see one shape regardless of where a failure happened.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		msg := "An unexpected error occurred"
		switch v := recovered.(type) {
		case string:
			msg = v
		case error:
			msg = v.Error()
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: msg,
			},
		})
		c.Abort()
	})
}
