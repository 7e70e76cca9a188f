package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/admin-otp-gateway/internal/logger"
	"github.com/ignatzorin/admin-otp-gateway/internal/pkg/apperror"
)

// ErrorHandler обрабатывает необработанные ошибки централизованно.
// Внутренние детали маскируются: наружу уходит только сообщение AppError
// или общий ответ о внутренней ошибке.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"error":  err.Error(),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("Request error")
			}

			if appErr, ok := apperror.As(err.Err); ok {
				c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
				return
			}

			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
	}
}
