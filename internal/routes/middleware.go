package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"go-task-tracker/backend/internal/handlers"
	"go-task-tracker/backend/internal/services"
)

// AuthMiddleware はJWTトークンを検証し、ユーザーIDをコンテキストに設定するミドルウェアです。
// ヘッダーが無い、または Bearer 形式でない場合は 401、トークンが無効な場合は 403 を返します。
func AuthMiddleware(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		tokenString, err := services.BearerToken(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			log.WithField(handlers.RequestIDKey, c.GetString(handlers.RequestIDKey)).WithError(err).Debug("Rejected token")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// RequestLogger はリクエストIDを払い出し、処理結果をlogrusで記録します。
// クライアントが X-Request-ID を送った場合はその値を使います。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(handlers.RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(log.Fields{
			handlers.RequestIDKey: requestID,
			"method":              c.Request.Method,
			"path":                c.Request.URL.Path,
			"status":              status,
			"latency":             time.Since(start).String(),
			"client_ip":           c.ClientIP(),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}
