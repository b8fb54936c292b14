package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"go-task-tracker/backend/internal/repositories"
	"go-task-tracker/backend/internal/services"
)

// RequestIDKey はリクエストIDを保存するコンテキストキーです。
const RequestIDKey = "request_id"

// respondError はエラーの種類に応じたステータスコードで応答します。
// 分類できないエラーは fallback のメッセージで 500 を返し、ログに残します。
func respondError(c *gin.Context, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": verr.Error()})
	case errors.Is(err, repositories.ErrDuplicateIdentity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "GitHub username already exists"})
	case errors.Is(err, repositories.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, repositories.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, repositories.ErrMemoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Memo not found"})
	case errors.Is(err, repositories.ErrTaskHasChildren):
		c.JSON(http.StatusConflict, gin.H{"error": "Task has child tasks"})
	case errors.Is(err, services.ErrAuthFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "GitHub authentication failed"})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
	default:
		log.WithFields(log.Fields{
			RequestIDKey: c.GetString(RequestIDKey),
			"path":       c.FullPath(),
		}).WithError(err).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// parseID はパスパラメーター id を整数として読みます。失敗時は 400 を返して false を返します。
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return id, true
}

// currentUserID は認証ミドルウェアが設定したユーザーIDを返します。
func currentUserID(c *gin.Context) (int, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return 0, false
	}
	userID, ok := userIDVal.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID type in context"})
		return 0, false
	}
	return userID, true
}
