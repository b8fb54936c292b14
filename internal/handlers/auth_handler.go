package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/services"
)

// AuthHandler はOAuthログインのハンドラーを管理します。
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler は新しいAuthHandlerを作成します。
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// GitHubAuthHandler は認可コードをアプリのトークンに交換します。
func (h *AuthHandler) GitHubAuthHandler(c *gin.Context) {
	var req models.GitHubAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	resp, err := h.authService.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err, "Failed to complete GitHub login")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MeHandler はトークンのユーザーを返します。
func (h *AuthHandler) MeHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, user)
}
