package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/services"
)

// UserHandler はユーザー関連のハンドラーを管理します。
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUsersHandler は担当者の選択肢として表示名順のユーザー一覧を返します。
func (h *UserHandler) GetUsersHandler(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUserHandler はユーザーを登録します。
func (h *UserHandler) CreateUserHandler(c *gin.Context) {
	var req models.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUserHandler はユーザーの表示名を変更します。
func (h *UserHandler) UpdateUserHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUserHandler はユーザーを削除します。
func (h *UserHandler) DeleteUserHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
