package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/services"
)

// MemoHandler はタスクメモのハンドラーを管理します。
type MemoHandler struct {
	memoService *services.MemoService
}

func NewMemoHandler(memoService *services.MemoService) *MemoHandler {
	return &MemoHandler{memoService: memoService}
}

// GetMemosHandler はタスクのメモを新しい順に返します。
func (h *MemoHandler) GetMemosHandler(c *gin.Context) {
	taskID, ok := parseID(c)
	if !ok {
		return
	}
	memos, err := h.memoService.ListMemos(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err, "Failed to retrieve memos")
		return
	}
	c.JSON(http.StatusOK, memos)
}

// CreateMemoHandler はログイン中のユーザーを作成者としてメモを追加します。
func (h *MemoHandler) CreateMemoHandler(c *gin.Context) {
	taskID, ok := parseID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.MemoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	memo, err := h.memoService.CreateMemo(c.Request.Context(), taskID, userID, req.Content)
	if err != nil {
		respondError(c, err, "Failed to save memo")
		return
	}
	c.JSON(http.StatusCreated, memo)
}
