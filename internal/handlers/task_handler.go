// Package handlers はHTTPリクエストを処理します。
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/services"
)

// TaskHandler はタスク関連のハンドラーを管理します。
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler は新しいTaskHandlerを作成します。
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// GetActiveTasksHandler は進行中のタスクをプロジェクトごとに返します。
func (h *TaskHandler) GetActiveTasksHandler(c *gin.Context) {
	h.listTasks(c, models.TaskStatusActive)
}

// GetCompletedTasksHandler は完了したタスクをプロジェクトごとに返します。
func (h *TaskHandler) GetCompletedTasksHandler(c *gin.Context) {
	h.listTasks(c, models.TaskStatusCompleted)
}

func (h *TaskHandler) listTasks(c *gin.Context, status models.TaskStatus) {
	projects, err := h.taskService.ListTasks(c.Request.Context(), status)
	if err != nil {
		respondError(c, err, "Failed to retrieve tasks")
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetTaskByIDHandler は指定IDのタスクを返します。
func (h *TaskHandler) GetTaskByIDHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTaskHandler は新しいタスクを作成します。
func (h *TaskHandler) CreateTaskHandler(c *gin.Context) {
	var req models.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to save task to database")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTaskHandler は送られたフィールドだけタスクを更新します。
func (h *TaskHandler) UpdateTaskHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTaskHandler はタスクを削除します。
func (h *TaskHandler) DeleteTaskHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// CalculatedProgressHandler は子タスクから集計した見積もり時間と進捗を返します。
func (h *TaskHandler) CalculatedProgressHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rollup, err := h.taskService.CalculateProgress(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to calculate progress")
		return
	}
	c.JSON(http.StatusOK, rollup)
}
