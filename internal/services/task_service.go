package services

import (
	"context"
	"math"
	"strings"
	"time"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/repositories"
)

const (
	DefaultPriority = 3
	MinPriority     = 1
	MaxPriority     = 5

	// MaxEstimatedHours は1タスクの見積もり時間の上限です。
	MaxEstimatedHours = 100000
)

// 期限として受け付ける書式。HTML の datetime-local と date 入力の値も含みます。
var deadlineLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// TaskService はタスク階層のビジネスロジックを扱います。
type TaskService struct {
	taskRepo *repositories.TaskRepository
	userRepo *repositories.UserRepository
}

// NewTaskService は新しいTaskServiceを作成します。
func NewTaskService(taskRepo *repositories.TaskRepository, userRepo *repositories.UserRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, userRepo: userRepo}
}

// ListTasks は指定ステータスのタスクをプロジェクトの木構造で返します。
func (s *TaskService) ListTasks(ctx context.Context, status models.TaskStatus) ([]models.Project, error) {
	if !status.Valid() {
		return nil, invalid("status", "must be active or completed")
	}
	tasks, err := s.taskRepo.FindByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return BuildProjectTree(tasks), nil
}

// GetTask は指定IDのタスクを取得します。
func (s *TaskService) GetTask(ctx context.Context, id int) (*models.Task, error) {
	return s.taskRepo.FindByID(ctx, id)
}

// CreateTask はタスクを検証して作成します。
func (s *TaskService) CreateTask(ctx context.Context, req models.TaskCreateRequest) (*models.Task, error) {
	task := &models.Task{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Priority:    DefaultPriority,
		Status:      models.TaskStatusActive,
	}
	if task.Name == "" {
		return nil, invalid("name", "is required")
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = *req.EstimatedHours
	}
	if req.Progress != nil {
		task.Progress = *req.Progress
	}
	task.RemainingDays = req.RemainingDays
	if err := validateNumbers(task.Priority, task.EstimatedHours, task.Progress); err != nil {
		return nil, err
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}
	task.Deadline = deadline

	if task.AssigneeID, err = s.checkAssignee(ctx, req.AssigneeID); err != nil {
		return nil, err
	}
	if task.ParentTaskID, err = s.checkParent(ctx, 0, req.ParentTaskID); err != nil {
		return nil, err
	}

	return s.taskRepo.Create(ctx, task)
}

// UpdateTask は送られたフィールドだけを更新し、更新後のタスクを返します。
func (s *TaskService) UpdateTask(ctx context.Context, id int, req models.TaskUpdateRequest) (*models.Task, error) {
	if req.IsEmpty() {
		return nil, invalid("", "no fields to update")
	}
	exists, err := s.taskRepo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repositories.ErrTaskNotFound
	}

	changes, err := s.buildChanges(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(ctx, id, changes); err != nil {
		return nil, err
	}
	return s.taskRepo.FindByID(ctx, id)
}

func (s *TaskService) buildChanges(ctx context.Context, id int, req models.TaskUpdateRequest) ([]repositories.Change, error) {
	var changes []repositories.Change
	set := func(column string, value any) {
		changes = append(changes, repositories.Change{Column: column, Value: value})
	}

	if req.Name.Set {
		name := strings.TrimSpace(req.Name.Value)
		if req.Name.Null || name == "" {
			return nil, invalid("name", "is required")
		}
		set("name", name)
	}
	if req.Description.Set {
		set("description", req.Description.Value)
	}
	if req.AssigneeID.Set {
		assignee, err := s.checkAssignee(ctx, req.AssigneeID.Value)
		if err != nil {
			return nil, err
		}
		set("assignee_id", assignee)
	}
	if req.Priority.Set {
		if req.Priority.Null {
			return nil, invalid("priority", "cannot be null")
		}
		if req.Priority.Value < MinPriority || req.Priority.Value > MaxPriority {
			return nil, invalid("priority", "must be between 1 and 5")
		}
		set("priority", req.Priority.Value)
	}
	if req.EstimatedHours.Set {
		if req.EstimatedHours.Null {
			return nil, invalid("estimated_hours", "cannot be null")
		}
		if err := validateHours(req.EstimatedHours.Value); err != nil {
			return nil, err
		}
		set("estimated_hours", req.EstimatedHours.Value)
	}
	if req.Deadline.Set {
		deadline, err := parseDeadline(req.Deadline.Value)
		if err != nil {
			return nil, err
		}
		set("deadline", deadline)
	}
	if req.RemainingDays.Set {
		set("remaining_days", req.RemainingDays.Value)
	}
	if req.Progress.Set {
		if req.Progress.Null {
			return nil, invalid("progress", "cannot be null")
		}
		if req.Progress.Value < 0 || req.Progress.Value > 100 {
			return nil, invalid("progress", "must be between 0 and 100")
		}
		set("progress", req.Progress.Value)
	}
	if req.ParentTaskID.Set {
		parent, err := s.checkParent(ctx, id, req.ParentTaskID.Value)
		if err != nil {
			return nil, err
		}
		set("parent_task_id", parent)
	}
	if req.Status.Set {
		if req.Status.Null || !req.Status.Value.Valid() {
			return nil, invalid("status", "must be active or completed")
		}
		set("status", req.Status.Value)
	}
	return changes, nil
}

// DeleteTask はタスクとそのメモを削除します。子タスクを持つタスクは削除できません。
func (s *TaskService) DeleteTask(ctx context.Context, id int) error {
	return s.taskRepo.Delete(ctx, id)
}

// CalculateProgress は直下の子タスクから見積もり時間と進捗を集計します。
func (s *TaskService) CalculateProgress(ctx context.Context, id int) (models.Rollup, error) {
	children, err := s.taskRepo.ChildProgress(ctx, id)
	if err != nil {
		return models.Rollup{}, err
	}
	return CalculateRollup(children), nil
}

func validateNumbers(priority int, hours float64, progress int) error {
	if priority < MinPriority || priority > MaxPriority {
		return invalid("priority", "must be between 1 and 5")
	}
	if err := validateHours(hours); err != nil {
		return err
	}
	if progress < 0 || progress > 100 {
		return invalid("progress", "must be between 0 and 100")
	}
	return nil
}

// validateHours は見積もり時間が 0 以上 MaxEstimatedHours 以下の有限値かどうかを検証します。
func validateHours(hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return invalid("estimated_hours", "must be a finite number")
	}
	if hours < 0 {
		return invalid("estimated_hours", "must not be negative")
	}
	if hours > MaxEstimatedHours {
		return invalid("estimated_hours", "must not exceed 100000")
	}
	return nil
}

// parseDeadline は期限文字列を UTC の時刻に変換します。nil と空文字は期限なしです。
func parseDeadline(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	raw := strings.TrimSpace(*value)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalid("deadline", "must be an RFC 3339 timestamp or YYYY-MM-DD date")
}

// checkAssignee は担当者IDを検証します。nil と 0 は未割り当てです。
func (s *TaskService) checkAssignee(ctx context.Context, assigneeID *int) (*int, error) {
	if assigneeID == nil || *assigneeID == 0 {
		return nil, nil
	}
	if _, err := s.userRepo.FindByID(ctx, *assigneeID); err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, invalid("assignee_id", "user does not exist")
		}
		return nil, err
	}
	return assigneeID, nil
}

// checkParent は親タスクIDを検証します。nil と 0 は最上位タスクです。
// taskID が 0 でない場合、そのタスク自身や子孫を親にすることはできません。
func (s *TaskService) checkParent(ctx context.Context, taskID int, parentID *int) (*int, error) {
	if parentID == nil || *parentID == 0 {
		return nil, nil
	}
	if taskID != 0 && *parentID == taskID {
		return nil, invalid("parent_task_id", "task cannot be its own parent")
	}

	// 新しい親から祖先をたどり、更新対象のタスクが現れれば循環になる
	visited := map[int]bool{}
	current := *parentID
	for {
		next, err := s.taskRepo.ParentOf(ctx, current)
		if err != nil {
			if err == repositories.ErrTaskNotFound && current == *parentID {
				return nil, invalid("parent_task_id", "parent task does not exist")
			}
			return nil, err
		}
		if next == nil {
			return parentID, nil
		}
		if taskID != 0 && *next == taskID {
			return nil, invalid("parent_task_id", "task cannot be moved under its own descendant")
		}
		if visited[*next] {
			return nil, invalid("parent_task_id", "parent chain contains a cycle")
		}
		visited[current] = true
		current = *next
	}
}
