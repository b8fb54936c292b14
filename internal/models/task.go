// Package models はAPIとストアの間で受け渡すデータ構造を定義します。
package models

import "time"

type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
)

// Valid はステータスが既知の値かどうかを返します。
func (s TaskStatus) Valid() bool {
	return s == TaskStatusActive || s == TaskStatusCompleted
}

// Task はタスク1件を表します。ParentTaskID が nil のタスクはプロジェクトです。
// AssigneeName と ParentTaskName は読み取り時に結合される表示用の値です。
type Task struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	AssigneeID     *int       `json:"assignee_id"`
	Priority       int        `json:"priority"`
	EstimatedHours float64    `json:"estimated_hours"`
	Deadline       *time.Time `json:"deadline"`
	RemainingDays  *int       `json:"remaining_days"`
	Progress       int        `json:"progress"`
	ParentTaskID   *int       `json:"parent_task_id"`
	Status         TaskStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	AssigneeName   *string    `json:"assignee_name"`
	ParentTaskName *string    `json:"parent_task_name"`
}

// Project は最上位タスクと、その直下の子タスクです。
type Project struct {
	Task
	ChildTasks []Task `json:"child_tasks"`
}

// TaskCreateRequest はタスク作成リクエストです。省略されたフィールドは既定値になります。
type TaskCreateRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    *string  `json:"description"`
	AssigneeID     *int     `json:"assignee_id"`
	Priority       *int     `json:"priority"`
	EstimatedHours *float64 `json:"estimated_hours"`
	Deadline       *string  `json:"deadline"`
	RemainingDays  *int     `json:"remaining_days"`
	Progress       *int     `json:"progress"`
	ParentTaskID   *int     `json:"parent_task_id"`
}

// TaskUpdateRequest は部分更新リクエストです。
// Set のフィールドだけが書き込まれ、null 許容フィールドは null でクリアできます。
type TaskUpdateRequest struct {
	Name           Optional[string]     `json:"name"`
	Description    Optional[*string]    `json:"description"`
	AssigneeID     Optional[*int]       `json:"assignee_id"`
	Priority       Optional[int]        `json:"priority"`
	EstimatedHours Optional[float64]    `json:"estimated_hours"`
	Deadline       Optional[*string]    `json:"deadline"`
	RemainingDays  Optional[*int]       `json:"remaining_days"`
	Progress       Optional[int]        `json:"progress"`
	ParentTaskID   Optional[*int]       `json:"parent_task_id"`
	Status         Optional[TaskStatus] `json:"status"`
}

// IsEmpty は更新対象のフィールドが1つもない場合に true を返します。
func (r *TaskUpdateRequest) IsEmpty() bool {
	return !r.Name.Set && !r.Description.Set && !r.AssigneeID.Set && !r.Priority.Set &&
		!r.EstimatedHours.Set && !r.Deadline.Set && !r.RemainingDays.Set &&
		!r.Progress.Set && !r.ParentTaskID.Set && !r.Status.Set
}

// ChildProgress は集計に使う子タスクの見積もり時間と進捗です。
type ChildProgress struct {
	EstimatedHours float64
	Progress       int
}

// Rollup は子タスクから算出した見積もり時間と加重平均進捗です。
type Rollup struct {
	EstimatedHours float64 `json:"estimated_hours"`
	Progress       int     `json:"progress"`
}
