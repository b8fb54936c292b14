package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"go-task-tracker/backend/internal/models"
)

// TaskRepository はタスクテーブルを操作します。
type TaskRepository struct {
	DB *sql.DB
}

// NewTaskRepository は新しいTaskRepositoryインスタンスを作成します。
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// 担当者名と親タスク名を結合した読み取り用のSELECT
const taskSelect = `SELECT t.id, t.name, t.description, t.assignee_id, t.priority, t.estimated_hours,
	t.deadline, t.remaining_days, t.progress, t.parent_task_id, t.status, t.created_at, t.updated_at,
	u.display_name, p.name
	FROM tasks t
	LEFT JOIN users u ON u.id = t.assignee_id
	LEFT JOIN tasks p ON p.id = t.parent_task_id`

// updatableColumns は Update で書き込みを許可する列です。
var updatableColumns = map[string]bool{
	"name":            true,
	"description":     true,
	"assignee_id":     true,
	"priority":        true,
	"estimated_hours": true,
	"deadline":        true,
	"remaining_days":  true,
	"progress":        true,
	"parent_task_id":  true,
	"status":          true,
}

// Change は部分更新で書き込む1列分の値です。Value が nil の場合は NULL を書き込みます。
type Change struct {
	Column string
	Value  any
}

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.AssigneeID,
		&t.Priority,
		&t.EstimatedHours,
		&t.Deadline,
		&t.RemainingDays,
		&t.Progress,
		&t.ParentTaskID,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.AssigneeName,
		&t.ParentTaskName,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create は新しいタスクを挿入し、結合済みの読み取りモデルを返します。
func (r *TaskRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	ts := now()
	query := `INSERT INTO tasks (name, description, assignee_id, priority, estimated_hours, deadline,
		remaining_days, progress, parent_task_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.DB.ExecContext(ctx, query,
		t.Name, t.Description, t.AssigneeID, t.Priority, t.EstimatedHours, t.Deadline,
		t.RemainingDays, t.Progress, t.ParentTaskID, t.Status, ts, ts)
	if err != nil {
		return nil, errors.Wrap(err, "could not insert task")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "could not get last insert ID")
	}
	return r.FindByID(ctx, int(id))
}

// FindByID はIDでタスクを検索します。
func (r *TaskRepository) FindByID(ctx context.Context, id int) (*models.Task, error) {
	t, err := scanTask(r.DB.QueryRowContext(ctx, taskSelect+" WHERE t.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, errors.Wrapf(err, "could not query task %d", id)
	}
	return t, nil
}

// FindByStatus は指定ステータスのタスクを1回のクエリで返します。
// active は最上位タスクを先頭に作成順、completed は更新の新しい順に並びます。
func (r *TaskRepository) FindByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	order := " ORDER BY t.parent_task_id IS NULL DESC, t.created_at ASC, t.id ASC"
	if status == models.TaskStatusCompleted {
		order = " ORDER BY t.updated_at DESC, t.id DESC"
	}

	rows, err := r.DB.QueryContext(ctx, taskSelect+" WHERE t.status = ?"+order, status)
	if err != nil {
		return nil, errors.Wrapf(err, "could not query %s tasks", status)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan task")
		}
		tasks = append(tasks, *t)
	}
	return tasks, errors.WithStack(rows.Err())
}

// Update は指定された列だけを書き込み、updated_at を更新します。
func (r *TaskRepository) Update(ctx context.Context, id int, changes []Change) error {
	if len(changes) == 0 {
		return errors.New("no columns to update")
	}

	sets := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+2)
	for _, c := range changes {
		if !updatableColumns[c.Column] {
			return errors.Errorf("column %q is not updatable", c.Column)
		}
		sets = append(sets, c.Column+" = ?")
		args = append(args, c.Value)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id)

	res, err := r.DB.ExecContext(ctx, "UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return errors.Wrapf(err, "could not update task %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Exists はタスクが存在するかどうかを返します。
func (r *TaskRepository) Exists(ctx context.Context, id int) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM tasks WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "could not check task %d", id)
	}
	return true, nil
}

// ParentOf はタスクの親IDを返します。最上位タスクの場合は nil です。
func (r *TaskRepository) ParentOf(ctx context.Context, id int) (*int, error) {
	var parent *int
	err := r.DB.QueryRowContext(ctx, "SELECT parent_task_id FROM tasks WHERE id = ?", id).Scan(&parent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, errors.Wrapf(err, "could not query parent of task %d", id)
	}
	return parent, nil
}

// ChildProgress は直下の子タスクの見積もり時間と進捗を返します。
func (r *TaskRepository) ChildProgress(ctx context.Context, parentID int) ([]models.ChildProgress, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT estimated_hours, progress FROM tasks WHERE parent_task_id = ? ORDER BY id", parentID)
	if err != nil {
		return nil, errors.Wrapf(err, "could not query children of task %d", parentID)
	}
	defer rows.Close()

	var children []models.ChildProgress
	for rows.Next() {
		var c models.ChildProgress
		if err := rows.Scan(&c.EstimatedHours, &c.Progress); err != nil {
			return nil, errors.Wrap(err, "could not scan child progress")
		}
		children = append(children, c)
	}
	return children, errors.WithStack(rows.Err())
}

// Delete はタスクとそのメモを1つのトランザクションで削除します。
// 子タスクがある場合は ErrTaskHasChildren を返し、何も削除しません。
func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}
	defer tx.Rollback()

	var children int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE parent_task_id = ?", id).Scan(&children); err != nil {
		return errors.Wrapf(err, "could not count children of task %d", id)
	}
	if children > 0 {
		return ErrTaskHasChildren
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM task_memos WHERE task_id = ?", id); err != nil {
		return errors.Wrapf(err, "could not delete memos of task %d", id)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "could not delete task %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return errors.Wrap(tx.Commit(), "could not commit task delete")
}
