package repositories

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"go-task-tracker/backend/internal/models"
)

// MemoRepository はタスクメモを操作します。
type MemoRepository struct {
	DB *sql.DB
}

func NewMemoRepository(db *sql.DB) *MemoRepository {
	return &MemoRepository{DB: db}
}

const memoSelect = `SELECT m.id, m.task_id, m.user_id, m.content, m.created_at, u.display_name
	FROM task_memos m
	LEFT JOIN users u ON u.id = m.user_id`

func scanMemo(row interface{ Scan(...any) error }) (*models.Memo, error) {
	var m models.Memo
	if err := row.Scan(&m.ID, &m.TaskID, &m.UserID, &m.Content, &m.CreatedAt, &m.UserName); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create はメモを挿入し、作成者名付きで返します。
func (r *MemoRepository) Create(ctx context.Context, m *models.Memo) (*models.Memo, error) {
	result, err := r.DB.ExecContext(ctx,
		"INSERT INTO task_memos (task_id, user_id, content, created_at) VALUES (?, ?, ?, ?)",
		m.TaskID, m.UserID, m.Content, now())
	if err != nil {
		return nil, errors.Wrap(err, "could not insert memo")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "could not get last insert ID")
	}
	return r.FindByID(ctx, int(id))
}

// FindByID はIDでメモを検索します。
func (r *MemoRepository) FindByID(ctx context.Context, id int) (*models.Memo, error) {
	m, err := scanMemo(r.DB.QueryRowContext(ctx, memoSelect+" WHERE m.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemoNotFound
		}
		return nil, errors.Wrapf(err, "could not query memo %d", id)
	}
	return m, nil
}

// FindByTaskID はタスクのメモを新しい順に返します。
func (r *MemoRepository) FindByTaskID(ctx context.Context, taskID int) ([]models.Memo, error) {
	rows, err := r.DB.QueryContext(ctx, memoSelect+" WHERE m.task_id = ? ORDER BY m.created_at DESC, m.id DESC", taskID)
	if err != nil {
		return nil, errors.Wrapf(err, "could not query memos of task %d", taskID)
	}
	defer rows.Close()

	memos := []models.Memo{}
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan memo")
		}
		memos = append(memos, *m)
	}
	return memos, errors.WithStack(rows.Err())
}
