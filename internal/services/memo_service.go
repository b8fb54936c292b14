package services

import (
	"context"
	"strings"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/repositories"
)

// MemoService はタスクメモのビジネスロジックを扱います。
type MemoService struct {
	memoRepo *repositories.MemoRepository
	taskRepo *repositories.TaskRepository
	userRepo *repositories.UserRepository
}

// NewMemoService は新しいMemoServiceを作成します。
func NewMemoService(memoRepo *repositories.MemoRepository, taskRepo *repositories.TaskRepository, userRepo *repositories.UserRepository) *MemoService {
	return &MemoService{memoRepo: memoRepo, taskRepo: taskRepo, userRepo: userRepo}
}

// ListMemos はタスクのメモを新しい順に返します。
func (s *MemoService) ListMemos(ctx context.Context, taskID int) ([]models.Memo, error) {
	return s.memoRepo.FindByTaskID(ctx, taskID)
}

// CreateMemo はメモを追加します。内容は前後の空白を除いて保存されます。
// 作成者がすでに削除されている場合は ErrUserNotFound を返します。
func (s *MemoService) CreateMemo(ctx context.Context, taskID, authorID int, content string) (*models.Memo, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content", "is required")
	}

	exists, err := s.taskRepo.Exists(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repositories.ErrTaskNotFound
	}
	if _, err := s.userRepo.FindByID(ctx, authorID); err != nil {
		return nil, err
	}

	return s.memoRepo.Create(ctx, &models.Memo{TaskID: taskID, UserID: &authorID, Content: content})
}
