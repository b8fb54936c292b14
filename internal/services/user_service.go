package services

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/repositories"
)

// UserService はユーザー関連のビジネスロジックを扱います。
type UserService struct {
	userRepo *repositories.UserRepository
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers は表示名順にユーザーを返します。
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindAll(ctx)
}

// GetUser はIDでユーザーを取得します。
func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// CreateUser はユーザーを登録します。
func (s *UserService) CreateUser(ctx context.Context, req models.UserCreateRequest) (*models.User, error) {
	login := strings.TrimSpace(req.GitHubUsername)
	name := strings.TrimSpace(req.DisplayName)
	if login == "" {
		return nil, invalid("github_username", "is required")
	}
	if name == "" {
		return nil, invalid("display_name", "is required")
	}
	return s.userRepo.Create(ctx, &models.User{GitHubUsername: login, DisplayName: name})
}

// UpdateUser は表示名を変更します。
func (s *UserService) UpdateUser(ctx context.Context, id int, req models.UserUpdateRequest) (*models.User, error) {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, invalid("display_name", "is required")
	}
	return s.userRepo.UpdateDisplayName(ctx, id, name)
}

// DeleteUser はユーザーを削除します。
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.userRepo.Delete(ctx, id)
}

// FindOrCreateByGitHub はログイン名でユーザーを探し、いなければ作成します。
// 既存ユーザーの表示名は変更しません。
func (s *UserService) FindOrCreateByGitHub(ctx context.Context, login, name string) (*models.User, error) {
	user, err := s.userRepo.FindByGitHubUsername(ctx, login)
	if err == nil {
		return user, nil
	}
	if err != repositories.ErrUserNotFound {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		name = login
	}
	user, err = s.userRepo.Create(ctx, &models.User{GitHubUsername: login, DisplayName: name})
	if err == repositories.ErrDuplicateIdentity {
		// 同じユーザーの同時ログインで先に作成された
		return s.userRepo.FindByGitHubUsername(ctx, login)
	}
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user_id": user.ID, "github_username": login}).Info("Created user from GitHub login")
	return user, nil
}
