package services

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/oauth"
)

// AuthService はOAuthログインと認証済みユーザーの解決を扱います。
type AuthService struct {
	provider    oauth.Provider
	userService *UserService
	jwtService  *JWTService
}

// NewAuthService は新しいAuthServiceを作成します。
func NewAuthService(provider oauth.Provider, userService *UserService, jwtService *JWTService) *AuthService {
	return &AuthService{provider: provider, userService: userService, jwtService: jwtService}
}

// ExchangeCode は認可コードでログインし、アプリのトークンとユーザーを返します。
// 初めてログインするユーザーはこの時に作成されます。
func (s *AuthService) ExchangeCode(ctx context.Context, code string) (*models.AuthResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalid("code", "is required")
	}

	accessToken, err := s.provider.Exchange(ctx, code)
	if err != nil {
		log.WithError(err).Warn("OAuth code exchange failed")
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	profile, err := s.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch OAuth profile")
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	user, err := s.userService.FindOrCreateByGitHub(ctx, profile.Login, profile.Name)
	if err != nil {
		return nil, err
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{AccessToken: token, User: user}, nil
}

// Me はトークンのユーザーIDから現在のユーザーを取得します。
func (s *AuthService) Me(ctx context.Context, userID int) (*models.User, error) {
	return s.userService.GetUser(ctx, userID)
}
