package models

import "time"

// User はユーザーのデータベース構造体を表します。
// GitHubUsername は外部プロバイダーのログイン名で、作成後は変更されません。
type User struct {
	ID             int       `json:"id"`
	GitHubUsername string    `json:"github_username"`
	DisplayName    string    `json:"display_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UserCreateRequest struct {
	GitHubUsername string `json:"github_username" binding:"required"`
	DisplayName    string `json:"display_name" binding:"required"`
}

type UserUpdateRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

type GitHubAuthRequest struct {
	Code string `json:"code"`
}

// AuthResponse はOAuth認証成功時のレスポンスです。
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

type JWTClaims struct {
	UserID         int    `json:"id"`
	GitHubUsername string `json:"github_username"`
	DisplayName    string `json:"display_name"`
}
