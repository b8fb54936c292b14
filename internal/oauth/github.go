// Package oauth はOAuthプロバイダーとの認可コード交換とプロフィール取得を行います。
package oauth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"go-task-tracker/backend/internal/config"
)

// Profile はプロバイダーから取得したユーザー情報です。
type Profile struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// Provider は認可コードをアクセストークンに交換し、プロフィールを取得します。
type Provider interface {
	Exchange(ctx context.Context, code string) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// GitHubProvider は GitHub の OAuth App を使う Provider です。
type GitHubProvider struct {
	oauth  *oauth2.Config
	client *resty.Client
}

// NewGitHubProvider は設定から GitHubProvider を作成します。
// AuthURL と TokenURL が空の場合は github.com のエンドポイントを使います。
func NewGitHubProvider(cfg config.GitHubConfig) *GitHubProvider {
	endpoint := github.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetHeader("Accept", "application/vnd.github+json").
		SetTimeout(10 * time.Second)

	return &GitHubProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       []string{"read:user"},
		},
		client: client,
	}
}

// Exchange は認可コードをアクセストークンに交換します。
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (string, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("provider returned an empty access token")
	}
	return token.AccessToken, nil
}

// FetchProfile はアクセストークンで /user を取得します。
func (p *GitHubProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	var profile Profile
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&profile).
		Get("/user")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if resp.IsError() {
		log.WithField("status", resp.StatusCode()).Debug("GitHub user API rejected the token")
		return nil, fmt.Errorf("profile request failed with status %d", resp.StatusCode())
	}
	if profile.Login == "" {
		return nil, fmt.Errorf("profile response has no login")
	}
	return &profile, nil
}
