// Package testutil はハンドラーテスト用のデータベースとルーターを用意します。
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"go-task-tracker/backend/internal/config"
	"go-task-tracker/backend/internal/database"
	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/repositories"
	"go-task-tracker/backend/internal/routes"
	"go-task-tracker/backend/internal/services"
)

// TestJWTSecret はテスト用ルーターがトークンの署名に使う鍵です。
const TestJWTSecret = "test-jwt-secret"

// Fixture はテスト用のDB、ルーター、投入済みのユーザーです。
type Fixture struct {
	DB       *sql.DB
	Router   *gin.Engine
	UserRepo *repositories.UserRepository
	TaskRepo *repositories.TaskRepository
	MemoRepo *repositories.MemoRepository
	Alice    *models.User
	Bob      *models.User
}

// TestConfig はインメモリSQLiteを使う設定を返します。
func TestConfig() *config.Config {
	return &config.Config{
		GinMode:           gin.TestMode,
		DBDriver:          config.DriverSQLite,
		DBPath:            ":memory:",
		JWTSecret:         TestJWTSecret,
		FrontendURL:       "http://localhost:5173",
		RateLimitRequests: 10000,
		RateLimitWindow:   time.Minute,
		LogLevel:          "error",
		GitHub: config.GitHubConfig{
			ClientID:     "test-client-id",
			ClientSecret: "test-client-secret",
			APIURL:       "https://api.github.com",
		},
	}
}

// SetupTestDB はスキーマ適用済みのインメモリDBを作り、2人のユーザーを投入してルーターを構築します。
// 接続はテスト終了時に閉じられます。
func SetupTestDB(t *testing.T, opts ...func(*config.Config)) *Fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := database.Open(cfg)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, cfg.DBDriver), "Failed to apply schema")

	f := &Fixture{
		DB:       db,
		Router:   routes.SetupRouter(db, cfg),
		UserRepo: repositories.NewUserRepository(db),
		TaskRepo: repositories.NewTaskRepository(db),
		MemoRepo: repositories.NewMemoRepository(db),
	}
	f.Alice = CreateTestUser(t, f.UserRepo, "alice", "Alice")
	f.Bob = CreateTestUser(t, f.UserRepo, "bob", "Bob")
	return f
}

// CreateTestUser はユーザーを直接DBに作成します。
func CreateTestUser(t *testing.T, userRepo *repositories.UserRepository, login, displayName string) *models.User {
	t.Helper()
	u, err := userRepo.Create(context.Background(), &models.User{GitHubUsername: login, DisplayName: displayName})
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	return u
}

// TokenFor はユーザーの有効なトークンを発行します。
func TokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := services.NewJWTService(TestJWTSecret).GenerateToken(user)
	require.NoError(t, err)
	return token
}

// ExpiredTokenFor は issuedAgo 前に発行された扱いのトークンを返します。
func ExpiredTokenFor(t *testing.T, user *models.User, issuedAgo time.Duration) string {
	t.Helper()
	issuedAt := time.Now().Add(-issuedAgo)
	claims := jwt.MapClaims{
		"id":              user.ID,
		"github_username": user.GitHubUsername,
		"display_name":    user.DisplayName,
		"iat":             issuedAt.Unix(),
		"exp":             issuedAt.Add(services.TokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	require.NoError(t, err)
	return token
}

// DoRequest はルーターにリクエストを送ります。body が string の場合はそのまま送信し、
// それ以外で nil でなければJSONにエンコードします。
func DoRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// CreateTestTask はAPI経由でタスクを作成します。
func CreateTestTask(t *testing.T, router *gin.Engine, token string, payload map[string]any) *models.Task {
	t.Helper()
	w := DoRequest(t, router, http.MethodPost, "/api/tasks", token, payload)
	require.Equal(t, http.StatusCreated, w.Code, "タスク作成に失敗しました: %s", w.Body.String())

	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	return &task
}

// DecodeJSON はレスポンスボディを v にデコードします。
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}
