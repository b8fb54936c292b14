package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/testutil"
)

func TestGitHubAuth_CreatesUserAndIssuesToken(t *testing.T) {
	gh := testutil.NewFakeGitHub(t, "octocat", "The Octocat")
	f := testutil.SetupTestDB(t, gh.Configure)

	w := testutil.DoRequest(t, f.Router, http.MethodPost, "/api/auth/github", "", map[string]string{"code": gh.ValidCode})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.AuthResponse
	testutil.DecodeJSON(t, w, &resp)
	assert.NotEmpty(t, resp.AccessToken, "Expected access_token to be non-empty")
	require.NotNil(t, resp.User)
	assert.Equal(t, "octocat", resp.User.GitHubUsername)
	assert.Equal(t, "The Octocat", resp.User.DisplayName)

	t.Run("発行されたトークンで /me を取得できる", func(t *testing.T) {
		w := testutil.DoRequest(t, f.Router, http.MethodGet, "/api/auth/me", resp.AccessToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var me models.User
		testutil.DecodeJSON(t, w, &me)
		assert.Equal(t, resp.User.ID, me.ID)
	})

	t.Run("2回目のログインでは同じユーザーを返す", func(t *testing.T) {
		w := testutil.DoRequest(t, f.Router, http.MethodPost, "/api/auth/github", "", map[string]string{"code": gh.ValidCode})
		require.Equal(t, http.StatusOK, w.Code)
		var again models.AuthResponse
		testutil.DecodeJSON(t, w, &again)
		assert.Equal(t, resp.User.ID, again.User.ID)

		var count int
		require.NoError(t, f.DB.QueryRow("SELECT COUNT(*) FROM users WHERE github_username = ?", "octocat").Scan(&count))
		assert.Equal(t, 1, count)
	})
}

func TestGitHubAuth_ExistingUserKeepsDisplayName(t *testing.T) {
	gh := testutil.NewFakeGitHub(t, "alice", "Alice From GitHub")
	f := testutil.SetupTestDB(t, gh.Configure)

	w := testutil.DoRequest(t, f.Router, http.MethodPost, "/api/auth/github", "", map[string]string{"code": gh.ValidCode})
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AuthResponse
	testutil.DecodeJSON(t, w, &resp)
	assert.Equal(t, f.Alice.ID, resp.User.ID)
	assert.Equal(t, "Alice", resp.User.DisplayName)
}

func TestGitHubAuth_FallsBackToLoginForDisplayName(t *testing.T) {
	gh := testutil.NewFakeGitHub(t, "nameless", "")
	f := testutil.SetupTestDB(t, gh.Configure)

	w := testutil.DoRequest(t, f.Router, http.MethodPost, "/api/auth/github", "", map[string]string{"code": gh.ValidCode})
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AuthResponse
	testutil.DecodeJSON(t, w, &resp)
	assert.Equal(t, "nameless", resp.User.DisplayName)
}

func TestGitHubAuth_Failures(t *testing.T) {
	gh := testutil.NewFakeGitHub(t, "octocat", "The Octocat")
	f := testutil.SetupTestDB(t, gh.Configure)

	t.Run("コードがない場合は400", func(t *testing.T) {
		w := testutil.DoRequest(t, f.Router, http.MethodPost, "/api/auth/github", "", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("プロバイダーに拒否されたコードは401", func(t *testing.T) {
		w := testutil.DoRequest(t, f.Router, http.MethodPost, "/api/auth/github", "", map[string]string{"code": "wrong-code"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var resp map[string]string
		testutil.DecodeJSON(t, w, &resp)
		assert.Equal(t, "GitHub authentication failed", resp["error"])
	})
}

func TestMe_UserDeleted(t *testing.T) {
	f := testutil.SetupTestDB(t)
	token := testutil.TokenFor(t, f.Bob)

	w := testutil.DoRequest(t, f.Router, http.MethodDelete, fmt.Sprintf("/api/users/%d", f.Bob.ID), testutil.TokenFor(t, f.Alice), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoRequest(t, f.Router, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
