package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/testutil"
)

func TestGetUsers_OrderedByDisplayName(t *testing.T) {
	f := testutil.SetupTestDB(t)
	token := testutil.TokenFor(t, f.Alice)
	testutil.CreateTestUser(t, f.UserRepo, "aaron", "Aaron")

	w := testutil.DoRequest(t, f.Router, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []models.User
	testutil.DecodeJSON(t, w, &users)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"Aaron", "Alice", "Bob"}, []string{users[0].DisplayName, users[1].DisplayName, users[2].DisplayName})
}

func TestCreateUser_Success(t *testing.T) {
	f := testutil.SetupTestDB(t)
	token := testutil.TokenFor(t, f.Alice)

	w := testutil.DoRequest(t, f.Router, http.MethodPost, "/api/users", token, map[string]string{
		"github_username": "carol",
		"display_name":    "Carol",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	testutil.DecodeJSON(t, w, &user)
	assert.NotZero(t, user.ID, "Expected a non-zero User ID")
	assert.Equal(t, "carol", user.GitHubUsername)
	assert.Equal(t, "Carol", user.DisplayName)
}

func TestCreateUser_InvalidInput(t *testing.T) {
	f := testutil.SetupTestDB(t)
	token := testutil.TokenFor(t, f.Alice)

	for _, payload := range []map[string]string{
		{"github_username": "dave"},
		{"display_name": "Dave"},
		{"github_username": "  ", "display_name": "Dave"},
	} {
		w := testutil.DoRequest(t, f.Router, http.MethodPost, "/api/users", token, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %v", payload)
	}
}

func TestCreateUser_DuplicateGitHubUsername(t *testing.T) {
	f := testutil.SetupTestDB(t)
	token := testutil.TokenFor(t, f.Alice)

	w := testutil.DoRequest(t, f.Router, http.MethodPost, "/api/users", token, map[string]string{
		"github_username": "alice",
		"display_name":    "Another Alice",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	testutil.DecodeJSON(t, w, &resp)
	assert.Contains(t, resp["error"], "GitHub username already exists")
}

func TestUpdateUser(t *testing.T) {
	f := testutil.SetupTestDB(t)
	token := testutil.TokenFor(t, f.Alice)

	w := testutil.DoRequest(t, f.Router, http.MethodPut, fmt.Sprintf("/api/users/%d", f.Bob.ID), token, map[string]string{"display_name": "Robert"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var user models.User
	testutil.DecodeJSON(t, w, &user)
	assert.Equal(t, "Robert", user.DisplayName)
	assert.Equal(t, "bob", user.GitHubUsername, "GitHub username must not change")

	w = testutil.DoRequest(t, f.Router, http.MethodPut, "/api/users/999", token, map[string]string{"display_name": "Nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUser_ClearsAssignee(t *testing.T) {
	f := testutil.SetupTestDB(t)
	token := testutil.TokenFor(t, f.Alice)
	task := testutil.CreateTestTask(t, f.Router, token, map[string]any{"name": "Assigned", "assignee_id": f.Bob.ID})

	w := testutil.DoRequest(t, f.Router, http.MethodDelete, fmt.Sprintf("/api/users/%d", f.Bob.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	reloaded, err := f.TaskRepo.FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.AssigneeID)
	assert.Nil(t, reloaded.AssigneeName)

	w = testutil.DoRequest(t, f.Router, http.MethodDelete, fmt.Sprintf("/api/users/%d", f.Bob.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
