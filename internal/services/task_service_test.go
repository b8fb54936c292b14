package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/repositories"
	"go-task-tracker/backend/internal/services"
	"go-task-tracker/backend/testutil"
)

func newTaskService(t *testing.T) (*services.TaskService, *testutil.Fixture) {
	f := testutil.SetupTestDB(t)
	return services.NewTaskService(f.TaskRepo, f.UserRepo), f
}

func TestTaskService_CreateNormalizesZeroReferences(t *testing.T) {
	s, _ := newTaskService(t)
	zero := 0

	task, err := s.CreateTask(context.Background(), models.TaskCreateRequest{
		Name:         "  Trimmed  ",
		AssigneeID:   &zero,
		ParentTaskID: &zero,
	})
	require.NoError(t, err)
	assert.Equal(t, "Trimmed", task.Name)
	assert.Nil(t, task.AssigneeID, "assignee 0 means unassigned")
	assert.Nil(t, task.ParentTaskID, "parent 0 means top-level")
}

func TestTaskService_UpdateRejectsEmptyPatch(t *testing.T) {
	s, _ := newTaskService(t)
	ctx := context.Background()
	task, err := s.CreateTask(ctx, models.TaskCreateRequest{Name: "Task"})
	require.NoError(t, err)

	_, err = s.UpdateTask(ctx, task.ID, models.TaskUpdateRequest{})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)

	after, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, after)
}

func TestTaskService_UpdateUnknownTask(t *testing.T) {
	s, _ := newTaskService(t)

	_, err := s.UpdateTask(context.Background(), 404, models.TaskUpdateRequest{Progress: models.Some(10)})
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
}

func TestTaskService_UpdateWritesOnlyPresentFields(t *testing.T) {
	s, f := newTaskService(t)
	ctx := context.Background()
	desc := "keep me"
	task, err := s.CreateTask(ctx, models.TaskCreateRequest{Name: "Task", Description: &desc, AssigneeID: &f.Alice.ID})
	require.NoError(t, err)

	updated, err := s.UpdateTask(ctx, task.ID, models.TaskUpdateRequest{
		Priority: models.Some(5),
		Status:   models.Some(models.TaskStatusCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Priority)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)
	assert.Equal(t, "keep me", *updated.Description)
	assert.Equal(t, f.Alice.ID, *updated.AssigneeID)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
}

func TestTaskService_DeleteUnknownTask(t *testing.T) {
	s, _ := newTaskService(t)

	err := s.DeleteTask(context.Background(), 404)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
}

func TestTaskService_ListRejectsUnknownStatus(t *testing.T) {
	s, _ := newTaskService(t)

	_, err := s.ListTasks(context.Background(), models.TaskStatus("archived"))
	var verr *services.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestMemoService_RejectsBlankContent(t *testing.T) {
	f := testutil.SetupTestDB(t)
	ctx := context.Background()
	task, err := services.NewTaskService(f.TaskRepo, f.UserRepo).CreateTask(ctx, models.TaskCreateRequest{Name: "Task"})
	require.NoError(t, err)
	s := services.NewMemoService(f.MemoRepo, f.TaskRepo, f.UserRepo)

	_, err = s.CreateMemo(ctx, task.ID, f.Alice.ID, " \t\n")
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)

	memos, err := s.ListMemos(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, memos)
}

func TestUserService_FindOrCreateByGitHub(t *testing.T) {
	f := testutil.SetupTestDB(t)
	s := services.NewUserService(f.UserRepo)
	ctx := context.Background()

	created, err := s.FindOrCreateByGitHub(ctx, "octocat", "The Octocat")
	require.NoError(t, err)
	assert.Equal(t, "The Octocat", created.DisplayName)

	found, err := s.FindOrCreateByGitHub(ctx, "octocat", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "The Octocat", found.DisplayName)
}
