package task

import (
	"context"
	"testing"
	"time"

	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/dto"
	submissionModel "dadaocheng/exploration/internal/model/submission"
	taskModel "dadaocheng/exploration/internal/model/task"
	"dadaocheng/exploration/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTaskService_Integration(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewTaskService(database.NewStore(db, zap.NewNop()))
	ctx := context.Background()

	require.NoError(t, db.Exec("DELETE FROM submissions").Error)

	tk := testutils.EnsureTask(db, "task3")
	g15 := testutils.EnsureGroup(db, 15)
	g16 := testutils.EnsureGroup(db, 16)
	older := testutils.CreateTestSubmission(db, g15, tk, testutils.WithSubmittedAt(time.Now().Add(-time.Hour)))
	newer := testutils.CreateTestSubmission(db, g16, tk, testutils.WithStatus(submissionModel.StatusRejected))

	t.Run("List", func(t *testing.T) {
		tasks, p, err := service.List(ctx, dto.Page{Page: 1, Limit: dto.DefaultPageSize})
		require.NoError(t, err)
		assert.Equal(t, int64(len(tasks)), p.Total)

		var task3 *TaskView
		for i := range tasks {
			if tasks[i].TaskKey == "task3" {
				task3 = &tasks[i]
			}
		}
		require.NotNil(t, task3)
		assert.Equal(t, int64(2), task3.SubmissionCount)
		assert.NotEmpty(t, task3.TitleZh)
	})

	t.Run("分页", func(t *testing.T) {
		all, _, err := service.List(ctx, dto.Page{Page: 1, Limit: dto.DefaultPageSize})
		require.NoError(t, err)
		require.NotEmpty(t, all)

		last, p, err := service.List(ctx, dto.Page{Page: len(all), Limit: 1})
		require.NoError(t, err)
		require.Len(t, last, 1)
		assert.Equal(t, all[len(all)-1].TaskKey, last[0].TaskKey)
		assert.Equal(t, len(all), p.Pages)

		beyond, _, err := service.List(ctx, dto.Page{Page: len(all) + 1, Limit: 1})
		require.NoError(t, err)
		assert.Empty(t, beyond)
	})

	t.Run("Get 按提交时间倒序", func(t *testing.T) {
		detail, err := service.Get(ctx, "task3")
		require.NoError(t, err)
		assert.Equal(t, int64(2), detail.SubmissionCount)
		require.Len(t, detail.Submissions, 2)
		assert.Equal(t, newer.ID, detail.Submissions[0].SubmissionID)
		assert.Equal(t, 16, detail.Submissions[0].GroupNumber)
		assert.Equal(t, older.ID, detail.Submissions[1].SubmissionID)
	})

	t.Run("停用或不存在", func(t *testing.T) {
		require.NoError(t, db.Model(&taskModel.Task{}).Where("task_key = ?", "task4").Update("is_active", false).Error)

		_, err := service.Get(ctx, "task4")
		assert.ErrorIs(t, err, ErrTaskNotFound)

		_, err = service.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}
