package task

import (
	"context"

	"dadaocheng/exploration/internal/database"
)

type TaskRepository struct {
	store *database.Store
}

func NewTaskRepository(store *database.Store) *TaskRepository {
	return &TaskRepository{store: store}
}

const taskWithCount = `
	SELECT t.*, COUNT(s.id) AS submission_count
	FROM tasks t
	LEFT JOIN submissions s ON t.id = s.task_id
`

// ListActive 启用中的任务，按 task_key 排序
func (r *TaskRepository) ListActive(ctx context.Context, offset, limit int) ([]TaskView, int64, error) {
	var total int64
	if err := r.store.Query(ctx, &total, `SELECT COUNT(*) FROM tasks WHERE is_active = true`); err != nil {
		return nil, 0, err
	}

	var rows []TaskView
	err := r.store.Query(ctx, &rows, taskWithCount+`
		WHERE t.is_active = true
		GROUP BY t.id
		ORDER BY t.task_key
		LIMIT ? OFFSET ?
	`, limit, offset)
	return rows, total, err
}

// FindActive 不存在或已停用时返回 nil
func (r *TaskRepository) FindActive(ctx context.Context, key string) (*TaskView, error) {
	var rows []TaskView
	err := r.store.Query(ctx, &rows, taskWithCount+`
		WHERE t.task_key = ? AND t.is_active = true
		GROUP BY t.id
	`, key)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// ListSubmissions 任务下的投稿，最新在前
func (r *TaskRepository) ListSubmissions(ctx context.Context, taskID uint) ([]TaskSubmission, error) {
	var rows []TaskSubmission
	err := r.store.Query(ctx, &rows, `
		SELECT g.group_number, s.id AS submission_id, s.title, s.submitted_at, s.status
		FROM submissions s
		JOIN groups g ON s.group_id = g.id
		WHERE s.task_id = ?
		ORDER BY s.submitted_at DESC, s.id DESC
	`, taskID)
	return rows, err
}
