package group

import (
	"context"

	"dadaocheng/exploration/internal/database"
	groupModel "dadaocheng/exploration/internal/model/group"
)

type GroupRepository struct {
	store *database.Store
}

func NewGroupRepository(store *database.Store) *GroupRepository {
	return &GroupRepository{store: store}
}

// ListActive 启用中的组别，按编号排序
func (r *GroupRepository) ListActive(ctx context.Context, offset, limit int) ([]GroupView, int64, error) {
	var total int64
	if err := r.store.Query(ctx, &total, `SELECT COUNT(*) FROM groups WHERE is_active = true`); err != nil {
		return nil, 0, err
	}

	var rows []GroupView
	err := r.store.Query(ctx, &rows, `
		SELECT g.*, (s.id IS NOT NULL) AS has_submitted
		FROM groups g
		LEFT JOIN submissions s ON g.id = s.group_id
		WHERE g.is_active = true
		ORDER BY g.group_number
		LIMIT ? OFFSET ?
	`, limit, offset)
	return rows, total, err
}

const availableWhere = `
	FROM groups g
	LEFT JOIN submissions s ON g.id = s.group_id
	WHERE g.is_active = true
	  AND s.group_id IS NULL
	  AND g.group_number <> 1
`

// ListAvailable 尚未投稿的组别，第 1 组不开放
func (r *GroupRepository) ListAvailable(ctx context.Context, offset, limit int) ([]groupModel.Group, int64, error) {
	var total int64
	if err := r.store.Query(ctx, &total, `SELECT COUNT(*)`+availableWhere); err != nil {
		return nil, 0, err
	}

	var rows []groupModel.Group
	err := r.store.Query(ctx, &rows, `SELECT g.*`+availableWhere+`
		ORDER BY g.group_number
		LIMIT ? OFFSET ?
	`, limit, offset)
	return rows, total, err
}

// FindDetail 不存在或已停用时返回 nil
func (r *GroupRepository) FindDetail(ctx context.Context, number int) (*GroupDetail, error) {
	var rows []GroupDetail
	err := r.store.Query(ctx, &rows, `
		SELECT
			g.*,
			s.id AS submission_id,
			s.title AS submission_title,
			s.description AS submission_description,
			s.youtube_link,
			s.status AS submission_status,
			s.submitted_at,
			t.task_key,
			t.title_zh AS task_title_zh,
			t.title_en AS task_title_en
		FROM groups g
		LEFT JOIN submissions s ON g.id = s.group_id
		LEFT JOIN tasks t ON s.task_id = t.id
		WHERE g.group_number = ? AND g.is_active = true
	`, number)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}
