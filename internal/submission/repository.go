package submission

import (
	"context"

	"dadaocheng/exploration/internal/database"
	fileModel "dadaocheng/exploration/internal/model/file"
	groupModel "dadaocheng/exploration/internal/model/group"
	submissionModel "dadaocheng/exploration/internal/model/submission"
	taskModel "dadaocheng/exploration/internal/model/task"

	"gorm.io/gorm"
)

// uniqueGroupIndex 每组一条投稿的唯一索引
const uniqueGroupIndex = "idx_submissions_group_id"

// txRepository 投稿事务内的写操作
type txRepository struct {
	tx *gorm.DB
}

// FindActiveGroup 按编号查找启用中的组别，不存在时返回 nil
func (r *txRepository) FindActiveGroup(number int) (*groupModel.Group, error) {
	var groups []groupModel.Group
	err := r.tx.Where("group_number = ? AND is_active = ?", number, true).Limit(1).Find(&groups).Error
	if err != nil || len(groups) == 0 {
		return nil, err
	}
	return &groups[0], nil
}

// HasSubmission 组别是否已投稿
func (r *txRepository) HasSubmission(groupID uint) (bool, error) {
	var count int64
	err := r.tx.Model(&submissionModel.Submission{}).Where("group_id = ?", groupID).Count(&count).Error
	return count > 0, err
}

// FindTask 按键查找任务，不存在时返回 nil
func (r *txRepository) FindTask(key string) (*taskModel.Task, error) {
	var tasks []taskModel.Task
	err := r.tx.Where("task_key = ?", key).Limit(1).Find(&tasks).Error
	if err != nil || len(tasks) == 0 {
		return nil, err
	}
	return &tasks[0], nil
}

func (r *txRepository) CreateSubmission(s *submissionModel.Submission) error {
	return r.tx.Omit("Group", "Task", "Files").Create(s).Error
}

func (r *txRepository) CreateFile(f *fileModel.File) error {
	return r.tx.Create(f).Error
}

// SubmissionRepository 投稿读操作
type SubmissionRepository struct {
	store *database.Store
}

func NewSubmissionRepository(store *database.Store) *SubmissionRepository {
	return &SubmissionRepository{store: store}
}

// preloaded 带组别、任务、文件的查询
func (r *SubmissionRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.store.DB(ctx).
		Preload("Group").
		Preload("Task").
		Preload("Files", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC, id ASC")
		})
}

// ListPublic approved 与 pending 投稿，按提交时间倒序
func (r *SubmissionRepository) ListPublic(ctx context.Context, offset, limit int) ([]submissionModel.Submission, int64, error) {
	statuses := []string{submissionModel.StatusApproved, submissionModel.StatusPending}

	var total int64
	err := r.store.DB(ctx).Model(&submissionModel.Submission{}).
		Where("status IN ?", statuses).Count(&total).Error
	if err != nil {
		return nil, 0, database.Classify(err)
	}

	var subs []submissionModel.Submission
	err = r.preloaded(ctx).
		Where("status IN ?", statuses).
		Order("submitted_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&subs).Error
	return subs, total, database.Classify(err)
}

// FindByID 不存在时返回 nil
func (r *SubmissionRepository) FindByID(ctx context.Context, id uint) (*submissionModel.Submission, error) {
	var subs []submissionModel.Submission
	err := r.preloaded(ctx).Where("id = ?", id).Limit(1).Find(&subs).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	if len(subs) == 0 {
		return nil, nil
	}
	return &subs[0], nil
}

// Overview 总览统计
func (r *SubmissionRepository) Overview(ctx context.Context) (*Overview, error) {
	var o Overview
	err := r.store.Query(ctx, &o, `
		SELECT
			COUNT(*) AS total_submissions,
			COUNT(*) FILTER (WHERE status = 'approved') AS approved_submissions,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_submissions,
			COUNT(DISTINCT group_id) AS participating_groups
		FROM submissions
	`)
	if err != nil {
		return nil, err
	}

	err = r.store.Query(ctx, &o.AvailableGroups, `
		SELECT COUNT(*)
		FROM groups g
		WHERE g.is_active = true
		  AND g.group_number <> 1
		  AND NOT EXISTS (SELECT 1 FROM submissions s WHERE s.group_id = g.id)
	`)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// TaskBreakdown 每个任务的投稿数
func (r *SubmissionRepository) TaskBreakdown(ctx context.Context) ([]TaskCount, error) {
	var rows []TaskCount
	err := r.store.Query(ctx, &rows, `
		SELECT t.task_key, t.title_zh, COUNT(s.id) AS submission_count
		FROM tasks t
		LEFT JOIN submissions s ON t.id = s.task_id
		GROUP BY t.id, t.task_key, t.title_zh
		ORDER BY t.task_key
	`)
	return rows, err
}
