package admin

import (
	"context"
	"time"

	"dadaocheng/exploration/internal/database"
	adminModel "dadaocheng/exploration/internal/model/admin"
	submissionModel "dadaocheng/exploration/internal/model/submission"

	"gorm.io/gorm"
)

// recentLimit 仪表板最近投稿条数
const recentLimit = 10

type AdminRepository struct {
	store *database.Store
}

func NewAdminRepository(store *database.Store) *AdminRepository {
	return &AdminRepository{store: store}
}

// FindActiveByID 不存在或已停用时返回 nil
func (r *AdminRepository) FindActiveByID(ctx context.Context, id uint) (*adminModel.Admin, error) {
	return r.findActive(ctx, "id = ?", id)
}

// FindActiveByUsername 不存在或已停用时返回 nil
func (r *AdminRepository) FindActiveByUsername(ctx context.Context, username string) (*adminModel.Admin, error) {
	return r.findActive(ctx, "username = ?", username)
}

func (r *AdminRepository) findActive(ctx context.Context, cond string, arg any) (*adminModel.Admin, error) {
	var admins []adminModel.Admin
	err := r.store.DB(ctx).Where(cond, arg).Where("is_active = ?", true).Limit(1).Find(&admins).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	if len(admins) == 0 {
		return nil, nil
	}
	return &admins[0], nil
}

// TouchLastLogin 更新最后登录时间
func (r *AdminRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	err := r.store.DB(ctx).Model(&adminModel.Admin{}).Where("id = ?", id).Update("last_login", at).Error
	return database.Classify(err)
}

// ListSubmissions status 为空时返回全部状态
func (r *AdminRepository) ListSubmissions(ctx context.Context, status string, offset, limit int) ([]AdminSubmission, int64, error) {
	where, args := "", []any{}
	if status != "" {
		where, args = "WHERE s.status = ?", []any{status}
	}

	var total int64
	if err := r.store.Query(ctx, &total, "SELECT COUNT(*) FROM submissions s "+where, args...); err != nil {
		return nil, 0, err
	}

	var rows []AdminSubmission
	err := r.store.Query(ctx, &rows, `
		SELECT
			s.*,
			g.group_number,
			g.group_name,
			t.task_key,
			t.title_zh AS task_title_zh,
			t.title_en AS task_title_en,
			COUNT(f.id) AS file_count
		FROM submissions s
		LEFT JOIN groups g ON s.group_id = g.id
		LEFT JOIN tasks t ON s.task_id = t.id
		LEFT JOIN files f ON s.id = f.submission_id
		`+where+`
		GROUP BY s.id, g.group_number, g.group_name, t.task_key, t.title_zh, t.title_en
		ORDER BY s.submitted_at DESC, s.id DESC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	return rows, total, err
}

// UpdateStatus 修改审核状态并返回更新后的投稿，投稿不存在时返回 nil
// 只有 approved 会写入 approved_at/approved_by；reason 非空时合并到 extra_data
func (r *AdminRepository) UpdateStatus(ctx context.Context, id uint, status, by string, reason *string) (*submissionModel.Submission, error) {
	var updated *submissionModel.Submission
	err := r.store.WithTx(ctx, func(tx *gorm.DB) error {
		updates := map[string]any{"status": status}
		if status == submissionModel.StatusApproved {
			updates["approved_at"] = gorm.Expr("CURRENT_TIMESTAMP")
			updates["approved_by"] = by
		}
		if reason != nil && *reason != "" {
			updates["extra_data"] = gorm.Expr(
				"COALESCE(extra_data, '{}'::jsonb) || jsonb_build_object('admin_reason', ?::text)", *reason)
		}

		res := tx.Model(&submissionModel.Submission{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var sub submissionModel.Submission
		if err := tx.First(&sub, id).Error; err != nil {
			return err
		}
		updated = &sub
		return nil
	})
	return updated, err
}

func (r *AdminRepository) Overview(ctx context.Context) (*DashboardOverview, error) {
	var o DashboardOverview
	err := r.store.Query(ctx, &o, `
		SELECT
			COUNT(*) AS total_submissions,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_count,
			COUNT(*) FILTER (WHERE status = 'approved') AS approved_count,
			COUNT(*) FILTER (WHERE status = 'rejected') AS rejected_count,
			COUNT(DISTINCT group_id) AS participating_groups
		FROM submissions
	`)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *AdminRepository) TaskStats(ctx context.Context) ([]TaskStat, error) {
	var rows []TaskStat
	err := r.store.Query(ctx, &rows, `
		SELECT
			t.task_key,
			t.title_zh,
			COUNT(s.id) AS submission_count,
			COUNT(s.id) FILTER (WHERE s.status = 'approved') AS approved_count
		FROM tasks t
		LEFT JOIN submissions s ON t.id = s.task_id
		GROUP BY t.id, t.task_key, t.title_zh
		ORDER BY t.task_key
	`)
	return rows, err
}

func (r *AdminRepository) FileStats(ctx context.Context) ([]FileStat, error) {
	var rows []FileStat
	err := r.store.Query(ctx, &rows, `
		SELECT f.file_type, COUNT(*) AS file_count, COALESCE(SUM(f.file_size), 0) AS total_size
		FROM files f
		JOIN submissions s ON f.submission_id = s.id
		GROUP BY f.file_type
		ORDER BY f.file_type
	`)
	return rows, err
}

func (r *AdminRepository) RecentSubmissions(ctx context.Context) ([]RecentSubmission, error) {
	var rows []RecentSubmission
	err := r.store.Query(ctx, &rows, `
		SELECT s.id, s.title, s.submitted_at, s.status, g.group_number, t.task_key
		FROM submissions s
		LEFT JOIN groups g ON s.group_id = g.id
		LEFT JOIN tasks t ON s.task_id = t.id
		ORDER BY s.submitted_at DESC, s.id DESC
		LIMIT ?
	`, recentLimit)
	return rows, err
}

// ExistsByUsernameOrEmail 用户名或邮箱是否已被占用
func (r *AdminRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.store.DB(ctx).Model(&adminModel.Admin{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, database.Classify(err)
}

func (r *AdminRepository) Create(ctx context.Context, a *adminModel.Admin) error {
	return database.Classify(r.store.DB(ctx).Create(a).Error)
}
