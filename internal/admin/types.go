package admin

import (
	"time"

	"gorm.io/datatypes"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminUser 登录响应中的管理员信息
type AdminUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  AdminUser `json:"user"`
}

// UpdateStatusRequest 审核请求，Reason 非空时写入 extra_data.admin_reason
type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required,oneof=pending approved rejected"`
	Reason *string `json:"reason" binding:"omitempty,max=500"`
}

// AdminSubmission 管理端投稿列表项
type AdminSubmission struct {
	ID          uint              `json:"id"`
	GroupID     uint              `json:"group_id"`
	TaskID      uint              `json:"task_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	YoutubeLink *string           `json:"youtube_link"`
	Status      string            `json:"status"`
	SubmittedAt time.Time         `json:"submitted_at"`
	ApprovedAt  *time.Time        `json:"approved_at"`
	ApprovedBy  *string           `json:"approved_by"`
	ExtraData   datatypes.JSONMap `json:"extra_data,omitempty"`
	GroupNumber int               `json:"group_number"`
	GroupName   string            `json:"group_name"`
	TaskKey     string            `json:"task_key"`
	TaskTitleZh string            `json:"task_title_zh"`
	TaskTitleEn string            `json:"task_title_en"`
	FileCount   int64             `json:"file_count"`
}

type DashboardOverview struct {
	TotalSubmissions    int64 `json:"total_submissions"`
	PendingCount        int64 `json:"pending_count"`
	ApprovedCount       int64 `json:"approved_count"`
	RejectedCount       int64 `json:"rejected_count"`
	ParticipatingGroups int64 `json:"participating_groups"`
}

type TaskStat struct {
	TaskKey         string `json:"task_key"`
	TitleZh         string `json:"title_zh"`
	SubmissionCount int64  `json:"submission_count"`
	ApprovedCount   int64  `json:"approved_count"`
}

// FileStat 按分类统计的文件数量与总字节数
type FileStat struct {
	FileType  string `json:"file_type"`
	FileCount int64  `json:"file_count"`
	TotalSize int64  `json:"total_size"`
}

type RecentSubmission struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	SubmittedAt time.Time `json:"submitted_at"`
	Status      string    `json:"status"`
	GroupNumber int       `json:"group_number"`
	TaskKey     string    `json:"task_key"`
}

type Dashboard struct {
	Overview          DashboardOverview  `json:"overview"`
	TaskBreakdown     []TaskStat         `json:"taskBreakdown"`
	FileStats         []FileStat         `json:"fileStats"`
	RecentSubmissions []RecentSubmission `json:"recentSubmissions"`
}
