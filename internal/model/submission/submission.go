package submission

import (
	"time"

	"dadaocheng/exploration/internal/model/file"
	"dadaocheng/exploration/internal/model/group"
	"dadaocheng/exploration/internal/model/task"

	"gorm.io/datatypes"
)

// 审核状态，三者之间可任意切换
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission 成果投稿表
// 每个组别最多一条，由 idx_submissions_group_id 唯一索引保证
type Submission struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	GroupID     uint              `gorm:"not null;uniqueIndex:idx_submissions_group_id" json:"group_id"`
	TaskID      uint              `gorm:"not null;index:idx_submissions_task_id" json:"task_id"`
	Title       string            `gorm:"type:varchar(255);not null" json:"title"`
	Description string            `gorm:"type:text;not null" json:"description"`
	YoutubeLink *string           `gorm:"type:varchar(500)" json:"youtube_link"`
	Status      string            `gorm:"type:varchar(50);not null;default:'pending';index:idx_submissions_status;check:chk_submissions_status,status IN ('pending','approved','rejected')" json:"status"`
	SubmittedAt time.Time         `gorm:"not null;autoCreateTime" json:"submitted_at"`
	ApprovedAt  *time.Time        `json:"approved_at"`
	ApprovedBy  *string           `gorm:"type:varchar(255)" json:"approved_by"`
	ExtraData   datatypes.JSONMap `gorm:"type:jsonb" json:"extra_data,omitempty"`

	// 关联（仅用于查询）
	Group *group.Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"group,omitempty"`
	Task  *task.Task   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"task,omitempty"`
	Files []file.File  `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"files,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// IsValidStatus 是否为合法状态
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsPublic 文件可被下载的状态
func IsPublic(status string) bool {
	return status == StatusPending || status == StatusApproved
}
