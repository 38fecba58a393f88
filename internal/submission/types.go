package submission

import (
	"time"

	fileSvc "dadaocheng/exploration/internal/file"
)

// CreateRequest 投稿表单中的文本字段
// 组别范围由配置决定，单独校验
type CreateRequest struct {
	GroupNumber int
	Task        string `form:"task" binding:"required,oneof=task1 task2 task3 task4 task5"`
	Description string `form:"description" binding:"required,min=50,max=2000"`
	YoutubeLink string `form:"youtubeLink" binding:"omitempty,url"`
}

// CreateResult 投稿成功响应
type CreateResult struct {
	SubmissionID uint   `json:"submissionId"`
	GroupNumber  int    `json:"groupNumber"`
	Task         string `json:"task"`
	FileCount    int    `json:"fileCount"`
}

// SubmissionView 投稿列表/详情
type SubmissionView struct {
	ID          uint               `json:"id"`
	GroupID     uint               `json:"group_id"`
	TaskID      uint               `json:"task_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	YoutubeLink *string            `json:"youtube_link"`
	Status      string             `json:"status"`
	SubmittedAt time.Time          `json:"submitted_at"`
	ApprovedAt  *time.Time         `json:"approved_at"`
	ApprovedBy  *string            `json:"approved_by"`
	ExtraData   map[string]any     `json:"extra_data,omitempty"`
	GroupNumber int                `json:"group_number"`
	GroupName   string             `json:"group_name"`
	TaskKey     string             `json:"task_key"`
	TaskTitleZh string             `json:"task_title_zh"`
	TaskTitleEn string             `json:"task_title_en"`
	FileCount   int                `json:"file_count"`
	Files       []fileSvc.FileView `json:"files"`
}

// Overview 投稿总览
type Overview struct {
	TotalSubmissions    int64 `json:"total_submissions"`
	ApprovedSubmissions int64 `json:"approved_submissions"`
	PendingSubmissions  int64 `json:"pending_submissions"`
	ParticipatingGroups int64 `json:"participating_groups"`
	AvailableGroups     int64 `json:"available_groups"`
}

// TaskCount 每个任务的投稿数
type TaskCount struct {
	TaskKey         string `json:"task_key"`
	TitleZh         string `json:"title_zh"`
	SubmissionCount int64  `json:"submission_count"`
}

// Statistics 公开统计
type Statistics struct {
	Overview      Overview    `json:"overview"`
	TaskBreakdown []TaskCount `json:"taskBreakdown"`
}
