package group

import "time"

// GroupView 组别及其投稿状态
type GroupView struct {
	ID           uint      `json:"id"`
	GroupNumber  int       `json:"group_number"`
	GroupName    string    `json:"group_name"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	HasSubmitted bool      `json:"has_submitted"`
}

// Label 双语显示名
type Label struct {
	Zh string `json:"zh"`
	En string `json:"en"`
}

// AvailableGroup 投稿表单的下拉选项
type AvailableGroup struct {
	Value int   `json:"value"`
	Label Label `json:"label"`
}

// GroupDetail 组别详情，未投稿时投稿相关字段为空
type GroupDetail struct {
	ID                    uint       `json:"id"`
	GroupNumber           int        `json:"group_number"`
	GroupName             string     `json:"group_name"`
	IsActive              bool       `json:"is_active"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	SubmissionID          *uint      `json:"submission_id"`
	SubmissionTitle       *string    `json:"submission_title"`
	SubmissionDescription *string    `json:"submission_description"`
	YoutubeLink           *string    `json:"youtube_link"`
	SubmissionStatus      *string    `json:"submission_status"`
	SubmittedAt           *time.Time `json:"submitted_at"`
	TaskKey               *string    `json:"task_key"`
	TaskTitleZh           *string    `json:"task_title_zh"`
	TaskTitleEn           *string    `json:"task_title_en"`
}
