package task

import "time"

// TaskView 任务及投稿数量
type TaskView struct {
	ID              uint      `json:"id"`
	TaskKey         string    `json:"task_key"`
	TitleZh         string    `json:"title_zh"`
	TitleEn         string    `json:"title_en"`
	DescriptionZh   string    `json:"description_zh"`
	DescriptionEn   string    `json:"description_en"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	SubmissionCount int64     `json:"submission_count"`
}

// TaskSubmission 任务详情中的投稿摘要
type TaskSubmission struct {
	GroupNumber  int       `json:"group_number"`
	SubmissionID uint      `json:"submission_id"`
	Title        string    `json:"title"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Status       string    `json:"status"`
}

// TaskDetail 任务详情
type TaskDetail struct {
	TaskView
	Submissions []TaskSubmission `json:"submissions"`
}
