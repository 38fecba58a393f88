// Package file 投稿附件模型
package file

import (
	"strings"
	"time"
)

// 文件分类，由 MIME 前缀决定
const (
	CategoryImage    = "image"
	CategoryVideo    = "video"
	CategoryDocument = "document"
)

// File 附件元数据表（不存储文件内容）
// 文件在投稿事务中创建，之后不可变
type File struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	SubmissionID     uint   `gorm:"not null;index:idx_files_submission_id" json:"submission_id"`
	OriginalFilename string `gorm:"type:varchar(255);not null" json:"original_filename"`
	// 存储名与相对路径不对外暴露
	StoredFilename string    `gorm:"type:varchar(255);not null" json:"-"`
	FilePath       string    `gorm:"type:varchar(500);not null" json:"-"`
	FileSize       int64     `gorm:"not null" json:"file_size"`
	MimeType       string    `gorm:"type:varchar(100);not null" json:"mime_type"`
	FileType       string    `gorm:"type:varchar(50);not null;index:idx_files_file_type" json:"file_type"`
	UploadedAt     time.Time `gorm:"not null;autoCreateTime" json:"uploaded_at"`
}

func (File) TableName() string {
	return "files"
}

// CategoryOf 根据 MIME 类型判断分类
func CategoryOf(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return CategoryImage
	case strings.HasPrefix(mimeType, "video/"):
		return CategoryVideo
	default:
		return CategoryDocument
	}
}

// Dir 分类对应的存储子目录
func Dir(category string) string {
	switch category {
	case CategoryImage:
		return "images"
	case CategoryVideo:
		return "videos"
	default:
		return "documents"
	}
}
