package file

import (
	"fmt"
	"time"

	fileModel "dadaocheng/exploration/internal/model/file"
)

// FileView 对外的文件信息，不包含存储路径与存储名
type FileView struct {
	ID               uint      `json:"id"`
	SubmissionID     uint      `json:"submission_id"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	FileType         string    `json:"file_type"`
	UploadedAt       time.Time `json:"uploaded_at"`
	DownloadURL      string    `json:"download_url"`
}

// FileInfo 单个文件详情
type FileInfo struct {
	FileView
	SubmissionStatus string `json:"submission_status"`
	SubmissionTitle  string `json:"submission_title"`
	GroupNumber      int    `json:"group_number"`
}

// DownloadURL 文件下载地址
func DownloadURL(id uint) string {
	return fmt.Sprintf("/api/files/%d/download", id)
}

// ToView 去掉内部存储字段
func ToView(f *fileModel.File) FileView {
	return FileView{
		ID:               f.ID,
		SubmissionID:     f.SubmissionID,
		OriginalFilename: f.OriginalFilename,
		FileSize:         f.FileSize,
		MimeType:         f.MimeType,
		FileType:         f.FileType,
		UploadedAt:       f.UploadedAt,
		DownloadURL:      DownloadURL(f.ID),
	}
}

// ToViews 批量转换
func ToViews(files []fileModel.File) []FileView {
	views := make([]FileView, 0, len(files))
	for i := range files {
		views = append(views, ToView(&files[i]))
	}
	return views
}

// fileWithSubmission 文件及其所属投稿的状态
type fileWithSubmission struct {
	fileModel.File
	SubmissionStatus string
	SubmissionTitle  string
	GroupNumber      int
}
