package file

import (
	"context"
	"errors"
	"os"
	"time"

	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/dto"
	"dadaocheng/exploration/internal/model/submission"
	"dadaocheng/exploration/internal/storage"
	"dadaocheng/exploration/packages/response"

	"go.uber.org/zap"
)

var (
	ErrFileNotFound = response.NewBusinessError(
		response.WithErrorCode(response.NotFound),
		response.WithErrorMessage("File not found"),
	)
	ErrAccessDenied = response.NewBusinessError(
		response.WithErrorCode(response.AccessDenied),
		response.WithErrorMessage("File access denied"),
	)
	ErrSubmissionNotFound = response.NewBusinessError(
		response.WithErrorCode(response.NotFound),
		response.WithErrorMessage("Submission not found"),
	)
)

// Download 可供下载的文件，调用方负责关闭 Content
type Download struct {
	View    FileView
	Content *os.File
	ModTime time.Time
}

type FileService struct {
	repo    *FileRepository
	storage *storage.Storage
	log     *zap.Logger
}

func NewFileService(store *database.Store, st *storage.Storage, log *zap.Logger) *FileService {
	return &FileService{
		repo:    NewFileRepository(store),
		storage: st,
		log:     log,
	}
}

// Retrieve 打开文件供下载
// 只有 pending/approved 投稿的文件可下载；数据库记录缺失与磁盘文件缺失对外都是 404，日志中区分
func (s *FileService) Retrieve(ctx context.Context, id uint) (*Download, error) {
	row, err := s.repo.FindWithSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		s.log.Info("文件记录不存在", zap.Uint("file_id", id))
		return nil, ErrFileNotFound
	}

	if !submission.IsPublic(row.SubmissionStatus) {
		return nil, ErrAccessDenied
	}

	f, info, err := s.storage.Open(row.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("磁盘文件缺失",
				zap.Uint("file_id", id),
				zap.String("path", row.FilePath),
				zap.Error(err),
			)
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	return &Download{
		View:    ToView(&row.File),
		Content: f,
		ModTime: info.ModTime(),
	}, nil
}

// Info 文件详情
func (s *FileService) Info(ctx context.Context, id uint) (*FileInfo, error) {
	row, err := s.repo.FindWithSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrFileNotFound
	}
	return &FileInfo{
		FileView:         ToView(&row.File),
		SubmissionStatus: row.SubmissionStatus,
		SubmissionTitle:  row.SubmissionTitle,
		GroupNumber:      row.GroupNumber,
	}, nil
}

// ListForSubmission 投稿的文件列表
func (s *FileService) ListForSubmission(ctx context.Context, submissionID uint, page dto.Page) ([]FileView, *response.Pagination, error) {
	exists, err := s.repo.SubmissionExists(ctx, submissionID)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, ErrSubmissionNotFound
	}

	files, total, err := s.repo.ListBySubmission(ctx, submissionID, page.Offset(), page.Limit)
	if err != nil {
		return nil, nil, err
	}
	return ToViews(files), page.Result(total), nil
}
