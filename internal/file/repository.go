package file

import (
	"context"

	"dadaocheng/exploration/internal/database"
	fileModel "dadaocheng/exploration/internal/model/file"
)

type FileRepository struct {
	store *database.Store
}

func NewFileRepository(store *database.Store) *FileRepository {
	return &FileRepository{store: store}
}

// FindWithSubmission 查询文件及所属投稿状态，不存在时返回 nil
func (r *FileRepository) FindWithSubmission(ctx context.Context, id uint) (*fileWithSubmission, error) {
	var rows []fileWithSubmission
	err := r.store.Query(ctx, &rows, `
		SELECT f.*, s.status AS submission_status, s.title AS submission_title, g.group_number
		FROM files f
		JOIN submissions s ON f.submission_id = s.id
		JOIN groups g ON s.group_id = g.id
		WHERE f.id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListBySubmission 按上传时间排序的文件列表
func (r *FileRepository) ListBySubmission(ctx context.Context, submissionID uint, offset, limit int) ([]fileModel.File, int64, error) {
	db := r.store.DB(ctx).Model(&fileModel.File{}).Where("submission_id = ?", submissionID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, database.Classify(err)
	}

	var files []fileModel.File
	err := db.Order("uploaded_at ASC, id ASC").Offset(offset).Limit(limit).Find(&files).Error
	return files, total, database.Classify(err)
}

// SubmissionExists 投稿是否存在
func (r *FileRepository) SubmissionExists(ctx context.Context, submissionID uint) (bool, error) {
	var count int64
	err := r.store.DB(ctx).Table("submissions").Where("id = ?", submissionID).Count(&count).Error
	return count > 0, database.Classify(err)
}
