package submission

import (
	"context"
	"fmt"
	"strings"

	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/dto"
	fileSvc "dadaocheng/exploration/internal/file"
	fileModel "dadaocheng/exploration/internal/model/file"
	submissionModel "dadaocheng/exploration/internal/model/submission"
	"dadaocheng/exploration/internal/notify"
	"dadaocheng/exploration/internal/storage"
	"dadaocheng/exploration/packages/response"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidGroup = response.NewBusinessError(
		response.WithErrorCode(response.InvalidGroup),
		response.WithErrorMessage("Invalid or inactive group number"),
	)
	ErrDuplicateSubmission = response.NewBusinessError(
		response.WithErrorCode(response.DuplicateSubmission),
		response.WithErrorMessage("This group has already submitted their work"),
	)
	ErrInvalidTask = response.NewBusinessError(
		response.WithErrorCode(response.InvalidTask),
		response.WithErrorMessage("Invalid task selection"),
	)
	ErrSubmissionNotFound = response.NewBusinessError(
		response.WithErrorCode(response.NotFound),
		response.WithErrorMessage("Submission not found"),
	)
)

type SubmissionService struct {
	store    *database.Store
	repo     *SubmissionRepository
	storage  *storage.Storage
	notifier notify.Notifier
	log      *zap.Logger
}

func NewSubmissionService(store *database.Store, st *storage.Storage, notifier notify.Notifier, log *zap.Logger) *SubmissionService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SubmissionService{
		store:    store,
		repo:     NewSubmissionRepository(store),
		storage:  st,
		notifier: notifier,
		log:      log,
	}
}

// Title 投稿标题，如 第5組 - TASK2 成果
func Title(groupNumber int, taskKey string) string {
	return fmt.Sprintf("第%d組 - %s 成果", groupNumber, strings.ToUpper(taskKey))
}

// Create 在单个事务内写入投稿及其文件记录
// files 已由表单解析写入磁盘；返回错误时事务已回滚，磁盘上的文件（含缩放后的图片）均已删除
func (s *SubmissionService) Create(ctx context.Context, req *CreateRequest, files []*storage.StoredFile) (*CreateResult, error) {
	current := make([]*storage.StoredFile, len(files))
	copy(current, files)

	var created *submissionModel.Submission
	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		repo := &txRepository{tx: tx}

		g, err := repo.FindActiveGroup(req.GroupNumber)
		if err != nil {
			return err
		}
		if g == nil {
			return ErrInvalidGroup
		}

		exists, err := repo.HasSubmission(g.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateSubmission
		}

		t, err := repo.FindTask(req.Task)
		if err != nil {
			return err
		}
		if t == nil {
			return ErrInvalidTask
		}

		sub := &submissionModel.Submission{
			GroupID:     g.ID,
			TaskID:      t.ID,
			Title:       Title(req.GroupNumber, req.Task),
			Description: req.Description,
			Status:      submissionModel.StatusPending,
		}
		if req.YoutubeLink != "" {
			link := req.YoutubeLink
			sub.YoutubeLink = &link
		}
		if err := repo.CreateSubmission(sub); err != nil {
			if database.IsUniqueViolation(err, uniqueGroupIndex) {
				return ErrDuplicateSubmission.Wrap(err)
			}
			return err
		}

		for i, sf := range current {
			if sf.Category == fileModel.CategoryImage {
				current[i] = s.processImage(sf)
			}
			final := current[i]
			row := &fileModel.File{
				SubmissionID:     sub.ID,
				OriginalFilename: final.OriginalName,
				StoredFilename:   final.StoredName,
				FilePath:         final.RelativePath,
				FileSize:         final.Size,
				MimeType:         final.MimeType,
				FileType:         final.Category,
			}
			if err := repo.CreateFile(row); err != nil {
				return err
			}
		}

		created = sub
		return nil
	})
	if err != nil {
		s.removeFiles(current)
		if database.IsUniqueViolation(err, uniqueGroupIndex) {
			err = ErrDuplicateSubmission.Wrap(err)
		}
		s.log.Warn("投稿失败，已回滚",
			zap.Int("group_number", req.GroupNumber),
			zap.String("task", req.Task),
			zap.Int("files", len(files)),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("投稿成功",
		zap.Uint("submission_id", created.ID),
		zap.Int("group_number", req.GroupNumber),
		zap.String("task", req.Task),
		zap.Int("files", len(current)),
	)

	s.notifier.SubmissionCreated(notify.SubmissionEvent{
		SubmissionID: created.ID,
		GroupNumber:  req.GroupNumber,
		TaskKey:      req.Task,
		Title:        created.Title,
		FileCount:    len(current),
	})

	return &CreateResult{
		SubmissionID: created.ID,
		GroupNumber:  req.GroupNumber,
		Task:         req.Task,
		FileCount:    len(current),
	}, nil
}

// processImage 缩放图片，失败时保留原文件
func (s *SubmissionService) processImage(sf *storage.StoredFile) *storage.StoredFile {
	processed, err := s.storage.Downsample(sf)
	if err != nil {
		s.log.Warn("图片处理失败，保留原文件",
			zap.String("file", sf.OriginalName),
			zap.Error(err),
		)
		return sf
	}
	return processed
}

func (s *SubmissionService) removeFiles(files []*storage.StoredFile) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.RelativePath)
	}
	s.storage.Remove(paths...)
}

// List 公开的投稿列表（approved 与 pending）
func (s *SubmissionService) List(ctx context.Context, page dto.Page) ([]SubmissionView, *response.Pagination, error) {
	subs, total, err := s.repo.ListPublic(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, nil, err
	}
	views := make([]SubmissionView, 0, len(subs))
	for i := range subs {
		views = append(views, ToView(&subs[i]))
	}
	return views, page.Result(total), nil
}

// Get 投稿详情
func (s *SubmissionService) Get(ctx context.Context, id uint) (*SubmissionView, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	view := ToView(sub)
	return &view, nil
}

// Statistics 总览与任务分布
func (s *SubmissionService) Statistics(ctx context.Context) (*Statistics, error) {
	overview, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.repo.TaskBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	if breakdown == nil {
		breakdown = []TaskCount{}
	}
	return &Statistics{Overview: *overview, TaskBreakdown: breakdown}, nil
}

// ToView 附带组别、任务信息并去掉文件的存储路径
func ToView(sub *submissionModel.Submission) SubmissionView {
	v := SubmissionView{
		ID:          sub.ID,
		GroupID:     sub.GroupID,
		TaskID:      sub.TaskID,
		Title:       sub.Title,
		Description: sub.Description,
		YoutubeLink: sub.YoutubeLink,
		Status:      sub.Status,
		SubmittedAt: sub.SubmittedAt,
		ApprovedAt:  sub.ApprovedAt,
		ApprovedBy:  sub.ApprovedBy,
		ExtraData:   sub.ExtraData,
		FileCount:   len(sub.Files),
		Files:       fileSvc.ToViews(sub.Files),
	}
	if sub.Group != nil {
		v.GroupNumber = sub.Group.GroupNumber
		v.GroupName = sub.Group.GroupName
	}
	if sub.Task != nil {
		v.TaskKey = sub.Task.TaskKey
		v.TaskTitleZh = sub.Task.TitleZh
		v.TaskTitleEn = sub.Task.TitleEn
	}
	return v
}
