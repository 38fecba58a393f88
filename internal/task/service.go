package task

import (
	"context"

	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/dto"
	"dadaocheng/exploration/packages/response"
)

var ErrTaskNotFound = response.NewBusinessError(
	response.WithErrorCode(response.NotFound),
	response.WithErrorMessage("Task not found"),
)

type TaskService struct {
	repo *TaskRepository
}

func NewTaskService(store *database.Store) *TaskService {
	return &TaskService{repo: NewTaskRepository(store)}
}

func (s *TaskService) List(ctx context.Context, page dto.Page) ([]TaskView, *response.Pagination, error) {
	tasks, total, err := s.repo.ListActive(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, nil, err
	}
	if tasks == nil {
		tasks = []TaskView{}
	}
	return tasks, page.Result(total), nil
}

// Get 任务详情及其投稿
func (s *TaskService) Get(ctx context.Context, key string) (*TaskDetail, error) {
	t, err := s.repo.FindActive(ctx, key)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}

	subs, err := s.repo.ListSubmissions(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []TaskSubmission{}
	}
	return &TaskDetail{TaskView: *t, Submissions: subs}, nil
}
