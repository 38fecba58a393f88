package group

import (
	"context"

	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/dto"
	groupModel "dadaocheng/exploration/internal/model/group"
	"dadaocheng/exploration/packages/response"
)

var ErrGroupNotFound = response.NewBusinessError(
	response.WithErrorCode(response.NotFound),
	response.WithErrorMessage("Group not found"),
)

type GroupService struct {
	repo *GroupRepository
}

func NewGroupService(store *database.Store) *GroupService {
	return &GroupService{repo: NewGroupRepository(store)}
}

func (s *GroupService) List(ctx context.Context, page dto.Page) ([]GroupView, *response.Pagination, error) {
	groups, total, err := s.repo.ListActive(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, nil, err
	}
	if groups == nil {
		groups = []GroupView{}
	}
	return groups, page.Result(total), nil
}

// Available 可投稿的组别，带双语名称
func (s *GroupService) Available(ctx context.Context, page dto.Page) ([]AvailableGroup, *response.Pagination, error) {
	groups, total, err := s.repo.ListAvailable(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, nil, err
	}
	options := make([]AvailableGroup, 0, len(groups))
	for _, g := range groups {
		options = append(options, AvailableGroup{
			Value: g.GroupNumber,
			Label: Label{
				Zh: groupModel.DisplayName(g.GroupNumber),
				En: groupModel.EnglishName(g.GroupNumber),
			},
		})
	}
	return options, page.Result(total), nil
}

func (s *GroupService) Get(ctx context.Context, number int) (*GroupDetail, error) {
	detail, err := s.repo.FindDetail(ctx, number)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrGroupNotFound
	}
	return detail, nil
}
