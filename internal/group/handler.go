package group

import (
	"strconv"

	"dadaocheng/exploration/internal/dto"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groupService *GroupService
}

func NewGroupHandler(groupService *GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// List 获取所有组别
// @Summary 获取所有组别
// @Tags 组别
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=[]GroupView}
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	groups, p, err := h.groupService.List(c.Request.Context(), dto.ParsePage(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.PaginatedResponse(c, groups, p)
}

// Available 获取可投稿组别
// @Summary 获取可投稿组别
// @Description 未提交成果的组别，第 1 组除外
// @Tags 组别
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=[]AvailableGroup}
// @Router /groups/available [get]
func (h *GroupHandler) Available(c *gin.Context) {
	groups, p, err := h.groupService.Available(c.Request.Context(), dto.ParsePage(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.PaginatedResponse(c, groups, p)
}

// Get 获取组别详情
// @Summary 获取组别详情
// @Tags 组别
// @Produce json
// @Param groupNumber path int true "组别编号"
// @Success 200 {object} response.Response{data=GroupDetail}
// @Failure 404 {object} response.Response
// @Router /groups/{groupNumber} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("groupNumber"))
	if err != nil {
		dto.ErrorResponse(c, ErrGroupNotFound)
		return
	}

	detail, err := h.groupService.Get(c.Request.Context(), number)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, detail)
}
