package task

import (
	"dadaocheng/exploration/internal/dto"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *TaskService
}

func NewTaskHandler(taskService *TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List 获取所有任务
// @Summary 获取所有任务
// @Tags 任务
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=[]TaskView}
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	tasks, p, err := h.taskService.List(c.Request.Context(), dto.ParsePage(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.PaginatedResponse(c, tasks, p)
}

// Get 获取任务详情
// @Summary 获取任务详情
// @Tags 任务
// @Produce json
// @Param taskKey path string true "任务键"
// @Success 200 {object} response.Response{data=TaskDetail}
// @Failure 404 {object} response.Response
// @Router /tasks/{taskKey} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	detail, err := h.taskService.Get(c.Request.Context(), c.Param("taskKey"))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, detail)
}
