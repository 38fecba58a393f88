package submission

import (
	"errors"
	"net/http"

	"dadaocheng/exploration/internal/dto"
	"dadaocheng/exploration/packages/response"

	"github.com/gin-gonic/gin"
)

var errInvalidID = response.NewBusinessError(
	response.WithErrorCode(response.ParseError),
	response.WithErrorMessage("Invalid ID"),
)

type SubmissionHandler struct {
	submissionService *SubmissionService
	parser            *FormParser
}

func NewSubmissionHandler(submissionService *SubmissionService, parser *FormParser) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		parser:            parser,
	}
}

// Create 提交成果
// @Summary 提交成果
// @Description 每个组别只能提交一次，最多 10 个文件，图片会缩放到 1920x1080 以内
// @Tags 投稿
// @Accept multipart/form-data
// @Produce json
// @Param groupNumber formData int true "组别编号"
// @Param task formData string true "任务" Enums(task1, task2, task3, task4, task5)
// @Param description formData string true "成果说明（50-2000 字）"
// @Param youtubeLink formData string false "YouTube 链接"
// @Param files formData file false "附件"
// @Success 201 {object} response.Response{data=CreateResult}
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	form, err := h.parser.Parse(c.Writer, c.Request)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.submissionService.Create(c.Request.Context(), &form.Request, form.Files)
	if err != nil {
		writeError(c, err)
		return
	}

	dto.MessageResponse(c, http.StatusCreated, "Submission created successfully", result)
}

// List 获取所有成果
// @Summary 获取所有成果
// @Description 返回已通过与待审核的投稿，附带组别、任务与文件
// @Tags 投稿
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=[]SubmissionView}
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	views, p, err := h.submissionService.List(c.Request.Context(), dto.ParsePage(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.PaginatedResponse(c, views, p)
}

// Get 获取单个成果
// @Summary 获取单个成果
// @Tags 投稿
// @Produce json
// @Param id path int true "投稿ID"
// @Success 200 {object} response.Response{data=SubmissionView}
// @Failure 404 {object} response.Response
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		dto.ErrorResponse(c, errInvalidID)
		return
	}

	view, err := h.submissionService.Get(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, view)
}

// Statistics 投稿统计
// @Summary 投稿统计
// @Tags 投稿
// @Produce json
// @Success 200 {object} response.Response{data=Statistics}
// @Router /submissions/statistics [get]
func (h *SubmissionHandler) Statistics(c *gin.Context) {
	stats, err := h.submissionService.Statistics(c.Request.Context())
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, stats)
}

func writeError(c *gin.Context, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		dto.ValidationFailed(c, ve.Details)
		return
	}
	dto.ErrorResponse(c, err)
}
