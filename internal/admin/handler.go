package admin

import (
	"fmt"
	"net/http"

	"dadaocheng/exploration/internal/dto"
	"dadaocheng/exploration/internal/middleware"
	"dadaocheng/exploration/packages/response"

	"github.com/gin-gonic/gin"
)

var errInvalidID = response.NewBusinessError(
	response.WithErrorCode(response.ParseError),
	response.WithErrorMessage("Invalid ID"),
)

var (
	loginMessages = map[string]string{
		"username": "Username is required",
		"password": "Password is required",
	}
	statusMessages = map[string]string{
		"status": "Invalid status",
		"reason": "Reason too long",
	}
)

type AdminHandler struct {
	adminService *AdminService
}

func NewAdminHandler(adminService *AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Login 管理员登录
// @Summary 管理员登录
// @Tags 管理
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} response.Response{data=LoginResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err, loginMessages)
		return
	}

	resp, err := h.adminService.Login(c.Request.Context(), &req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, resp)
}

// ListSubmissions 管理员查看所有投稿
// @Summary 管理员查看所有投稿
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态" Enums(pending, approved, rejected)
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=[]AdminSubmission}
// @Failure 401 {object} response.Response
// @Router /admin/submissions [get]
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	rows, p, err := h.adminService.ListSubmissions(c.Request.Context(), c.Query("status"), dto.ParsePage(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.PaginatedResponse(c, rows, p)
}

// UpdateStatus 更新投稿状态
// @Summary 更新投稿状态
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "投稿ID"
// @Param request body UpdateStatusRequest true "审核信息"
// @Success 200 {object} response.Response{data=submission.Submission}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/submissions/{id}/status [put]
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		dto.ErrorResponse(c, errInvalidID)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err, statusMessages)
		return
	}

	current, err := middleware.CurrentAdmin(c)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	sub, err := h.adminService.UpdateStatus(c.Request.Context(), id, &req, current)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.MessageResponse(c, http.StatusOK, fmt.Sprintf("Submission %s successfully", req.Status), sub)
}

// Dashboard 管理员仪表板
// @Summary 管理员仪表板
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=Dashboard}
// @Failure 401 {object} response.Response
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, d)
}
