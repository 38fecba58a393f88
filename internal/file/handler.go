package file

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"dadaocheng/exploration/internal/dto"
	"dadaocheng/exploration/packages/response"

	"github.com/gin-gonic/gin"
)

var errInvalidID = response.NewBusinessError(
	response.WithErrorCode(response.ParseError),
	response.WithErrorMessage("Invalid ID"),
)

type FileHandler struct {
	fileService *FileService
}

func NewFileHandler(fileService *FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Download 下载文件
// @Summary 下载文件
// @Description 仅 pending/approved 投稿的文件可下载，支持 Range 请求
// @Tags 文件
// @Produce octet-stream
// @Param id path int true "文件ID"
// @Success 200 {file} binary
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		dto.ErrorResponse(c, errInvalidID)
		return
	}

	dl, err := h.fileService.Retrieve(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	defer dl.Content.Close()

	c.Header("Content-Type", dl.View.MimeType)
	c.Header("Content-Disposition", "inline; filename*=UTF-8''"+encodeFilename(dl.View.OriginalFilename))
	c.Header("Cache-Control", "public, max-age=31536000")
	c.Header("ETag", fmt.Sprintf(`"%d-%d"`, dl.View.ID, dl.View.FileSize))

	http.ServeContent(c.Writer, c.Request, dl.View.OriginalFilename, dl.ModTime, dl.Content)
}

// Info 获取文件信息
// @Summary 获取文件信息
// @Tags 文件
// @Produce json
// @Param id path int true "文件ID"
// @Success 200 {object} response.Response{data=FileInfo}
// @Failure 404 {object} response.Response
// @Router /files/{id}/info [get]
func (h *FileHandler) Info(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		dto.ErrorResponse(c, errInvalidID)
		return
	}

	info, err := h.fileService.Info(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, info)
}

// ListBySubmission 获取投稿的所有文件
// @Summary 获取投稿的所有文件
// @Tags 文件
// @Produce json
// @Param id path int true "投稿ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=[]FileView}
// @Router /files/submission/{id} [get]
func (h *FileHandler) ListBySubmission(c *gin.Context) {
	id, ok := dto.ParseID(c, "id")
	if !ok {
		dto.ErrorResponse(c, errInvalidID)
		return
	}

	files, p, err := h.fileService.ListForSubmission(c.Request.Context(), id, dto.ParsePage(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.PaginatedResponse(c, files, p)
}

// encodeFilename RFC 5987 编码
func encodeFilename(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}
