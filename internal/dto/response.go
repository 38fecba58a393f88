package dto

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	res "dadaocheng/exploration/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// internalErrorMessage 5xx 时对外统一的消息，具体原因只写日志
const internalErrorMessage = "Internal server error"

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(http.StatusOK, res.SuccessResponse(data))
}

// MessageResponse 带提示信息的成功响应
func MessageResponse(c *gin.Context, status int, message string, data any) {
	c.JSON(status, res.CustomResponse(res.WithMessage(message), res.WithData(data)))
}

// PaginatedResponse 列表响应
func PaginatedResponse(c *gin.Context, data any, p *res.Pagination) {
	c.JSON(http.StatusOK, res.CustomResponse(res.WithData(data), res.WithPagination(p)))
}

// ErrorResponse 根据业务错误码写出 HTTP 状态
// 非业务错误及 5xx 错误的细节通过 c.Error 交给日志中间件
func ErrorResponse(c *gin.Context, err error) {
	var be *res.BusinessError
	if !errors.As(err, &be) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, res.ErrorResponse(res.Fail, internalErrorMessage))
		return
	}

	status := be.Code.HTTPStatus()
	msg := be.Msg
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		if be.Code != res.ServiceUnavailable {
			msg = internalErrorMessage
		}
	}
	c.JSON(status, res.ErrorResponse(be.Code, msg))
}

// AbortWithError 中间件中使用
func AbortWithError(c *gin.Context, err error) {
	ErrorResponse(c, err)
	c.Abort()
}

// FieldError 单个字段的验证错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse 处理验证错误，返回 400 与逐字段的详情
// messages 以 JSON/表单字段名为键，覆盖默认提示
func ValidationErrorResponse(c *gin.Context, err error, messages map[string]string) {
	details, ok := FieldErrors(err, messages)
	if !ok {
		c.JSON(http.StatusBadRequest, res.ErrorResponse(res.ParseError, "Invalid request: "+err.Error()))
		return
	}
	ValidationFailed(c, details)
}

// FieldErrors 将 validator 错误转换为逐字段详情，err 不是验证错误时返回 false
func FieldErrors(err error, messages map[string]string) ([]FieldError, bool) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, false
	}

	details := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		field := toCamelCase(fe.Field())
		msg, ok := messages[field]
		if !ok {
			msg = defaultMessage(field, fe)
		}
		details = append(details, FieldError{Field: field, Message: msg})
	}
	return details, true
}

// ValidationFailed 400 Validation failed
func ValidationFailed(c *gin.Context, details []FieldError) {
	c.JSON(http.StatusBadRequest, res.Response{
		Success: false,
		Code:    res.InvalidParameter,
		Error:   "Validation failed",
		Details: details,
	})
}

func defaultMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// toCamelCase GroupNumber -> groupNumber
func toCamelCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
