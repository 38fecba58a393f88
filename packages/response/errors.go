package response

import "net/http"

// 业务错误码
const (
	// 失败
	Fail ResponseCode = 0
	// 参数解析错误
	ParseError ResponseCode = 1
	// 参数错误
	InvalidParameter ResponseCode = 2
	// 未登录
	Unauthorized ResponseCode = 3
	// 无权限
	Forbidden ResponseCode = 4
	// 资源不存在
	NotFound ResponseCode = 5
	// 令牌无效
	InvalidToken ResponseCode = 6
	// 请求过于频繁
	TooManyRequests ResponseCode = 7

	// 组别不存在或已停用
	InvalidGroup ResponseCode = 20
	// 任务不存在
	InvalidTask ResponseCode = 21
	// 组别已提交过成果
	DuplicateSubmission ResponseCode = 22
	// 文件超过大小限制
	PayloadTooLarge ResponseCode = 23
	// 文件所属提交不可访问
	AccessDenied ResponseCode = 24

	// 数据库不可用
	StoreUnavailable ResponseCode = 40
	// 约束冲突（未映射为业务错误时）
	ConstraintViolation ResponseCode = 41
	// 服务不可用
	ServiceUnavailable ResponseCode = 42
)

// HTTPStatus 错误码对应的 HTTP 状态码
func (c ResponseCode) HTTPStatus() int {
	switch c {
	case ParseError, InvalidParameter, InvalidGroup, InvalidTask, DuplicateSubmission, PayloadTooLarge:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden, AccessDenied, InvalidToken:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case TooManyRequests:
		return http.StatusTooManyRequests
	case ServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type BusinessError struct {
	Code ResponseCode
	Msg  string
	Err  error
}

func (be *BusinessError) Error() string {
	if be.Err != nil {
		return be.Msg + ": " + be.Err.Error()
	}
	return be.Msg
}

func (be *BusinessError) Unwrap() error {
	return be.Err
}

// Is 错误码相同即视为同一类业务错误，便于 errors.Is 比较
func (be *BusinessError) Is(target error) bool {
	t, ok := target.(*BusinessError)
	if !ok {
		return false
	}
	return t.Code == be.Code
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "business error",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// Wrap 复制一个业务错误并附带底层错误，原错误保持不变
func (be *BusinessError) Wrap(err error) *BusinessError {
	return &BusinessError{Code: be.Code, Msg: be.Msg, Err: err}
}
