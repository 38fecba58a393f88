package response

type ResponseCode int

// Pagination 分页信息
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination 根据总数计算页数
func NewPagination(page, limit int, total int64) *Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Response 统一响应格式
type Response struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message,omitempty"`
	Data       any          `json:"data,omitempty"`
	Error      string       `json:"error,omitempty"`
	Code       ResponseCode `json:"code,omitempty"`
	Details    any          `json:"details,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
}

type ResponseOptions func(*Response)

func WithMessage(message string) ResponseOptions {
	return func(r *Response) {
		r.Message = message
	}
}

func WithCode(code ResponseCode) ResponseOptions {
	return func(r *Response) {
		r.Code = code
	}
}

func WithData(data any) ResponseOptions {
	return func(r *Response) {
		r.Data = data
	}
}

func WithPagination(p *Pagination) ResponseOptions {
	return func(r *Response) {
		r.Pagination = p
	}
}

func WithDetails(details any) ResponseOptions {
	return func(r *Response) {
		r.Details = details
	}
}

func CustomResponse(opts ...ResponseOptions) Response {
	response := Response{Success: true}
	for _, opt := range opts {
		opt(&response)
	}
	return response
}

func SuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

func ErrorResponse(code ResponseCode, msg string) Response {
	return Response{
		Success: false,
		Code:    code,
		Error:   msg,
	}
}
