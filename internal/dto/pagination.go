package dto

import (
	"math"
	"strconv"

	res "dadaocheng/exploration/packages/response"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage 保证 (page-1)*limit 不溢出 int32
	MaxPage = math.MaxInt32 / MaxPageSize
)

// Page 分页参数
type Page struct {
	Page  int
	Limit int
}

// Offset SQL OFFSET
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Result 根据总数构造分页信息
func (p Page) Result(total int64) *res.Pagination {
	return res.NewPagination(p.Page, p.Limit, total)
}

// ParsePage 读取 page/limit 查询参数，非法值回退到默认值，limit 最大 100，page 最大 MaxPage
func ParsePage(c *gin.Context) Page {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Page{Page: page, Limit: limit}
}

// ParseID 解析路径中的正整数 ID
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
