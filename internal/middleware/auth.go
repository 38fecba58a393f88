package middleware

import (
	"context"
	"errors"

	"dadaocheng/exploration/internal/dto"
	"dadaocheng/exploration/internal/model/admin"
	"dadaocheng/exploration/packages/authsdk"
	"dadaocheng/exploration/packages/response"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	ContextAdmin    = "admin"
	ContextAdminID  = "user_id"
	ContextUsername = "username"
	ContextRole     = "user_role"
)

var (
	ErrTokenRequired = response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage("Access token required"),
	)
	// ErrUnknownAdmin 令牌有效但管理员不存在或已停用
	ErrUnknownAdmin = response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage("Invalid token"),
	)
	ErrInvalidToken = response.NewBusinessError(
		response.WithErrorCode(response.InvalidToken),
		response.WithErrorMessage("Invalid token"),
	)
)

// AdminLookup 按 ID 查找启用中的管理员，不存在时返回 nil, nil
type AdminLookup interface {
	FindActiveByID(ctx context.Context, id uint) (*admin.Admin, error)
}

// AdminAuth 管理员 JWT 认证中间件
func AdminAuth(secret string, lookup AdminLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := authsdk.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			dto.AbortWithError(c, ErrTokenRequired)
			return
		}

		claims, err := authsdk.ParseToken(token, secret)
		if err != nil {
			dto.AbortWithError(c, ErrInvalidToken)
			return
		}

		a, err := lookup.FindActiveByID(c.Request.Context(), claims.UserID)
		if err != nil {
			dto.AbortWithError(c, err)
			return
		}
		if a == nil {
			dto.AbortWithError(c, ErrUnknownAdmin)
			return
		}

		// 将管理员信息存入上下文
		c.Set(ContextAdmin, a)
		c.Set(ContextAdminID, a.ID)
		c.Set(ContextUsername, a.Username)
		c.Set(ContextRole, a.Role)
		c.Next()
	}
}

// CurrentAdmin 读取 AdminAuth 写入的管理员
func CurrentAdmin(c *gin.Context) (*admin.Admin, error) {
	v, ok := c.Get(ContextAdmin)
	if !ok {
		return nil, errors.New("admin not found in context")
	}
	a, ok := v.(*admin.Admin)
	if !ok {
		return nil, errors.New("unexpected admin type in context")
	}
	return a, nil
}
