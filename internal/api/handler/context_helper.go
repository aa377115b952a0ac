package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/Revaz-Goguadze/ShiftCraft/pkg/errors"
	"github.com/Revaz-Goguadze/ShiftCraft/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// JWT 中间件未正确注入时返回 false 并写入 401 响应，调用方应直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// getTokenMeta 提取 JWT 中间件注入的 jti 与过期时间（登出黑名单使用）
func getTokenMeta(c *gin.Context) (string, time.Time) {
	jti := c.GetString("jti")
	expiresAt, _ := c.Get("expires_at")
	t, _ := expiresAt.(time.Time)
	return jti, t
}

// mapServiceError 按业务错误分类映射 HTTP 状态码：
// NotFound→404，InvalidArgument→400，Conflict/InvalidState/乐观锁→409，其余→500
func mapServiceError(c *gin.Context, code int, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, code, err.Error())
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		response.BadRequest(c, code, err.Error())
	case errors.Is(err, pkgerrors.ErrConflict),
		errors.Is(err, pkgerrors.ErrInvalidState),
		errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, code, err.Error())
	default:
		response.InternalError(c)
	}
}
