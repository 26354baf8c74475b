package shared

import (
	"strconv"
	"strings"

	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/service"

	"github.com/gin-gonic/gin"
)

// 上下文 key
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextIsStaff   = "user_is_staff"
	ContextCartToken = "cart_token"
)

// OptionalUserID 读取可选登录用户 ID，未登录返回 0
func OptionalUserID(c *gin.Context) uint {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0
	}
	if id, ok := value.(uint); ok {
		return id
	}
	return 0
}

// RequireUserID 读取登录用户 ID，缺失时直接写出 401
func RequireUserID(c *gin.Context) (uint, bool) {
	userID := OptionalUserID(c)
	if userID == 0 {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	return userID, true
}

// IdentityFromContext 登录用户优先，其次使用匿名购物车令牌
func IdentityFromContext(c *gin.Context) (service.Identity, bool) {
	if userID := OptionalUserID(c); userID != 0 {
		return service.UserIdentity(userID), true
	}
	token := strings.TrimSpace(c.GetString(ContextCartToken))
	if token == "" {
		RespondError(c, response.CodeBadRequest, "error.identity_invalid", nil)
		return service.Identity{}, false
	}
	return service.SessionIdentity(token), true
}

// ParseParamUint 解析路径参数中的正整数 ID
func ParseParamUint(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
