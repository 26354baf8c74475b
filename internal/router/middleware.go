package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/nilecart/internal/authz"
	"github.com/nilecart/internal/cache"
	"github.com/nilecart/internal/constants"
	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/repository"
	"github.com/nilecart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// 匿名购物车令牌的传递方式
const (
	CartTokenHeader = "X-Cart-Token"
	CartTokenCookie = "cart_token"
)

func abortWithError(c *gin.Context, code int, key string) {
	handlershared.RespondError(c, code, key, nil)
	c.Abort()
}

// OptionalUserJWTMiddleware 解析可选的用户 JWT；无 Authorization 头按匿名放行，携带无效 token 则拒绝
func OptionalUserJWTMiddleware(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Next()
			return
		}
		if secretKey == "" {
			abortWithError(c, response.CodeUnauthorized, "error.jwt_secret_missing")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			abortWithError(c, response.CodeUnauthorized, "error.auth_header_invalid")
			return
		}

		parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		claims := &service.UserJWTClaims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		})
		if err != nil || !token.Valid || claims.UserID == 0 {
			abortWithError(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}

		state, hit, cacheErr := cache.GetUserAuthState(c.Request.Context(), claims.UserID)
		if cacheErr != nil || !hit || state == nil {
			if userRepo == nil {
				abortWithError(c, response.CodeUnauthorized, "error.token_invalid")
				return
			}
			user, err := userRepo.GetByID(claims.UserID)
			if err != nil || user == nil {
				abortWithError(c, response.CodeUnauthorized, "error.token_invalid")
				return
			}
			state = cache.BuildUserAuthState(user)
			_ = cache.SetUserAuthState(c.Request.Context(), state)
		}
		if !isActiveUserStatus(state.Status) {
			abortWithError(c, response.CodeUnauthorized, "error.user_disabled")
			return
		}
		if claims.TokenVersion != state.TokenVersion {
			abortWithError(c, response.CodeUnauthorized, "error.token_invalid")
			return
		}

		c.Set(handlershared.ContextUserID, claims.UserID)
		c.Set(handlershared.ContextUserEmail, claims.Email)
		c.Set(handlershared.ContextIsStaff, state.IsStaff)
		c.Next()
	}
}

// RequireUserMiddleware 必须已登录
func RequireUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if handlershared.OptionalUserID(c) == 0 {
			abortWithError(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		c.Next()
	}
}

// CartIdentityMiddleware 从请求头或 Cookie 读取匿名购物车令牌，匿名请求缺失时签发新令牌
func CartIdentityMiddleware(ttlDays int) gin.HandlerFunc {
	if ttlDays <= 0 {
		ttlDays = 30
	}
	maxAge := int((time.Duration(ttlDays) * 24 * time.Hour).Seconds())
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(CartTokenHeader))
		if token == "" {
			if cookie, err := c.Cookie(CartTokenCookie); err == nil {
				token = strings.TrimSpace(cookie)
			}
		}
		if token == "" && handlershared.OptionalUserID(c) == 0 {
			token = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CartTokenCookie, token, maxAge, "/", "", false, true)
		}
		if token != "" {
			c.Set(handlershared.ContextCartToken, token)
			c.Writer.Header().Set(CartTokenHeader, token)
		}
		c.Next()
	}
}

// StaffRBACMiddleware 后台人员 RBAC 鉴权，资源取路由模板
func StaffRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("staff_rbac_service_unavailable")
			abortWithError(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		userID := handlershared.OptionalUserID(c)
		if userID == 0 {
			abortWithError(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		if !c.GetBool(handlershared.ContextIsStaff) {
			abortWithError(c, response.CodeForbidden, "error.forbidden")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := authzService.EnforceUser(userID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("staff_rbac_enforce_failed",
				"user_id", userID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortWithError(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("staff_rbac_permission_denied",
				"user_id", userID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			abortWithError(c, response.CodeForbidden, "error.forbidden")
			return
		}
		c.Next()
	}
}

func isActiveUserStatus(status string) bool {
	return strings.ToLower(strings.TrimSpace(status)) == constants.UserStatusActive
}
