package public

import (
	"time"

	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/i18n"
	"github.com/nilecart/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UserProfileResponse 用户资料
type UserProfileResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IsStaff     bool   `json:"is_staff"`
}

func userProfile(user *models.User) UserProfileResponse {
	return UserProfileResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsStaff:     user.IsStaff,
	}
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Register(req.Email, req.Password, req.DisplayName, i18n.ResolveLocale(c))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{
		"user":       userProfile(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// Login 用户登录，携带的匿名购物车会合并进用户购物车
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	cartToken := c.GetString(handlershared.ContextCartToken)
	result, err := h.UserAuthService.Login(c.Request.Context(), req.Email, req.Password, cartToken)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{
		"user":        userProfile(result.User),
		"token":       result.Token,
		"expires_at":  result.ExpiresAt.Format(time.RFC3339),
		"adjustments": adjustmentResponses(i18n.ResolveLocale(c), result.Adjustments),
	})
}

// GetProfile 当前用户资料
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := handlershared.RequireUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, userProfile(user))
}

// ChangePassword 修改密码，成功后旧 token 失效
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := handlershared.RequireUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.UserAuthService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"changed": true})
}
