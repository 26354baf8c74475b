package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/nilecart/internal/models"
)

const authStateTTL = 10 * time.Minute

// UserAuthState JWT 校验所需的用户字段快照
type UserAuthState struct {
	UserID       uint   `json:"user_id"`
	Status       string `json:"status"`
	IsStaff      bool   `json:"is_staff"`
	TokenVersion uint64 `json:"token_version"`
	UpdatedAt    int64  `json:"updated_at"`
}

func authStateKey(userID uint) string {
	if userID == 0 {
		return ""
	}
	return "auth:user:" + strconv.FormatUint(uint64(userID), 10)
}

// BuildUserAuthState 由用户记录生成快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	state := UserAuthState{
		UserID:       user.ID,
		Status:       user.Status,
		IsStaff:      user.IsStaff,
		TokenVersion: user.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
	return &state
}

// GetUserAuthState 读取快照
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	return getSnapshot[UserAuthState](ctx, authStateKey(userID))
}

// SetUserAuthState 写入快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(state.UserID), state, authStateTTL)
}

// DelUserAuthState 用户状态或令牌版本变化后调用
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, authStateKey(userID))
}
