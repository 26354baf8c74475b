package service

import (
	"fmt"
	"strings"
)

// Identity 购物车/收藏夹归属身份，登录用户与匿名令牌二选一
type Identity struct {
	UserID       uint
	SessionToken string
}

// UserIdentity 登录用户身份
func UserIdentity(userID uint) Identity {
	return Identity{UserID: userID}
}

// SessionIdentity 匿名令牌身份
func SessionIdentity(token string) Identity {
	return Identity{SessionToken: strings.TrimSpace(token)}
}

// Validate 必须且只能有一种身份
func (i Identity) Validate() error {
	hasUser := i.UserID != 0
	hasToken := i.token() != ""
	if hasUser == hasToken {
		return ErrIdentityInvalid
	}
	return nil
}

// token 入库与查询统一使用去空白后的令牌
func (i Identity) token() string {
	return strings.TrimSpace(i.SessionToken)
}

// IsAnonymous 是否匿名身份
func (i Identity) IsAnonymous() bool {
	return i.UserID == 0
}

func (i Identity) String() string {
	if i.UserID != 0 {
		return fmt.Sprintf("user:%d", i.UserID)
	}
	token := i.token()
	if len(token) > 8 {
		token = token[:8]
	}
	return "session:" + token
}
