package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// IdentityCounts 购物车件数与收藏数快照
type IdentityCounts struct {
	CartItems     int `json:"cart_items"`
	WishlistItems int `json:"wishlist_items"`
}

// CountsKey 根据身份构建计数缓存 key
func CountsKey(userID uint, sessionToken string) string {
	if userID != 0 {
		return fmt.Sprintf("counts:user:%d", userID)
	}
	token := strings.TrimSpace(sessionToken)
	if token == "" {
		return ""
	}
	return "counts:session:" + token
}

// GetCounts 读取计数缓存
func GetCounts(ctx context.Context, key string) (*IdentityCounts, bool, error) {
	return getSnapshot[IdentityCounts](ctx, key)
}

// SetCounts 写入计数缓存
func SetCounts(ctx context.Context, key string, counts IdentityCounts, ttl time.Duration) error {
	if key == "" {
		return nil
	}
	return SetJSON(ctx, key, counts, ttl)
}

// InvalidateCounts 失效计数缓存
func InvalidateCounts(ctx context.Context, keys ...string) error {
	filtered := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			filtered = append(filtered, key)
		}
	}
	return Del(ctx, filtered...)
}
