package router

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/nilecart/internal/cache"
	"github.com/nilecart/internal/config"
	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流维度
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Scope         string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

// LoginRateLimitRule 登录限流规则
func LoginRateLimitRule(cfg config.LoginRateLimitConfig) RateLimitRule {
	return RateLimitRule{
		Scope:         "rate:login",
		WindowSeconds: cfg.WindowSeconds,
		MaxRequests:   cfg.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}
}

// Enabled 窗口与次数均为正时生效
func (r RateLimitRule) Enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

// 返回 {当前计数, 剩余秒数}
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("TTL", KEYS[1])}
`)

// RateLimitMiddleware Redis 固定窗口限流，未启用 Redis 时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.Enabled() {
			c.Next()
			return
		}
		subject := ""
		if keyFunc != nil {
			subject = strings.TrimSpace(keyFunc(c))
		}
		if subject == "" {
			subject = c.ClientIP()
		}
		key := cache.BuildKey(rule.Scope + ":" + subject)

		count, ttl, err := incrWindow(c, client, key, rule.WindowSeconds)
		if err != nil {
			logger.Warnw("rate_limit_script_failed", "scope", rule.Scope, "error", err)
			abortWithError(c, response.CodeInternal, "error.rate_limit_unavailable")
			return
		}
		if count <= int64(rule.MaxRequests) {
			c.Next()
			return
		}

		wait := retryAfterSeconds(ttl, rule.WindowSeconds)
		c.Header("Retry-After", strconv.Itoa(wait))
		messageKey := rule.MessageKey
		if messageKey == "" {
			messageKey = "error.rate_limited"
		}
		handlershared.RespondErrorWithData(c, response.CodeTooManyRequests, messageKey, gin.H{"retry_after": wait}, nil, wait)
		c.Abort()
	}
}

func incrWindow(c *gin.Context, client *redis.Client, key string, windowSeconds int) (int64, int64, error) {
	values, err := fixedWindowScript.Run(c.Request.Context(), client, []string{key}, windowSeconds).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(values) < 2 {
		return 0, 0, redis.Nil
	}
	return values[0], values[1], nil
}

func retryAfterSeconds(ttl int64, windowSeconds int) int {
	if ttl > 0 {
		return int(ttl)
	}
	if windowSeconds > 0 {
		return windowSeconds
	}
	return 1
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 按 JSON 字段（小写）与 IP 组合限流，读取后恢复请求体
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(peekJSONString(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

func peekJSONString(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	var value string
	if err := json.Unmarshal(payload[field], &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
