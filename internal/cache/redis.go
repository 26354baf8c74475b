package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nilecart/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "nc"

// store 进程内唯一的 Redis 句柄，prefix 用于多实例共用同一个库
type store struct {
	mu     sync.RWMutex
	client *redis.Client
	prefix string
}

var shared store

// InitRedis 按配置建立连接，未启用时保持关闭，所有读写降级为空操作
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	prefix := strings.Trim(strings.TrimSpace(cfg.Prefix), ":")
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(host, strconv.Itoa(port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	shared.mu.Lock()
	defer shared.mu.Unlock()
	shared.client = client
	shared.prefix = prefix
	return nil
}

// Close 断开连接并回到禁用状态
func Close() error {
	shared.mu.Lock()
	client := shared.client
	shared.client = nil
	shared.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Close()
}

// Enabled 缓存是否可用
func Enabled() bool {
	return Client() != nil
}

// Client 返回底层客户端，禁用时为 nil
func Client() *redis.Client {
	shared.mu.RLock()
	defer shared.mu.RUnlock()
	return shared.client
}

// BuildKey 为业务 key 加上全局前缀
func BuildKey(key string) string {
	shared.mu.RLock()
	prefix := shared.prefix
	shared.mu.RUnlock()
	key = strings.TrimSpace(key)
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + ":" + key
	}
}

// GetJSON 读取并反序列化，未命中返回 false
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	client := Client()
	if client == nil {
		return false, nil
	}
	raw, err := client.Get(ctx, BuildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, dest)
}

// SetJSON 序列化后写入
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	client := Client()
	if client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, BuildKey(key), raw, ttl).Err()
}

// Del 批量删除
func Del(ctx context.Context, keys ...string) error {
	client := Client()
	if client == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = BuildKey(key)
	}
	return client.Del(ctx, full...).Err()
}

// getSnapshot 读取指定类型的 JSON 快照
func getSnapshot[T any](ctx context.Context, key string) (*T, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	var value T
	hit, err := GetJSON(ctx, key, &value)
	if err != nil || !hit {
		return nil, false, err
	}
	return &value, true, nil
}
