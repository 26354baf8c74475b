package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired 锁被其他请求持有
var ErrLockNotAcquired = errors.New("lock not acquired")

var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock 分布式互斥锁句柄
type Lock struct {
	key   string
	token string
}

// AcquireLock 获取互斥锁，未启用 Redis 时返回空锁（由数据库行锁兜底）
func AcquireLock(ctx context.Context, key string, ttl time.Duration) (*Lock, error) {
	client := Client()
	if client == nil {
		return &Lock{}, nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	lock := &Lock{key: BuildKey("lock:" + key), token: uuid.NewString()}
	ok, err := client.SetNX(ctx, lock.key, lock.token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}
	return lock, nil
}

// Release 释放锁，仅删除自己持有的锁
func (l *Lock) Release(ctx context.Context) error {
	client := Client()
	if l == nil || l.key == "" || client == nil {
		return nil
	}
	return releaseLockScript.Run(ctx, client, []string{l.key}, l.token).Err()
}
