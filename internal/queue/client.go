package queue

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 后台通知等普通任务
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 面向顾客的邮件
	CriticalQueue = constants.QueueCritical

	defaultMaxRetry    = 5
	defaultConcurrency = 10
)

// taskQueues 任务类型到队列的路由
var taskQueues = map[string]string{
	TaskOrderConfirmation: CriticalQueue,
	TaskOrderStatusUpdate: CriticalQueue,
	TaskOrderAdminNew:     DefaultQueue,
	TaskUserWelcome:       CriticalQueue,
}

// Client 入队端，未启用队列时所有 Enqueue 都是空操作
type Client struct {
	inner *asynq.Client
}

// NewClient 创建入队端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{inner: asynq.NewClient(redisOpt(cfg))}, nil
}

// Enabled 是否真正连接了队列
func (c *Client) Enabled() bool {
	return c != nil && c.inner != nil
}

// Close 关闭连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// EnqueueOrderConfirmation 顾客下单确认邮件，同一订单只入队一次
func (c *Client) EnqueueOrderConfirmation(payload OrderNotificationPayload, opts ...asynq.Option) error {
	return c.submit(TaskOrderConfirmation, payload, taskID(TaskOrderConfirmation, payload.OrderID), opts)
}

// EnqueueOrderAdminNew 新订单通知运营
func (c *Client) EnqueueOrderAdminNew(payload OrderNotificationPayload, opts ...asynq.Option) error {
	return c.submit(TaskOrderAdminNew, payload, taskID(TaskOrderAdminNew, payload.OrderID), opts)
}

// EnqueueOrderStatusUpdate 订单状态变更邮件，同一目标状态只入队一次
func (c *Client) EnqueueOrderStatusUpdate(payload OrderStatusUpdatePayload, opts ...asynq.Option) error {
	return c.submit(TaskOrderStatusUpdate, payload, taskID(TaskOrderStatusUpdate, payload.OrderID, payload.ToStatus), opts)
}

// EnqueueUserWelcome 注册欢迎邮件，同一用户只入队一次
func (c *Client) EnqueueUserWelcome(payload UserWelcomePayload, opts ...asynq.Option) error {
	return c.submit(TaskUserWelcome, payload, taskID(TaskUserWelcome, payload.UserID), opts)
}

func (c *Client) submit(taskType string, payload interface{}, id string, extra []asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := newJSONTask(taskType, payload)
	if err != nil {
		return err
	}
	opts := []asynq.Option{asynq.Queue(taskQueues[taskType]), asynq.MaxRetry(defaultMaxRetry)}
	if id != "" {
		opts = append(opts, asynq.TaskID(id))
	}
	_, err = c.inner.Enqueue(task, append(opts, extra...)...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// taskID 由任务类型与业务键拼出幂等 ID，主键为 0 时不设置
func taskID(taskType string, key uint, parts ...string) string {
	if key == 0 {
		return ""
	}
	segments := append([]string{taskType, strconv.FormatUint(uint64(key), 10)}, parts...)
	return strings.Join(segments, ":")
}

// BuildServerConfig worker 端的连接与并发配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	server := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{CriticalQueue: 6, DefaultQueue: 3},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			server.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			server.Queues = cfg.Queues
		}
	}
	return redisOpt(cfg), server
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host, port := strings.TrimSpace(cfg.Host), cfg.Port
	if host == "" {
		host = "127.0.0.1"
	}
	if port <= 0 {
		port = 6379
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
