package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/queue"

	"github.com/hibiken/asynq"
)

// ErrQueueDisabled 未开启队列时无法启动 worker
var ErrQueueDisabled = errors.New("queue disabled")

// Service 通知任务消费端，实现 app.Service
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 组装 asynq server 并注册处理器
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, ErrQueueDisabled
	}
	if consumer == nil {
		return nil, errors.New("worker consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	serverCfg.Logger = zapAsynqLogger{}
	serverCfg.ErrorHandler = asynq.ErrorHandlerFunc(logTaskFailure)

	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{server: asynq.NewServer(opt, serverCfg), mux: mux}, nil
}

// Name 服务名
func (s *Service) Name() string { return "worker" }

// Start 启动消费并阻塞到 ctx 取消
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return fmt.Errorf("start asynq server: %w", err)
	}
	<-ctx.Done()
	return nil
}

// Stop 停止拉取新任务并等待进行中的任务结束
func (s *Service) Stop(_ context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Stop()
	s.server.Shutdown()
	return nil
}

func logTaskFailure(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	logger.Warnw("worker_task_failed",
		"task", task.Type(),
		"retried", retried,
		"max_retry", maxRetry,
		"error", err,
	)
}

// zapAsynqLogger 把 asynq 内部日志接到全局 zap
type zapAsynqLogger struct{}

func (zapAsynqLogger) Debug(args ...interface{}) { logger.S().Debug(args...) }
func (zapAsynqLogger) Info(args ...interface{})  { logger.S().Info(args...) }
func (zapAsynqLogger) Warn(args ...interface{})  { logger.S().Warn(args...) }
func (zapAsynqLogger) Error(args ...interface{}) { logger.S().Error(args...) }
func (zapAsynqLogger) Fatal(args ...interface{}) { logger.S().Fatal(args...) }
