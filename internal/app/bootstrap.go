package app

import (
	"errors"
	"net"

	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/provider"
	"github.com/nilecart/internal/router"
	"github.com/nilecart/internal/worker"
)

// BuildRunner 按运行模式装配 HTTP 与 Worker 服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !IsValidMode(mode) {
		return nil, errors.New("unknown run mode: " + mode)
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, err
	}

	var services []Service
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
		services = append(services, NewHTTPService(addr, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		switch {
		case cfg.Queue.Enabled:
			workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
			if err != nil {
				container.Close()
				return nil, err
			}
			services = append(services, workerService)
		case mode == ModeWorker:
			container.Close()
			return nil, errors.New("worker mode requires queue.enabled")
		default:
			logger.Warnw("app_worker_skipped", "reason", "queue_disabled")
		}
	}

	if len(services) == 0 {
		container.Close()
		return nil, errors.New("no services initialized (check mode and config)")
	}
	runner := NewRunner(services...)
	runner.OnShutdown(container.Close)
	return runner, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"addr", net.JoinHostPort(opts.Config.Server.Host, opts.Config.Server.Port),
		"mode", opts.Mode,
	)
	return RunWithOptions(runner, opts)
}
