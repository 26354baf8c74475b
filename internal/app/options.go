package app

import (
	"os"
	"strings"
	"time"

	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/logger"

	"go.uber.org/zap"
)

// 运行模式：all 同进程跑 API 与 worker，api/worker 用于拆分部署
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

var knownModes = map[string]struct{}{ModeAll: {}, ModeAPI: {}, ModeWorker: {}}

const defaultShutdownTimeout = 10 * time.Second

// Options 启动参数
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// IsValidMode 模式名是否受支持
func IsValidMode(mode string) bool {
	_, ok := knownModes[mode]
	return ok
}

func normalizeOptions(opts Options) Options {
	opts.Mode = strings.ToLower(strings.TrimSpace(opts.Mode))
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	return opts
}
