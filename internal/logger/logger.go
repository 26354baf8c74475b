package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ServiceName 写入每条日志的 service 字段
const ServiceName = "nilecart"

const (
	defaultLogDirName  = "logs"
	defaultLogFilename = "nilecart.log"
)

// Options 日志输出配置，零值字段在 normalized 中补齐
type Options struct {
	Dir        string
	Filename   string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (o Options) normalized() Options {
	o.Dir = strings.TrimSpace(o.Dir)
	o.Filename = strings.TrimSpace(o.Filename)
	if o.Filename == "" {
		o.Filename = defaultLogFilename
	}
	if o.MaxSizeMB <= 0 {
		o.MaxSizeMB = 100
	}
	if o.MaxBackups <= 0 {
		o.MaxBackups = 7
	}
	if o.MaxAgeDays <= 0 {
		o.MaxAgeDays = 30
	}
	return o
}

// L 全局结构化日志实例，Init 之前为 nil
var L *zap.Logger

var stdoutLogger atomic.Pointer[zap.Logger]

// Init 构建全局日志并替换 zap 全局实例
func Init(mode string, options Options) *zap.Logger {
	L = New(mode, options)
	zap.ReplaceGlobals(L)
	return L
}

// New 按运行模式构建日志
// debug 输出彩色控制台，release 写 JSON 到滚动文件
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	core := buildCore(debug, options.normalized())
	return zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", ServiceName)),
	)
}

func buildCore(debug bool, options Options) zapcore.Core {
	level := resolveLevel(options.Level, debug)
	if debug {
		cfg := encoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stdout), level)
	}
	sink, err := rollingSink(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable, writing to stdout: %v\n", err)
		sink = zapcore.Lock(os.Stdout)
	}
	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), sink, level)
}

func rollingSink(options Options) (zapcore.WriteSyncer, error) {
	path, err := resolveLogFilePath(options)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    options.MaxSizeMB,
		MaxBackups: options.MaxBackups,
		MaxAge:     options.MaxAgeDays,
		LocalTime:  true,
		Compress:   options.Compress,
	}), nil
}

// resolveLogFilePath 目录为空时落在工作目录下的 logs/，并预先创建文件以尽早暴露权限问题
func resolveLogFilePath(options Options) (string, error) {
	options = options.normalized()
	dir := options.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(wd, defaultLogDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, options.Filename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	return path, f.Close()
}

func resolveLevel(raw string, debug bool) zap.AtomicLevel {
	fallback := zapcore.InfoLevel
	if debug {
		fallback = zapcore.DebugLevel
	}
	level, err := zapcore.ParseLevel(strings.TrimSpace(raw))
	if err != nil || strings.TrimSpace(raw) == "" {
		level = fallback
	}
	return zap.NewAtomicLevelAt(level)
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// Z 返回全局日志，未初始化时退回 stdout
func Z() *zap.Logger {
	if L != nil {
		return L
	}
	if cached := stdoutLogger.Load(); cached != nil {
		return cached
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stdout), zapcore.InfoLevel)
	stdoutLogger.CompareAndSwap(nil, zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))
	return stdoutLogger.Load()
}

// S 返回 SugaredLogger
func S() *zap.SugaredLogger { return Z().Sugar() }

// SW 附加键值对后的 SugaredLogger
func SW(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return S()
	}
	return S().With(kv...)
}

// StdLogger 供 gorm 等只接受标准库 log 的组件使用
func StdLogger() *log.Logger {
	return zap.NewStdLog(Z())
}

func Debugw(message string, kv ...interface{}) { S().Debugw(message, kv...) }

func Infow(message string, kv ...interface{}) { S().Infow(message, kv...) }

func Warnw(message string, kv ...interface{}) { S().Warnw(message, kv...) }

func Errorw(message string, kv ...interface{}) { S().Errorw(message, kv...) }
