package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/nilecart/internal/app"
	"github.com/nilecart/internal/authz"
	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	fmt.Printf("NileCart API (%s mode, %s)\n", mode, cfg.Server.Mode)

	if isWeakSecret(cfg.UserJWT.SecretKey) {
		if cfg.Server.Mode == "release" {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	staffEmail := os.Getenv("NC_DEFAULT_STAFF_EMAIL")
	staffPassword := os.Getenv("NC_DEFAULT_STAFF_PASSWORD")
	if cfg.Server.Mode == "release" && staffPassword == "" {
		stdLog.Printf("警告: 未设置 NC_DEFAULT_STAFF_PASSWORD，已跳过默认后台账号初始化")
	} else if err := initDefaultStaff(staffEmail, staffPassword); err != nil {
		stdLog.Printf("警告: 初始化默认后台账号失败: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

// initDefaultStaff 首次启动时创建后台账号并授予 staff 角色
func initDefaultStaff(email, password string) error {
	staff, err := models.InitDefaultStaff(email, password)
	if err != nil || staff == nil {
		return err
	}
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		return err
	}
	return authzService.SetUserRoles(staff.ID, []string{authz.RoleStaff})
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
