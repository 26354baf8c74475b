package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	applog "github.com/nilecart/internal/logger"

	"github.com/glebarez/sqlite" // 纯 Go 实现，免 cgo
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB 全局连接，测试中可直接替换
var DB *gorm.DB

// DBPoolConfig 连接池参数，非正值表示沿用驱动默认
type DBPoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// InitDB 打开连接、套用连接池并做一次连通性检查
func InitDB(driver, dsn string, pool DBPoolConfig) error {
	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(applog.StdLogger(), gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	switch {
	case isSQLiteDriver(driver):
		// SQLite 不支持 FOR UPDATE，单连接串行化写事务，避免并发写返回 SQLITE_BUSY
		if pool.MaxOpenConns > 1 {
			applog.Warnw("db_sqlite_pool_forced_single_conn", "configured_max_open_conns", pool.MaxOpenConns)
		}
		sqlDB.SetMaxOpenConns(1)
	case pool.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(seconds(pool.ConnMaxLifetimeSeconds))
	sqlDB.SetConnMaxIdleTime(seconds(pool.ConnMaxIdleTimeSeconds))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", driver, err)
	}
	DB = db
	return nil
}

func isSQLiteDriver(driver string) bool {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		return true
	}
	return false
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	if isSQLiteDriver(driver) {
		return sqlite.Open(withSQLitePragmas(dsn)), nil
	}
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// withSQLitePragmas 没有显式 pragma 时补上 busy_timeout 与外键约束
func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}

// seconds 非正值返回 0，即不限制
func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

// AllModels 迁移顺序即依赖顺序，测试同样复用
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Category{}, &Brand{}, &Color{}, &Size{},
		&Product{}, &ProductVariant{},
		&Cart{}, &CartItem{},
		&Wishlist{}, &WishlistItem{},
		&Coupon{},
		&ShippingAddress{},
		&Order{}, &OrderItem{}, &Payment{},
	}
}

// AutoMigrate 迁移全部表
func AutoMigrate() error {
	return DB.AutoMigrate(AllModels()...)
}
