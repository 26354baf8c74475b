package repository

import (
	"strings"
	"time"

	"github.com/nilecart/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	TouchLastLogin(id uint, at time.Time) error
	UpdatePassword(id uint, passwordHash string) error
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	return first[models.User](r.db, id)
}

// GetByEmail 根据邮箱获取用户（不区分大小写）
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	return first[models.User](r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))))
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return r.db.Create(user).Error
}

// TouchLastLogin 更新最后登录时间
func (r *GormUserRepository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

// UpdatePassword 更新密码并递增 token_version，使旧 Token 全部失效
func (r *GormUserRepository) UpdatePassword(id uint, passwordHash string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"token_version": gorm.Expr("token_version + 1"),
		"updated_at":    time.Now(),
	}).Error
}
