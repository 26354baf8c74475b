package repository

import (

	"github.com/nilecart/internal/models"

	"gorm.io/gorm"
)

// ShippingAddressRepository 地址簿数据访问接口
type ShippingAddressRepository interface {
	ListByUser(userID uint) ([]models.ShippingAddress, error)
	GetForUser(id, userID uint) (*models.ShippingAddress, error)
	Create(address *models.ShippingAddress) error
	ClearDefault(userID uint) error
	WithTx(tx *gorm.DB) ShippingAddressRepository
}

// GormShippingAddressRepository GORM 实现
type GormShippingAddressRepository struct {
	db *gorm.DB
}

// NewShippingAddressRepository 创建地址簿仓库
func NewShippingAddressRepository(db *gorm.DB) *GormShippingAddressRepository {
	return &GormShippingAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShippingAddressRepository) WithTx(tx *gorm.DB) ShippingAddressRepository {
	if tx == nil {
		return r
	}
	return &GormShippingAddressRepository{db: tx}
}

// ListByUser 用户地址列表，默认地址优先
func (r *GormShippingAddressRepository) ListByUser(userID uint) ([]models.ShippingAddress, error) {
	var addresses []models.ShippingAddress
	if err := r.db.Where("user_id = ?", userID).Order("is_default desc, id desc").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// GetForUser 获取属于该用户的地址
func (r *GormShippingAddressRepository) GetForUser(id, userID uint) (*models.ShippingAddress, error) {
	return first[models.ShippingAddress](r.db.Where("id = ? AND user_id = ?", id, userID))
}

// Create 新增地址
func (r *GormShippingAddressRepository) Create(address *models.ShippingAddress) error {
	return r.db.Create(address).Error
}

// ClearDefault 取消用户全部默认地址
func (r *GormShippingAddressRepository) ClearDefault(userID uint) error {
	return r.db.Model(&models.ShippingAddress{}).Where("user_id = ? AND is_default = ?", userID, true).Update("is_default", false).Error
}
