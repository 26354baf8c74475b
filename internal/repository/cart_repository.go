package repository

import (
	"sort"
	"time"

	"github.com/nilecart/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	FindByUser(userID uint, lock bool) (*models.Cart, error)
	FindBySessionToken(token string, lock bool) (*models.Cart, error)
	LockCarts(ids []uint) ([]models.Cart, error)
	Create(cart *models.Cart) error
	Delete(cartID uint) error
	UpdateTotals(cartID uint, totalItems int, totalPrice models.Money) error
	ListItems(cartID uint) ([]models.CartItem, error)
	GetItem(cartID, itemID uint) (*models.CartItem, error)
	GetItemByVariant(cartID, variantID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID uint, quantity int) error
	MoveItem(itemID, targetCartID uint) error
	DeleteItem(cartID, itemID uint) (int64, error)
	ClearItems(cartID uint) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

func (r *GormCartRepository) findOne(query *gorm.DB) (*models.Cart, error) {
	return first[models.Cart](query)
}

// FindByUser 获取用户购物车
func (r *GormCartRepository) FindByUser(userID uint, lock bool) (*models.Cart, error) {
	if userID == 0 {
		return nil, nil
	}
	return r.findOne(forUpdate(r.db, lock).Where("user_id = ?", userID))
}

// FindBySessionToken 获取匿名购物车
func (r *GormCartRepository) FindBySessionToken(token string, lock bool) (*models.Cart, error) {
	if token == "" {
		return nil, nil
	}
	return r.findOne(forUpdate(r.db, lock).Where("session_token = ?", token))
}

// LockCarts 按 ID 升序锁定多个购物车（合并时使用）
func (r *GormCartRepository) LockCarts(ids []uint) ([]models.Cart, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	var carts []models.Cart
	if err := forUpdate(r.db, true).Where("id IN ?", sorted).Order("id asc").Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

// Create 创建购物车
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// Delete 删除购物车及其全部购物车项
func (r *GormCartRepository) Delete(cartID uint) error {
	if err := r.ClearItems(cartID); err != nil {
		return err
	}
	return r.db.Delete(&models.Cart{}, cartID).Error
}

// UpdateTotals 写入缓存合计
func (r *GormCartRepository) UpdateTotals(cartID uint, totalItems int, totalPrice models.Money) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"total_items": totalItems,
		"total_price": totalPrice,
		"updated_at":  time.Now(),
	}).Error
}

// ListItems 获取购物车项（含规格详情），按加入顺序
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	query := preloadVariantDetail(r.db.Preload("Variant"), "Variant.")
	if err := query.Where("cart_id = ?", cartID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem 获取指定购物车下的购物车项
func (r *GormCartRepository) GetItem(cartID, itemID uint) (*models.CartItem, error) {
	return first[models.CartItem](r.db.Where("id = ? AND cart_id = ?", itemID, cartID))
}

// GetItemByVariant 根据规格获取购物车项
func (r *GormCartRepository) GetItemByVariant(cartID, variantID uint) (*models.CartItem, error) {
	return first[models.CartItem](r.db.Where("cart_id = ? AND variant_id = ?", cartID, variantID))
}

// CreateItem 新增购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItemQuantity 更新数量
func (r *GormCartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
		"quantity":   quantity,
		"updated_at": time.Now(),
	}).Error
}

// MoveItem 将购物车项转移到另一个购物车
func (r *GormCartRepository) MoveItem(itemID, targetCartID uint) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
		"cart_id":    targetCartID,
		"updated_at": time.Now(),
	}).Error
}

// DeleteItem 删除购物车项，返回受影响行数
func (r *GormCartRepository) DeleteItem(cartID, itemID uint) (int64, error) {
	result := r.db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// ClearItems 清空购物车项
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
