package repository

import (
	"time"

	"github.com/nilecart/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WishlistRepository 收藏夹数据访问接口
type WishlistRepository interface {
	FindByUser(userID uint, lock bool) (*models.Wishlist, error)
	FindBySessionToken(token string, lock bool) (*models.Wishlist, error)
	Create(wishlist *models.Wishlist) error
	Delete(wishlistID uint) error
	ListItems(wishlistID uint) ([]models.WishlistItem, error)
	CountItems(wishlistID uint) (int64, error)
	AddItem(wishlistID, productID uint) error
	RemoveItem(wishlistID, productID uint) error
	WithTx(tx *gorm.DB) WishlistRepository
}

// GormWishlistRepository GORM 实现
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository 创建收藏夹仓库
func NewWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// WithTx 绑定事务
func (r *GormWishlistRepository) WithTx(tx *gorm.DB) WishlistRepository {
	if tx == nil {
		return r
	}
	return &GormWishlistRepository{db: tx}
}

func (r *GormWishlistRepository) findOne(query *gorm.DB) (*models.Wishlist, error) {
	return first[models.Wishlist](query)
}

// FindByUser 获取用户收藏夹
func (r *GormWishlistRepository) FindByUser(userID uint, lock bool) (*models.Wishlist, error) {
	if userID == 0 {
		return nil, nil
	}
	return r.findOne(forUpdate(r.db, lock).Where("user_id = ?", userID))
}

// FindBySessionToken 获取匿名收藏夹
func (r *GormWishlistRepository) FindBySessionToken(token string, lock bool) (*models.Wishlist, error) {
	if token == "" {
		return nil, nil
	}
	return r.findOne(forUpdate(r.db, lock).Where("session_token = ?", token))
}

// Create 创建收藏夹
func (r *GormWishlistRepository) Create(wishlist *models.Wishlist) error {
	return r.db.Create(wishlist).Error
}

// Delete 删除收藏夹及收藏项
func (r *GormWishlistRepository) Delete(wishlistID uint) error {
	if err := r.db.Where("wishlist_id = ?", wishlistID).Delete(&models.WishlistItem{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Wishlist{}, wishlistID).Error
}

// ListItems 收藏项列表（含商品）
func (r *GormWishlistRepository) ListItems(wishlistID uint) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := r.db.Preload("Product").Where("wishlist_id = ?", wishlistID).Order("id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountItems 收藏数量
func (r *GormWishlistRepository) CountItems(wishlistID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.WishlistItem{}).Where("wishlist_id = ?", wishlistID).Count(&count).Error
	return count, err
}

// AddItem 添加收藏，重复添加忽略
func (r *GormWishlistRepository) AddItem(wishlistID, productID uint) error {
	item := models.WishlistItem{WishlistID: wishlistID, ProductID: productID, CreatedAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error
}

// RemoveItem 移除收藏
func (r *GormWishlistRepository) RemoveItem(wishlistID, productID uint) error {
	return r.db.Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).Delete(&models.WishlistItem{}).Error
}
