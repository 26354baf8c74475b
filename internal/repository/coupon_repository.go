package repository

import (
	"strings"
	"time"

	"github.com/nilecart/internal/models"

	"gorm.io/gorm"
)

// CouponRepository 优惠券数据访问接口
type CouponRepository interface {
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string, lock bool) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	List(filter CouponListFilter) ([]models.Coupon, int64, error)
	IncrementUsedCount(id uint) (int64, error)
	WithTx(tx *gorm.DB) CouponRepository
}

// GormCouponRepository GORM 实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建优惠券仓库
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponRepository) WithTx(tx *gorm.DB) CouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// NormalizeCouponCode 优惠码统一大写去空格
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GetByID 根据 ID 获取优惠券
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	return first[models.Coupon](r.db, id)
}

// GetByCode 根据优惠码获取优惠券
func (r *GormCouponRepository) GetByCode(code string, lock bool) (*models.Coupon, error) {
	normalized := NormalizeCouponCode(code)
	if normalized == "" {
		return nil, nil
	}
	return first[models.Coupon](forUpdate(r.db, lock).Where("code = ?", normalized))
}

// Create 创建优惠券
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	coupon.Code = NormalizeCouponCode(coupon.Code)
	return r.db.Create(coupon).Error
}

// List 优惠券列表
func (r *GormCouponRepository) List(filter CouponListFilter) ([]models.Coupon, int64, error) {
	query := r.db.Model(&models.Coupon{})
	if code := NormalizeCouponCode(filter.Code); code != "" {
		query = query.Where("code LIKE ?", "%"+code+"%")
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var coupons []models.Coupon
	if err := applyPagination(query.Order("id desc"), filter.Page, filter.PageSize).Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// IncrementUsedCount 使用次数 +1，达到上限时不更新（返回 0）
func (r *GormCouponRepository) IncrementUsedCount(id uint) (int64, error) {
	result := r.db.Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", id).
		Updates(map[string]interface{}{
			"used_count": gorm.Expr("used_count + ?", 1),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
