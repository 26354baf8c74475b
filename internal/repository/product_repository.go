package repository

import (
	"sort"
	"strings"

	"github.com/nilecart/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品目录数据访问接口（购物车与结算只读，结算扣减库存）
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetBySlug(slug string, onlyActive bool) (*models.Product, error)
	GetByID(id uint) (*models.Product, error)
	GetVariant(id uint) (*models.ProductVariant, error)
	LockVariants(ids []uint) ([]models.ProductVariant, error)
	DecrementStock(variantID uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

func preloadVariantDetail(query *gorm.DB, prefix string) *gorm.DB {
	return query.Preload(prefix + "Product").Preload(prefix + "Color").Preload(prefix + "Size")
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.BrandID != 0 {
		query = query.Where("brand_id = ?", filter.BrandID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		clause, args := containsClause(isPostgres(r.db), search, "name", "slug")
		query = query.Where(clause, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var products []models.Product
	query = applyPagination(query.Preload("Category").Preload("Brand").Order("id desc"), filter.Page, filter.PageSize)
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetBySlug 根据 slug 获取商品与规格
func (r *GormProductRepository) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	query := r.db.Preload("Category").Preload("Brand").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Variants.Color").Preload("Variants.Size").
		Where("slug = ?", strings.TrimSpace(slug))
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	return first[models.Product](query)
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	return first[models.Product](r.db, id)
}

// GetVariant 获取规格（含商品、颜色、尺码）
func (r *GormProductRepository) GetVariant(id uint) (*models.ProductVariant, error) {
	return first[models.ProductVariant](preloadVariantDetail(r.db, ""), id)
}

// LockVariants 按 ID 升序锁定规格行，调用方需已持有购物车锁
func (r *GormProductRepository) LockVariants(ids []uint) ([]models.ProductVariant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var variants []models.ProductVariant
	query := forUpdate(preloadVariantDetail(r.db, ""), true).Where("id IN ?", sorted).Order("id asc")
	if err := query.Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// DecrementStock 条件扣减库存，返回受影响行数（0 表示库存不足）
func (r *GormProductRepository) DecrementStock(variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, nil
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND stock_quantity >= ?", variantID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
