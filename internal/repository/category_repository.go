package repository

import (
	"github.com/nilecart/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类与品牌数据访问接口
type CategoryRepository interface {
	ListCategories() ([]models.Category, error)
	ListBrands() ([]models.Brand, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// ListCategories 分类列表
func (r *GormCategoryRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("sort_order DESC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ListBrands 品牌列表
func (r *GormCategoryRepository) ListBrands() ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.Order("name ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}
