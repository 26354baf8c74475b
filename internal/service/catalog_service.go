package service

import (
	"strings"

	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/repository"
)

// CatalogService 商品目录只读服务
type CatalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *CatalogService {
	return &CatalogService{productRepo: productRepo, categoryRepo: categoryRepo}
}

// VariantAvailability 规格实时价格与库存
type VariantAvailability struct {
	VariantID   uint         `json:"variant_id"`
	Price       models.Money `json:"price"`
	Stock       int          `json:"stock"`
	IsAvailable bool         `json:"is_available"`
}

// GetVariant 查询规格价格与可售状态，商品下架时不可售但仍返回价格
func (s *CatalogService) GetVariant(id uint) (*VariantAvailability, error) {
	if id == 0 {
		return nil, ErrVariantNotFound
	}
	variant, err := s.productRepo.GetVariant(id)
	if err != nil {
		return nil, err
	}
	if variant == nil || variant.Product == nil {
		return nil, ErrVariantNotFound
	}
	return &VariantAvailability{
		VariantID:   variant.ID,
		Price:       VariantPrice(variant),
		Stock:       variant.StockQuantity,
		IsAvailable: variant.Product.IsActive && variant.StockQuantity > 0,
	}, nil
}

// ListProducts 公开商品列表
func (s *CatalogService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = true
	filter.Search = strings.TrimSpace(filter.Search)
	return s.productRepo.List(filter)
}

// GetProduct 按 slug 获取上架商品及其规格
func (s *CatalogService) GetProduct(slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListCategories 分类列表
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.ListCategories()
}

// ListBrands 品牌列表
func (s *CatalogService) ListBrands() ([]models.Brand, error) {
	return s.categoryRepo.ListBrands()
}
