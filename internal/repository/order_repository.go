package repository

import (
	"strings"

	"github.com/nilecart/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	CreateItems(items []models.OrderItem) error
	GetByID(id uint, lock bool) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	ListByUser(userID uint, page, pageSize int) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func withOrderDetail(query *gorm.DB) *gorm.DB {
	return query.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).Preload("Payment")
}

// Create 创建订单行
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// CreateItems 批量写入订单项
func (r *GormOrderRepository) CreateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint, lock bool) (*models.Order, error) {
	return first[models.Order](withOrderDetail(forUpdate(r.db, lock)), id)
}

// GetByOrderNumber 根据订单号获取订单
func (r *GormOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	return first[models.Order](withOrderDetail(r.db).Where("order_number = ?", strings.ToUpper(strings.TrimSpace(orderNumber))))
}

// ListByUser 用户订单列表
func (r *GormOrderRepository) ListByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return r.ListAdmin(OrderListFilter{UserID: userID, Page: page, PageSize: pageSize})
}

// ListAdmin 订单列表（后台筛选）
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.OrderNumber != "" {
		query = query.Where("order_number = ?", strings.ToUpper(strings.TrimSpace(filter.OrderNumber)))
	}
	if filter.Email != "" {
		query = query.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(filter.Email)))
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	query = applyPagination(withOrderDetail(query).Order("id desc"), filter.Page, filter.PageSize)
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateFields 更新订单字段（仅状态类字段）
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}
