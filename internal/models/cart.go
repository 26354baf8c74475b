package models

import (
	"time"
)

// Cart 购物车（user_id 与 session_token 二选一）
type Cart struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                         // 主键
	UserID       *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`                         // 登录用户
	SessionToken *string   `gorm:"type:varchar(64);uniqueIndex" json:"-"`                        // 匿名令牌
	TotalItems   int       `gorm:"not null;default:0" json:"total_items"`                        // 缓存：商品件数
	TotalPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`     // 缓存：商品总价
	CreatedAt    time.Time `json:"created_at"`                                                   // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                   // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车项，(cart, variant) 唯一且 quantity >= 1
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                              // 主键
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_variant" json:"cart_id"`              // 购物车ID
	VariantID uint      `gorm:"not null;uniqueIndex:idx_cart_variant;index" json:"variant_id"`     // 规格ID
	Quantity  int       `gorm:"not null;check:quantity >= 1" json:"quantity"`                      // 数量
	CreatedAt time.Time `json:"created_at"`                                                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                        // 更新时间

	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"` // 关联规格
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
