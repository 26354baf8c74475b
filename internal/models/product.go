package models

import (
	"time"
)

// Product 商品表
type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                     // 主键
	CategoryID  *uint     `gorm:"index" json:"category_id"`                                 // 分类ID
	BrandID     *uint     `gorm:"index" json:"brand_id"`                                    // 品牌ID
	Name        string    `gorm:"not null" json:"name"`                                     // 名称
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`                         // 唯一标识
	Description string    `gorm:"type:text" json:"description"`                             // 描述
	Price       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`       // 基础价格
	SalePrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"sale_price"`  // 促销价格
	IsOnSale    bool      `gorm:"not null;default:false" json:"is_on_sale"`                 // 是否促销中
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`             // 是否上架
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                               // 更新时间

	// 关联
	Category *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Brand    *Brand           `gorm:"foreignKey:BrandID" json:"brand,omitempty"`       // 品牌信息
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`  // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
