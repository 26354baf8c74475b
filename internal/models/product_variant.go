package models

import (
	"strings"
	"time"
)

// ProductVariant 商品规格（商品 + 颜色 + 尺码）
type ProductVariant struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                                   // 主键
	ProductID       uint      `gorm:"not null;uniqueIndex:idx_variant_combo" json:"product_id"`               // 商品ID
	ColorID         *uint     `gorm:"uniqueIndex:idx_variant_combo" json:"color_id"`                          // 颜色ID
	SizeID          *uint     `gorm:"uniqueIndex:idx_variant_combo" json:"size_id"`                           // 尺码ID
	SKU             string    `gorm:"type:varchar(64);index" json:"sku"`                                      // SKU 编码
	PriceAdjustment Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price_adjustment"`          // 规格加价（可为负）
	StockQuantity   int       `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`     // 库存
	CreatedAt       time.Time `json:"created_at"`                                                             // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                                             // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
	Color   *Color   `gorm:"foreignKey:ColorID" json:"color,omitempty"`     // 关联颜色
	Size    *Size    `gorm:"foreignKey:SizeID" json:"size,omitempty"`       // 关联尺码
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

// Label 规格描述，例如 "Red / M"
func (v *ProductVariant) Label() string {
	if v == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if v.Color != nil && strings.TrimSpace(v.Color.Name) != "" {
		parts = append(parts, v.Color.Name)
	}
	if v.Size != nil && strings.TrimSpace(v.Size.Name) != "" {
		parts = append(parts, v.Size.Name)
	}
	return strings.Join(parts, " / ")
}
