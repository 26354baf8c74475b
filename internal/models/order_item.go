package models

import (
	"time"
)

// OrderItem 订单项快照，价格在下单时冻结
type OrderItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                   // 主键
	OrderID         uint      `gorm:"not null;index" json:"order_id"`                         // 订单ID
	VariantID       uint      `gorm:"not null;index" json:"variant_id"`                       // 规格ID
	ProductID       uint      `gorm:"not null;index" json:"product_id"`                       // 商品ID
	ProductName     string    `gorm:"not null" json:"product_name"`                           // 商品名称快照
	VariantLabel    string    `json:"variant_label"`                                          // 规格描述快照
	SKU             string    `gorm:"type:varchar(64)" json:"sku"`                            // SKU 快照
	Quantity        int       `gorm:"not null" json:"quantity"`                               // 数量
	PriceAtPurchase Money     `gorm:"type:decimal(20,2);not null" json:"price_at_purchase"`   // 成交单价
	LineTotal       Money     `gorm:"type:decimal(20,2);not null" json:"line_total"`          // 行小计
	CreatedAt       time.Time `json:"created_at"`                                             // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
