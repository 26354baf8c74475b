package models

import (
	"time"
)

// Coupon 优惠券
type Coupon struct {
	ID                 uint      `gorm:"primarykey" json:"id"`                                                 // 主键
	Code               string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`                    // 优惠码
	DiscountType       string    `gorm:"type:varchar(20);not null" json:"discount_type"`                       // 类型（percentage/fixed）
	Value              Money     `gorm:"type:decimal(20,2);not null" json:"value"`                             // 数值（百分比或固定金额）
	MinimumOrderAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"minimum_order_amount"`    // 使用门槛
	ValidFrom          time.Time `gorm:"index;not null" json:"valid_from"`                                     // 生效时间
	ValidTo            time.Time `gorm:"index;not null" json:"valid_to"`                                       // 失效时间
	UsageLimit         *int      `json:"usage_limit"`                                                          // 总使用上限（nil 表示不限制）
	UsedCount          int       `gorm:"not null;default:0" json:"used_count"`                                 // 已使用次数
	IsActive           bool      `gorm:"not null;default:true" json:"is_active"`                               // 是否启用
	CreatedAt          time.Time `json:"created_at"`                                                           // 创建时间
	UpdatedAt          time.Time `json:"updated_at"`                                                           // 更新时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
