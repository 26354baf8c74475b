package models

import (
	"time"
)

// Payment 支付记录，与订单一对一
type Payment struct {
	ID            uint       `gorm:"primarykey" json:"id"`                          // 主键
	OrderID       uint       `gorm:"uniqueIndex;not null" json:"order_id"`          // 订单ID
	Method        string     `gorm:"type:varchar(30);not null" json:"method"`       // 支付方式
	Amount        Money      `gorm:"type:decimal(20,2);not null" json:"amount"`     // 支付金额
	TransactionID string     `gorm:"type:varchar(100);index" json:"transaction_id"` // 网关流水号
	IsSuccess     bool       `gorm:"not null;default:false" json:"is_success"`      // 是否成功
	Details       JSON       `gorm:"type:text" json:"details"`                      // 附加信息
	PaidAt        *time.Time `json:"paid_at"`                                       // 支付时间
	CreatedAt     time.Time  `json:"created_at"`                                    // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                                    // 更新时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
