package models

import (
	"time"
)

// Order 订单快照，创建后仅状态字段可变
type Order struct {
	ID                   uint   `gorm:"primarykey" json:"id"`                                        // 主键
	OrderNumber          string `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`   // 订单号
	UserID               *uint  `gorm:"index" json:"user_id,omitempty"`                              // 用户ID（匿名下单为空）
	AnonymousAccessToken string `gorm:"type:varchar(64);index" json:"-"`                             // 匿名订单访问令牌

	// 联系方式与收货信息（复制快照）
	Email             string `gorm:"not null" json:"email"`                  // 邮箱
	Phone             string `gorm:"type:varchar(32)" json:"phone"`          // 电话
	FirstName         string `gorm:"not null" json:"first_name"`             // 名
	LastName          string `gorm:"not null" json:"last_name"`              // 姓
	AddressLine1      string `gorm:"not null" json:"address_line1"`          // 地址行 1
	AddressLine2      string `json:"address_line2"`                          // 地址行 2
	City              string `gorm:"not null" json:"city"`                   // 城市
	State             string `json:"state"`                                  // 省/州
	PostalCode        string `gorm:"type:varchar(20)" json:"postal_code"`    // 邮编
	Country           string `gorm:"type:varchar(2);not null" json:"country"` // 国家
	ShippingAddressID *uint  `json:"shipping_address_id,omitempty"`          // 来源地址簿记录（仅供参考）

	Subtotal       Money  `gorm:"type:decimal(20,2);not null" json:"subtotal"`                  // 商品小计
	ShippingCost   Money  `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`   // 运费
	DiscountAmount Money  `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	GrandTotal     Money  `gorm:"type:decimal(20,2);not null" json:"grand_total"`               // 应付总额
	CouponID       *uint  `gorm:"index" json:"coupon_id,omitempty"`                             // 优惠券ID
	CouponCode     string `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`                // 优惠码快照

	Status        string    `gorm:"type:varchar(20);index;not null" json:"status"`         // 订单状态
	PaymentStatus string    `gorm:"type:varchar(20);index;not null" json:"payment_status"` // 支付状态
	PaymentMethod string    `gorm:"type:varchar(30);not null" json:"payment_method"`       // 支付方式
	Notes         string    `gorm:"type:text" json:"notes"`                                // 备注
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt     time.Time `json:"updated_at"`                                            // 更新时间

	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`   // 订单项
	Payment *Payment    `gorm:"foreignKey:OrderID" json:"payment,omitempty"` // 支付记录
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// FullName 收货人姓名
func (o *Order) FullName() string {
	if o == nil {
		return ""
	}
	if o.LastName == "" {
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}
