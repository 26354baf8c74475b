package models

import "time"

// ShippingAddress 用户地址簿
type ShippingAddress struct {
	ID           uint      `gorm:"primarykey" json:"id"`                          // 主键
	UserID       uint      `gorm:"not null;index" json:"user_id"`                 // 用户ID
	FirstName    string    `gorm:"not null" json:"first_name"`                    // 名
	LastName     string    `gorm:"not null" json:"last_name"`                     // 姓
	Phone        string    `gorm:"type:varchar(32)" json:"phone"`                 // 电话
	AddressLine1 string    `gorm:"not null" json:"address_line1"`                 // 地址行 1
	AddressLine2 string    `json:"address_line2"`                                 // 地址行 2
	City         string    `gorm:"not null" json:"city"`                          // 城市
	State        string    `json:"state"`                                         // 省/州
	PostalCode   string    `gorm:"type:varchar(20)" json:"postal_code"`           // 邮编
	Country      string    `gorm:"type:varchar(2);not null" json:"country"`       // 国家（ISO 3166-1 alpha-2）
	IsDefault    bool      `gorm:"not null;default:false" json:"is_default"`      // 是否默认
	CreatedAt    time.Time `json:"created_at"`                                    // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                    // 更新时间
}

// TableName 指定表名
func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}
