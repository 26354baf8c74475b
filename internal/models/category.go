package models

import "time"

// Category 商品分类
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // 主键
	Name      string    `gorm:"not null" json:"name"`              // 名称
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`  // 唯一标识
	SortOrder int       `gorm:"default:0;index" json:"sort_order"` // 排序权重
	CreatedAt time.Time `json:"created_at"`                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                        // 更新时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// Brand 品牌
type Brand struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	Name      string    `gorm:"not null" json:"name"`             // 名称
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"` // 唯一标识
	CreatedAt time.Time `json:"created_at"`                       // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                       // 更新时间
}

// TableName 指定表名
func (Brand) TableName() string {
	return "brands"
}

// Color 颜色
type Color struct {
	ID      uint   `gorm:"primarykey" json:"id"`             // 主键
	Name    string `gorm:"uniqueIndex;not null" json:"name"` // 名称
	HexCode string `gorm:"type:varchar(7)" json:"hex_code"`  // 色值 #RRGGBB
}

// TableName 指定表名
func (Color) TableName() string {
	return "colors"
}

// Size 尺码
type Size struct {
	ID        uint   `gorm:"primarykey" json:"id"`             // 主键
	Name      string `gorm:"uniqueIndex;not null" json:"name"` // 名称（S/M/L/42...）
	SortOrder int    `gorm:"default:0" json:"sort_order"`      // 排序
}

// TableName 指定表名
func (Size) TableName() string {
	return "sizes"
}
