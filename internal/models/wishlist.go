package models

import "time"

// Wishlist 收藏夹，身份规则与购物车一致
type Wishlist struct {
	ID           uint      `gorm:"primarykey" json:"id"`                  // 主键
	UserID       *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`  // 登录用户
	SessionToken *string   `gorm:"type:varchar(64);uniqueIndex" json:"-"` // 匿名令牌
	CreatedAt    time.Time `json:"created_at"`                            // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                            // 更新时间

	Items []WishlistItem `gorm:"foreignKey:WishlistID" json:"items,omitempty"`
}

// TableName 指定表名
func (Wishlist) TableName() string {
	return "wishlists"
}

// WishlistItem 收藏项
type WishlistItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                          // 主键
	WishlistID uint      `gorm:"not null;uniqueIndex:idx_wishlist_product" json:"wishlist_id"`  // 收藏夹ID
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_wishlist_product" json:"product_id"`   // 商品ID
	CreatedAt  time.Time `json:"created_at"`                                                    // 加入时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 指定表名
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
