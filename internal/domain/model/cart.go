package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart 一個使用者一台購物車，首次存取時建立
type Cart struct {
	UserID    int        `gorm:"primaryKey" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartUserID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"null" json:"updated_at"`
}

// CartItem 購物車明細，同一 (product, size) 只會有一筆
// unit_price / line_total 只是顯示用快照，每次異動後重算，實際收費以結帳當下為準
type CartItem struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	CartUserID int             `gorm:"not null;index;uniqueIndex:idx_cart_product_size" json:"cart_user_id"`
	ProductID  string          `gorm:"not null;type:varchar(255);uniqueIndex:idx_cart_product_size" json:"product_id"`
	Size       int             `gorm:"not null;uniqueIndex:idx_cart_product_size" json:"size"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"unit_price"`
	LineTotal  decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"line_total"`
}
