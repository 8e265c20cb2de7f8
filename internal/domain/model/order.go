package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 結帳成功後建立，建立後不再異動 (append-only)
type Order struct {
	OrderID     string          `gorm:"primaryKey;type:varchar(255)" json:"order_id"`
	UserID      int             `gorm:"not null;index" json:"user_id"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total_amount"`
	PaidAt      time.Time       `gorm:"not null;index" json:"paid_at"`
	BaseModel
}

// OrderItem 下單當下的商品快照
// name_snapshot / unit_price / line_total 固定在結帳時點，商品之後改名改價不影響歷史訂單
type OrderItem struct {
	OrderID      string          `gorm:"primaryKey;type:varchar(255)" json:"order_id"`
	ProductID    string          `gorm:"primaryKey;type:varchar(255)" json:"product_id"`
	Size         int             `gorm:"primaryKey" json:"size"`
	NameSnapshot string          `gorm:"not null;type:varchar(100)" json:"name_snapshot"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"unit_price"`
	LineTotal    decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"line_total"`
	BaseModel
}
