package model

import (
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/pkg/pricing"
	"github.com/shopspring/decimal"
)

const (
	CategoryLifestyle = "LIFESTYLE"
	CategorySlipon    = "SLIPON"
)

type Product struct {
	ProductID    string          `gorm:"primaryKey;type:varchar(255)" json:"product_id"`
	Name         string          `gorm:"not null;type:varchar(100)" json:"name"`
	Short        string          `gorm:"not null;type:varchar(255)" json:"short"`
	Description  string          `gorm:"type:text" json:"description"`
	Category     string          `gorm:"not null;type:varchar(50);index" json:"category"`
	Gender       string          `gorm:"type:varchar(10)" json:"gender"`
	BasePrice    decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"base_price"`
	DiscountRate uint            `gorm:"not null;default:0" json:"discount_rate"` // 折扣率 0~100 (%)
	SaleStart    *time.Time      `gorm:"null" json:"sale_start"`
	SaleEnd      *time.Time      `gorm:"null" json:"sale_end"`
	SalesCount   uint            `gorm:"not null;default:0" json:"sales_count"` // 累積銷售數量，結帳預留時累加
	Sizes        []ProductSize   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes"`
	BaseModel
}

// ProductSize 尺寸庫存，每個 (product_id, size) 一筆
// stock 只會由後台編輯與結帳預留異動，條件式更新保證不會為負
type ProductSize struct {
	ProductID string `gorm:"primaryKey;type:varchar(255)" json:"product_id"`
	Size      int    `gorm:"primaryKey" json:"size"`
	Stock     uint   `gorm:"not null;default:0" json:"stock"`
}

// SalePrice 實際售價，折扣無條件套用
func (p *Product) SalePrice() decimal.Decimal {
	return pricing.SalePrice(p.BasePrice, p.DiscountRate)
}

// AvailableSizes 可購買尺寸 (stock > 0)，衍生值不落地
func (p *Product) AvailableSizes() []int {
	sizes := make([]int, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		if s.Stock > 0 {
			sizes = append(sizes, s.Size)
		}
	}
	return sizes
}

// OnSale 是否在特價期間內，只用於特價分類篩選，不影響售價計算
func (p *Product) OnSale(now time.Time) bool {
	if p.DiscountRate == 0 {
		return false
	}
	if p.SaleStart != nil && now.Before(*p.SaleStart) {
		return false
	}
	if p.SaleEnd != nil && now.After(*p.SaleEnd) {
		return false
	}
	return true
}
