package pricing

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// SalePrice 計算實際售價
// round(basePrice * (1 - discountRate/100))，四捨五入取整數
// discountRate 為 0 時直接回傳原價
func SalePrice(basePrice decimal.Decimal, discountRate uint) decimal.Decimal {
	if discountRate == 0 {
		return basePrice
	}
	if discountRate >= 100 {
		return decimal.Zero
	}
	return basePrice.
		Mul(decimal.NewFromInt(int64(100 - discountRate))).
		Div(oneHundred).
		Round(0)
}

// LineTotal 單一明細小計 = 單價 * 數量
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
