package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/producer"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shoeshop/internal/pkg/pricing"
	"github.com/RoyceAzure/lab/shoeshop/internal/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CheckoutError error

var (
	// ErrEmptyCart 購物車是空的，未做任何異動
	ErrEmptyCart CheckoutError = errors.New("cart is empty")
	// ErrInvalidCartItem 購物車明細格式不正確，未做任何異動
	ErrInvalidCartItem CheckoutError = errors.New("invalid cart item")
	// ErrOutOfStock 任一明細預留失敗，整筆結帳取消，庫存無淨異動
	ErrOutOfStock CheckoutError = errors.New("out of stock")
)

// CacheInvalidator 結帳提交後使商品庫存快取失效
type CacheInvalidator interface {
	Invalidate(productID string)
}

type ICheckoutService interface {
	Checkout(ctx context.Context, userID int) (*model.Order, error)
}

/*
CheckoutService 結帳協調者

把「讀購物車 → 驗證 → 逐筆預留庫存 → 價格快照 → 建立訂單 → 清空購物車」
包在單一 DB 交易內，任何一步失敗整筆 rollback:
不會有訂單沒建立但庫存被扣走的中間狀態。

事件發佈與快取失效在交易提交後才做，失敗只記 log。
*/
type CheckoutService struct {
	dao           db.UnifiedDB
	orderProducer producer.IOrderEventProducer // 可為 nil，不發事件
	invalidator   CacheInvalidator             // 可為 nil，不做快取失效
}

func NewCheckoutService(dao db.UnifiedDB, orderProducer producer.IOrderEventProducer, invalidator CacheInvalidator) *CheckoutService {
	return &CheckoutService{dao: dao, orderProducer: orderProducer, invalidator: invalidator}
}

// Checkout 把購物車轉成訂單，全成功或全失敗
// 成功後購物車清空，重送同一請求自然得到 ErrEmptyCart
func (s *CheckoutService) Checkout(ctx context.Context, userID int) (*model.Order, error) {
	orderID := util.GenerateOrderID()

	var created *model.Order
	err := s.dao.Transaction(func(tx *gorm.DB) error {
		// 1. 讀購物車
		var cart model.Cart
		err := tx.WithContext(ctx).Preload("Items").First(&cart, "user_id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		// 2. 結構驗證，任一明細不合法就整筆失敗，不嘗試預留
		for _, item := range cart.Items {
			if item.ProductID == "" || item.Size <= 0 || item.Quantity <= 0 {
				return ErrInvalidCartItem
			}
		}

		// 3. 逐筆原子預留，失敗整筆 rollback (已預留的明細隨交易一起取消)
		for _, item := range cart.Items {
			err := db.ReserveSizeStockTx(ctx, tx, item.ProductID, item.Size, uint(item.Quantity))
			switch {
			case err == nil:
			case errors.Is(err, db.ErrProductNotFound),
				errors.Is(err, db.ErrSizeNotExist),
				errors.Is(err, db.ErrProductStockNotEnough):
				return ErrOutOfStock
			default:
				return fmt.Errorf("reserve stock: %w", err)
			}
		}

		// 4. 價格/名稱快照，同一交易內讀商品現值
		orderItems := make([]model.OrderItem, 0, len(cart.Items))
		totalAmount := decimal.Zero
		for _, item := range cart.Items {
			var product model.Product
			if err := tx.WithContext(ctx).First(&product, "product_id = ?", item.ProductID).Error; err != nil {
				return fmt.Errorf("snapshot product %s: %w", item.ProductID, err)
			}

			unitPrice := pricing.SalePrice(product.BasePrice, product.DiscountRate)
			lineTotal := pricing.LineTotal(unitPrice, item.Quantity)
			orderItems = append(orderItems, model.OrderItem{
				OrderID:      orderID,
				ProductID:    item.ProductID,
				Size:         item.Size,
				NameSnapshot: product.Name,
				Quantity:     item.Quantity,
				UnitPrice:    unitPrice,
				LineTotal:    lineTotal,
			})
			totalAmount = totalAmount.Add(lineTotal)
		}

		// 5. 建立訂單並清空購物車，仍在同一交易內
		order := &model.Order{
			OrderID:     orderID,
			UserID:      userID,
			Items:       orderItems,
			TotalAmount: totalAmount,
			PaidAt:      time.Now().UTC(),
		}
		if err := db.CreateOrderTx(ctx, tx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := db.ClearCartTx(ctx, tx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(created)
	return created, nil
}

// 交易提交後的收尾: 發佈事件、快取失效，失敗不影響結帳結果
func (s *CheckoutService) afterCommit(order *model.Order) {
	if s.invalidator != nil {
		for _, item := range order.Items {
			s.invalidator.Invalidate(item.ProductID)
		}
	}

	if s.orderProducer != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.orderProducer.OrderCreated(ctx, order); err != nil {
				log.Error().Err(err).Str("order_id", order.OrderID).Msg("kafka order created produce failed")
			}
		}()
	}
}

var _ ICheckoutService = (*CheckoutService)(nil)
