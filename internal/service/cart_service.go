package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shoeshop/internal/pkg/pricing"
)

type CartError error

var (
	// ErrSizeSoldOut 該尺寸已售完
	ErrSizeSoldOut CartError = errors.New("size sold out")
	// ErrStockNotEnough 數量超過現有庫存，錯誤訊息帶剩餘數量
	ErrStockNotEnough CartError = errors.New("stock not enough")
	// ErrInvalidQuantity 數量必須 >= 1
	ErrInvalidQuantity CartError = errors.New("quantity must be at least 1")
	// ErrInvalidSize 尺寸必須 > 0
	ErrInvalidSize CartError = errors.New("size must be positive")
)

type ICartService interface {
	GetCart(ctx context.Context, userID int) (*model.Cart, error)
	AddItem(ctx context.Context, userID int, productID string, size, quantity int) (*model.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID int, productID string, size, quantity int) (*model.Cart, error)
	RemoveItem(ctx context.Context, userID int, itemID uint) (*model.Cart, error)
	ClearCart(ctx context.Context, userID int) (*model.Cart, error)
}

/*
CartService 購物車

加入/改量時用 GetSizeStock 做預檢 (可能走快取，僅盡力而為)，
真正防超賣的是結帳時的原子預留。
任何異動後整車重算 unit_price / line_total，讓改價即時反映在購物車畫面，
但實際收費金額以結帳交易內的快照為準。
*/
type CartService struct {
	cartRepo    db.ICartRepository
	productRepo db.IProductRepository
}

func NewCartService(cartRepo db.ICartRepository, productRepo db.IProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart 取得購物車 (不存在就建立)，回傳前先重算價格
func (s *CartService) GetCart(ctx context.Context, userID int) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.recalcCart(ctx, cart)
}

// AddItem 加入購物車
// 同一 (product, size) 已存在就合併數量，合併後仍要過庫存檢查
func (s *CartService) AddItem(ctx context.Context, userID int, productID string, size, quantity int) (*model.Cart, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	stock, err := s.productRepo.GetSizeStock(ctx, productID, size)
	if err != nil {
		return nil, err
	}
	if stock == 0 {
		return nil, ErrSizeSoldOut
	}

	existing, err := s.cartRepo.GetItem(ctx, userID, productID, size)
	if err != nil && !errors.Is(err, db.ErrCartItemNotFound) {
		return nil, err
	}

	newQuantity := quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if uint(newQuantity) > stock {
		return nil, fmt.Errorf("%w: remaining %d", ErrStockNotEnough, stock)
	}

	if existing != nil {
		existing.Quantity = newQuantity
		if err := s.cartRepo.UpdateItem(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		// 先確保購物車存在
		if _, err := s.cartRepo.GetOrCreateCart(ctx, userID); err != nil {
			return nil, err
		}
		item := &model.CartItem{
			CartUserID: userID,
			ProductID:  productID,
			Size:       size,
			Quantity:   quantity,
		}
		if err := s.cartRepo.CreateItem(ctx, item); err != nil {
			return nil, err
		}
	}

	return s.reloadAndRecalc(ctx, userID)
}

// UpdateItemQuantity 改量，quantity <= 0 等同移除該明細
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID int, productID string, size, quantity int) (*model.Cart, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	item, err := s.cartRepo.GetItem(ctx, userID, productID, size)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(ctx, userID, item.ID); err != nil {
			return nil, err
		}
		return s.reloadAndRecalc(ctx, userID)
	}

	stock, err := s.productRepo.GetSizeStock(ctx, productID, size)
	if err != nil {
		return nil, err
	}
	if uint(quantity) > stock {
		return nil, fmt.Errorf("%w: remaining %d", ErrStockNotEnough, stock)
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return s.reloadAndRecalc(ctx, userID)
}

// RemoveItem 刪除單一明細
func (s *CartService) RemoveItem(ctx context.Context, userID int, itemID uint) (*model.Cart, error) {
	if err := s.cartRepo.DeleteItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	return s.reloadAndRecalc(ctx, userID)
}

// ClearCart 清空購物車
func (s *CartService) ClearCart(ctx context.Context, userID int) (*model.Cart, error) {
	if err := s.cartRepo.ClearCart(ctx, userID); err != nil {
		return nil, err
	}
	return s.cartRepo.GetOrCreateCart(ctx, userID)
}

func (s *CartService) reloadAndRecalc(ctx context.Context, userID int) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.recalcCart(ctx, cart)
}

// recalcCart 依商品現價重算每筆明細的顯示用價格快照
// 商品已下架的明細直接清掉，不能讓一筆孤兒明細害整台購物車讀不出來
func (s *CartService) recalcCart(ctx context.Context, cart *model.Cart) (*model.Cart, error) {
	kept := cart.Items[:0]
	for i := range cart.Items {
		item := &cart.Items[i]
		product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
		if errors.Is(err, db.ErrProductNotFound) {
			if err := s.cartRepo.DeleteItem(ctx, cart.UserID, item.ID); err != nil && !errors.Is(err, db.ErrCartItemNotFound) {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		unitPrice := pricing.SalePrice(product.BasePrice, product.DiscountRate)
		lineTotal := pricing.LineTotal(unitPrice, item.Quantity)
		if !item.UnitPrice.Equal(unitPrice) || !item.LineTotal.Equal(lineTotal) {
			item.UnitPrice = unitPrice
			item.LineTotal = lineTotal
			if err := s.cartRepo.UpdateItem(ctx, item); err != nil {
				return nil, err
			}
		}
		kept = append(kept, *item)
	}
	cart.Items = kept
	return cart, nil
}

var _ ICartService = (*CartService)(nil)
