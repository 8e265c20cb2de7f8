package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"gorm.io/gorm"
)

// ErrCartItemNotFound 購物車內沒有該明細
var ErrCartItemNotFound = errors.New("cart item not found")

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

// GetOrCreateCart 取得購物車，不存在就建立空車
// 冪等，永遠不會回 not found
func (s *CartRepo) GetOrCreateCart(ctx context.Context, userID int) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).Preload("Items").First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = model.Cart{UserID: userID, Items: []model.CartItem{}}
		if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetItem 依 (product, size) 取得明細
func (s *CartRepo) GetItem(ctx context.Context, userID int, productID string, size int) (*model.CartItem, error) {
	var item model.CartItem
	err := s.db.WithContext(ctx).
		Where("cart_user_id = ? AND product_id = ? AND size = ?", userID, productID, size).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CartRepo) CreateItem(ctx context.Context, item *model.CartItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *CartRepo) UpdateItem(ctx context.Context, item *model.CartItem) error {
	return s.db.WithContext(ctx).Save(item).Error
}

// DeleteItem 依明細ID刪除，回傳 ErrCartItemNotFound 表示該明細不屬於這台購物車
func (s *CartRepo) DeleteItem(ctx context.Context, userID int, itemID uint) error {
	result := s.db.WithContext(ctx).
		Where("cart_user_id = ? AND id = ?", userID, itemID).
		Delete(&model.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// ClearCart 清空購物車明細，結帳成功後一定會呼叫
func (s *CartRepo) ClearCart(ctx context.Context, userID int) error {
	return ClearCartTx(ctx, s.db.DB, userID)
}

func ClearCartTx(ctx context.Context, tx *gorm.DB, userID int) error {
	return tx.WithContext(ctx).
		Where("cart_user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}
