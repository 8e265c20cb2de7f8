package db

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrSizeNotExist 商品沒有該尺寸
	ErrSizeNotExist = errors.New("size not exist")
	// ErrProductStockNotEnough 尺寸庫存不足 (包含 stock = 0 售完)
	ErrProductStockNotEnough = errors.New("product stock not enough")
)

type ProductDBRepo struct {
	db *DbDao
}

func NewProductDBRepo(db *DbDao) *ProductDBRepo {
	return &ProductDBRepo{db: db}
}

func (s *ProductDBRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *ProductDBRepo) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Preload("Sizes").First(&product, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Read - 查詢全部商品
func (s *ProductDBRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Preload("Sizes").Order("created_at DESC").Find(&products).Error
	return products, err
}

// Read - 依分類查詢，最新上架在前
func (s *ProductDBRepo) GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Preload("Sizes").
		Where("category = ?", category).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// Read - 熱門商品，依累積銷售數量排序
func (s *ProductDBRepo) GetPopularProducts(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Preload("Sizes").
		Order("sales_count DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// GetSizeStock 查詢單一尺寸庫存
// 購物車加入/改量時的預檢用，最終正確性由結帳時的 ReserveSizeStock 保證
func (s *ProductDBRepo) GetSizeStock(ctx context.Context, productID string, size int) (uint, error) {
	return getSizeStock(ctx, s.db.DB, productID, size)
}

func getSizeStock(ctx context.Context, tx *gorm.DB, productID string, size int) (uint, error) {
	var sizeRow model.ProductSize
	err := tx.WithContext(ctx).
		Where("product_id = ? AND size = ?", productID, size).
		First(&sizeRow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 區分商品不存在與尺寸不存在
		var count int64
		if err := tx.WithContext(ctx).Model(&model.Product{}).
			Where("product_id = ?", productID).
			Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, ErrProductNotFound
		}
		return 0, ErrSizeNotExist
	}
	if err != nil {
		return 0, err
	}
	return sizeRow.Stock, nil
}

/*
ReserveSizeStockTx 原子性預留庫存

單一條件式 UPDATE: 只有在 stock >= quantity 時才扣減，
Postgres 會鎖住該列並以鎖定後的現值重新評估條件，
兩個併發預留不可能都看到同一個舊值 (不會超賣)。
同一交易內一併累加 sales_count。

呼叫端若需要多筆明細全部成功或全部取消，將多次呼叫包在同一個 tx 內。
*/
func ReserveSizeStockTx(ctx context.Context, tx *gorm.DB, productID string, size int, quantity uint) error {
	result := tx.WithContext(ctx).Model(&model.ProductSize{}).
		Where("product_id = ? AND size = ? AND stock >= ?", productID, size, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// 沒更新到任何列，再查一次區分失敗原因
		_, err := getSizeStock(ctx, tx, productID, size)
		if err != nil {
			return err
		}
		return ErrProductStockNotEnough
	}

	return tx.WithContext(ctx).Model(&model.Product{}).
		Where("product_id = ?", productID).
		Update("sales_count", gorm.Expr("sales_count + ?", quantity)).Error
}

// ReserveSizeStock 單獨使用時自帶交易
func (s *ProductDBRepo) ReserveSizeStock(ctx context.Context, productID string, size int, quantity uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return ReserveSizeStockTx(ctx, tx, productID, size, quantity)
	})
}

// Update - 增加尺寸庫存，尺寸不存在則新增一筆
func (s *ProductDBRepo) AddSizeStock(ctx context.Context, productID string, size int, quantity uint) (uint, error) {
	var currentStock uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sizeRow model.ProductSize
		err := tx.WithContext(ctx).
			Where("product_id = ? AND size = ?", productID, size).
			First(&sizeRow).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			var count int64
			if err := tx.WithContext(ctx).Model(&model.Product{}).
				Where("product_id = ?", productID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrProductNotFound
			}
			sizeRow = model.ProductSize{ProductID: productID, Size: size, Stock: quantity}
			currentStock = quantity
			return tx.WithContext(ctx).Create(&sizeRow).Error
		}
		if err != nil {
			return err
		}

		if err := tx.WithContext(ctx).Model(&model.ProductSize{}).
			Where("product_id = ? AND size = ?", productID, size).
			Update("stock", gorm.Expr("stock + ?", quantity)).Error; err != nil {
			return err
		}
		currentStock = sizeRow.Stock + quantity
		return nil
	})
	if err != nil {
		return 0, err
	}
	return currentStock, nil
}

// ReplaceSizes 後台整批覆蓋尺寸庫存
func (s *ProductDBRepo) ReplaceSizes(ctx context.Context, productID string, sizeRows []model.ProductSize) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&model.Product{}).
			Where("product_id = ?", productID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrProductNotFound
		}

		if err := tx.WithContext(ctx).
			Where("product_id = ?", productID).
			Delete(&model.ProductSize{}).Error; err != nil {
			return err
		}
		if len(sizeRows) == 0 {
			return nil
		}
		for i := range sizeRows {
			sizeRows[i].ProductID = productID
		}
		return tx.WithContext(ctx).Create(&sizeRows).Error
	})
}

// Update - 更新商品基本資料，不動尺寸庫存
func (s *ProductDBRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Omit("Sizes").Save(product).Error
}

// Delete - 硬刪除商品
func (s *ProductDBRepo) HardDeleteProduct(ctx context.Context, productID string) error {
	return s.db.WithContext(ctx).Unscoped().
		Delete(&model.Product{}, "product_id = ?", productID).Error
}

// Read - 查詢特價期間內的商品
func (s *ProductDBRepo) GetProductsOnSale(ctx context.Context, now time.Time) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Preload("Sizes").
		Where("discount_rate > 0").
		Where("sale_start IS NULL OR sale_start <= ?", now).
		Where("sale_end IS NULL OR sale_end >= ?", now).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}
