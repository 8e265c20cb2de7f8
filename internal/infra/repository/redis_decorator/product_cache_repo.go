package redis_decorator

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog/log"
)

/*
Cache-aside 裝飾器，只加速 GetSizeStock 這條讀路徑
(購物車加入/改量時的預檢查詢量遠大於庫存異動)

庫存異動 (預留/後台編輯) 全走 DB，成功後使該商品快取失效；
失效失敗只重試一次，快取最多短暫落後，結帳正確性不依賴它
*/
type CacheAsideProductRepo struct {
	db.IProductRepository
	cache redis_repo.IProductSizeCache
}

func NewCacheAsideProductRepo(dbRepo db.IProductRepository, cache redis_repo.IProductSizeCache) *CacheAsideProductRepo {
	return &CacheAsideProductRepo{IProductRepository: dbRepo, cache: cache}
}

func (p *CacheAsideProductRepo) GetSizeStock(ctx context.Context, productID string, size int) (uint, error) {
	stock, err := p.cache.GetSizeStock(ctx, productID, size)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, redis_repo.ErrStockNotCached) {
		log.Warn().Err(err).Str("product_id", productID).Msg("size stock cache read failed")
	}

	stock, err = p.IProductRepository.GetSizeStock(ctx, productID, size)
	if err != nil {
		return 0, err
	}

	if err := p.cache.SetSizeStock(ctx, productID, size, stock); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("size stock cache backfill failed")
	}
	return stock, nil
}

func (p *CacheAsideProductRepo) ReserveSizeStock(ctx context.Context, productID string, size int, quantity uint) error {
	if err := p.IProductRepository.ReserveSizeStock(ctx, productID, size, quantity); err != nil {
		return err
	}
	p.invalidate(productID)
	return nil
}

func (p *CacheAsideProductRepo) AddSizeStock(ctx context.Context, productID string, size int, quantity uint) (uint, error) {
	stock, err := p.IProductRepository.AddSizeStock(ctx, productID, size, quantity)
	if err != nil {
		return 0, err
	}
	p.invalidate(productID)
	return stock, nil
}

func (p *CacheAsideProductRepo) ReplaceSizes(ctx context.Context, productID string, sizeRows []model.ProductSize) error {
	if err := p.IProductRepository.ReplaceSizes(ctx, productID, sizeRows); err != nil {
		return err
	}
	p.invalidate(productID)
	return nil
}

func (p *CacheAsideProductRepo) HardDeleteProduct(ctx context.Context, productID string) error {
	if err := p.IProductRepository.HardDeleteProduct(ctx, productID); err != nil {
		return err
	}
	p.invalidate(productID)
	return nil
}

// Invalidate 給結帳協調者在交易提交後呼叫
func (p *CacheAsideProductRepo) Invalidate(productID string) {
	p.invalidate(productID)
}

func (p *CacheAsideProductRepo) invalidate(productID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.cache.DeleteProductSizes(ctx, productID); err != nil {
		go func() {
			time.Sleep(500 * time.Millisecond)
			retryCtx, retryCancel := context.WithTimeout(context.Background(), time.Second)
			defer retryCancel()
			if err := p.cache.DeleteProductSizes(retryCtx, productID); err != nil {
				log.Error().Err(err).Str("product_id", productID).Msg("size stock cache invalidate failed")
			}
		}()
	}
}

var _ db.IProductRepository = (*CacheAsideProductRepo)(nil)
