package redis_repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// IProductSizeCache 定義 Redis 尺寸庫存快取的介面
type IProductSizeCache interface {
	// SetSizeStock 寫入單一尺寸庫存
	SetSizeStock(ctx context.Context, productID string, size int, stock uint) error

	// GetSizeStock 讀取單一尺寸庫存，未快取回傳 ErrStockNotCached
	GetSizeStock(ctx context.Context, productID string, size int) (uint, error)

	// DeleteProductSizes 清掉整個商品的尺寸快取 (商品或庫存異動後失效)
	DeleteProductSizes(ctx context.Context, productID string) error
}

type ProductCacheError error

// ErrStockNotCached 快取內沒有該尺寸庫存
var ErrStockNotCached ProductCacheError = errors.New("size stock not cached")

/*
redis 只做讀路徑的庫存快取
庫存真相來源在 Postgres，結帳預留永遠直接打 DB
結構:

	product:{id}:sizes: {
		"250": 10,
		"260": 0,
	}
*/
type ProductRedisRepo struct {
	productCache *redis.Client
}

func NewProductRedisRepo(productCache *redis.Client) *ProductRedisRepo {
	return &ProductRedisRepo{productCache: productCache}
}

func generateProductSizesKey(productID string) string {
	return fmt.Sprintf("product:%s:sizes", productID)
}

func (s *ProductRedisRepo) SetSizeStock(ctx context.Context, productID string, size int, stock uint) error {
	redisKey := generateProductSizesKey(productID)
	return s.productCache.HSet(ctx, redisKey, strconv.Itoa(size), stock).Err()
}

func (s *ProductRedisRepo) GetSizeStock(ctx context.Context, productID string, size int) (uint, error) {
	redisKey := generateProductSizesKey(productID)
	stock, err := s.productCache.HGet(ctx, redisKey, strconv.Itoa(size)).Result()
	if err == redis.Nil {
		return 0, ErrStockNotCached
	}
	if err != nil {
		return 0, err
	}

	stockInt, err := strconv.ParseUint(stock, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(stockInt), nil
}

func (s *ProductRedisRepo) DeleteProductSizes(ctx context.Context, productID string) error {
	redisKey := generateProductSizesKey(productID)
	return s.productCache.Del(ctx, redisKey).Err()
}

var _ IProductSizeCache = (*ProductRedisRepo)(nil)
