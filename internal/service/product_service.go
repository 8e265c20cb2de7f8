package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shoeshop/internal/pkg/sizes"
	"github.com/RoyceAzure/lab/shoeshop/internal/pkg/util"
	"github.com/shopspring/decimal"
)

type ProductError error

var (
	// ErrInvalidProduct 商品資料不完整
	ErrInvalidProduct ProductError = errors.New("invalid product data")
	// ErrInvalidCategory 未知分類
	ErrInvalidCategory ProductError = errors.New("invalid category")
)

// CategorySale 虛擬分類，回傳特價期間內的商品
const CategorySale = "SALE"

type IProductService interface {
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListByCategory(ctx context.Context, category string) ([]model.Product, error)
	ListPopular(ctx context.Context, limit int) ([]model.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*model.Product, error)
	ReplaceSizes(ctx context.Context, productID string, sizesInput string) (*model.Product, error)
	AddSizeStock(ctx context.Context, productID string, size int, quantity uint) (uint, error)
	DeleteProduct(ctx context.Context, productID string) error
}

type ProductService struct {
	productRepo db.IProductRepository
}

func NewProductService(productRepo db.IProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

func (s *ProductService) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	return s.productRepo.GetProductByID(ctx, productID)
}

func (s *ProductService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.GetAllProducts(ctx)
}

// ListByCategory 分類瀏覽
// SALE 是衍生分類: 折扣中且在特價時窗內，時窗只在這裡生效，不影響售價
func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	normalized := strings.ToUpper(strings.TrimSpace(category))
	switch normalized {
	case CategorySale:
		return s.productRepo.GetProductsOnSale(ctx, time.Now().UTC())
	case model.CategoryLifestyle, model.CategorySlipon:
		return s.productRepo.GetProductsByCategory(ctx, normalized)
	default:
		return nil, ErrInvalidCategory
	}
}

func (s *ProductService) ListPopular(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	return s.productRepo.GetPopularProducts(ctx, limit)
}

// CreateProductInput 後台建立商品的輸入
type CreateProductInput struct {
	Name         string
	Short        string
	Description  string
	Category     string
	Gender       string
	BasePrice    decimal.Decimal
	DiscountRate uint
	SaleStart    *time.Time
	SaleEnd      *time.Time
	Sizes        string // "250:10,260:0" 或 JSON 陣列
}

func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*model.Product, error) {
	if input.Name == "" || !input.BasePrice.IsPositive() {
		return nil, ErrInvalidProduct
	}
	if input.DiscountRate > 100 {
		return nil, ErrInvalidProduct
	}
	category := strings.ToUpper(strings.TrimSpace(input.Category))
	if category != model.CategoryLifestyle && category != model.CategorySlipon {
		return nil, ErrInvalidCategory
	}

	parsed, err := sizes.Parse(input.Sizes)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		ProductID:    util.GenerateProductID(),
		Name:         input.Name,
		Short:        input.Short,
		Description:  input.Description,
		Category:     category,
		Gender:       input.Gender,
		BasePrice:    input.BasePrice,
		DiscountRate: input.DiscountRate,
		SaleStart:    input.SaleStart,
		SaleEnd:      input.SaleEnd,
	}
	for _, row := range parsed {
		product.Sizes = append(product.Sizes, model.ProductSize{
			ProductID: product.ProductID,
			Size:      row.Size,
			Stock:     row.Stock,
		})
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductInput 後台更新商品，nil 表示不變更
type UpdateProductInput struct {
	Name         *string
	Short        *string
	Description  *string
	BasePrice    *decimal.Decimal
	DiscountRate *uint
	SaleStart    *time.Time
	SaleEnd      *time.Time
}

// UpdateProduct 更新商品基本資料，尺寸庫存走 ReplaceSizes / AddSizeStock
// 已出訂單不受影響，快照隔離在 OrderItem
func (s *ProductService) UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*model.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Short != nil {
		product.Short = *input.Short
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.BasePrice != nil {
		if !input.BasePrice.IsPositive() {
			return nil, ErrInvalidProduct
		}
		product.BasePrice = *input.BasePrice
	}
	if input.DiscountRate != nil {
		if *input.DiscountRate > 100 {
			return nil, ErrInvalidProduct
		}
		product.DiscountRate = *input.DiscountRate
	}
	if input.SaleStart != nil {
		product.SaleStart = input.SaleStart
	}
	if input.SaleEnd != nil {
		product.SaleEnd = input.SaleEnd
	}

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetProductByID(ctx, productID)
}

// ReplaceSizes 後台整批覆蓋尺寸庫存，輸入解析失敗不會動到任何資料
func (s *ProductService) ReplaceSizes(ctx context.Context, productID string, sizesInput string) (*model.Product, error) {
	parsed, err := sizes.Parse(sizesInput)
	if err != nil {
		return nil, err
	}

	sizeRows := make([]model.ProductSize, 0, len(parsed))
	for _, row := range parsed {
		sizeRows = append(sizeRows, model.ProductSize{
			ProductID: productID,
			Size:      row.Size,
			Stock:     row.Stock,
		})
	}

	if err := s.productRepo.ReplaceSizes(ctx, productID, sizeRows); err != nil {
		return nil, err
	}
	return s.productRepo.GetProductByID(ctx, productID)
}

func (s *ProductService) AddSizeStock(ctx context.Context, productID string, size int, quantity uint) (uint, error) {
	return s.productRepo.AddSizeStock(ctx, productID, size, quantity)
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID string) error {
	return s.productRepo.HardDeleteProduct(ctx, productID)
}

var _ IProductService = (*ProductService)(nil)
