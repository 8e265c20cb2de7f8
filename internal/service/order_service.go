package service

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/db"
)

type IOrderService interface {
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error)
	GetSalesSummary(ctx context.Context, from, to *time.Time) (*db.SalesSummary, error)
	GetProductSales(ctx context.Context, from, to *time.Time, limit int) ([]db.ProductSales, error)
}

// OrderService 訂單查詢與後台銷售報表
// 訂單建立只會發生在 CheckoutService 的交易內
type OrderService struct {
	orderRepo db.IOrderRepository
}

func NewOrderService(orderRepo db.IOrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

func (o *OrderService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return o.orderRepo.GetOrderByID(ctx, orderID)
}

func (o *OrderService) GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error) {
	return o.orderRepo.GetOrdersByUserID(ctx, userID)
}

func (o *OrderService) GetSalesSummary(ctx context.Context, from, to *time.Time) (*db.SalesSummary, error) {
	return o.orderRepo.GetSalesSummary(ctx, from, to)
}

func (o *OrderService) GetProductSales(ctx context.Context, from, to *time.Time, limit int) ([]db.ProductSales, error) {
	if limit <= 0 {
		limit = 10
	}
	return o.orderRepo.GetProductSales(ctx, from, to, limit)
}

var _ IOrderService = (*OrderService)(nil)
