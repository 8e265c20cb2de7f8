package db

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrOrderNotFound 訂單不存在
var ErrOrderNotFound = errors.New("order not found")

// 訂單是 append-only，只有 Create 與查詢，沒有 Update / Delete
type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create - 建立訂單 (含明細快照)
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return CreateOrderTx(ctx, s.db.DB, order)
}

// CreateOrderTx 供結帳交易使用，與庫存預留、清空購物車同一個 tx
func CreateOrderTx(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

// Read - 依ID查詢訂單
func (s *OrderRepo) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Read - 使用者的訂單，付款時間新到舊
func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("paid_at DESC").
		Find(&orders).Error
	return orders, err
}

// HasPurchasedProduct 訂單明細內是否買過該商品，評價的購買門檻用
func (s *OrderRepo) HasPurchasedProduct(ctx context.Context, userID int, productID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.order_id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SalesSummary 後台銷售彙總
type SalesSummary struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalOrders   int64           `json:"total_orders"`
}

// GetSalesSummary 區間內的營收/銷量/訂單數，以訂單明細快照彙總
func (s *OrderRepo) GetSalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, error) {
	query := s.db.WithContext(ctx).Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.order_id = order_items.order_id")
	if from != nil {
		query = query.Where("orders.paid_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("orders.paid_at <= ?", *to)
	}

	var summary SalesSummary
	err := query.
		Select("COALESCE(SUM(order_items.line_total), 0) as total_revenue, " +
			"COALESCE(SUM(order_items.quantity), 0) as total_quantity, " +
			"COUNT(DISTINCT order_items.order_id) as total_orders").
		Row().
		Scan(&summary.TotalRevenue, &summary.TotalQuantity, &summary.TotalOrders)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ProductSales 單一商品的銷售統計
type ProductSales struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	SoldQty   int64           `json:"sold_qty"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// GetProductSales 依商品彙總銷量與營收，營收高在前
func (s *OrderRepo) GetProductSales(ctx context.Context, from, to *time.Time, limit int) ([]ProductSales, error) {
	query := s.db.WithContext(ctx).Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.order_id = order_items.order_id")
	if from != nil {
		query = query.Where("orders.paid_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("orders.paid_at <= ?", *to)
	}

	var rows []ProductSales
	err := query.
		Select("order_items.product_id as product_id, " +
			"MAX(order_items.name_snapshot) as name, " +
			"SUM(order_items.quantity) as sold_qty, " +
			"SUM(order_items.line_total) as revenue").
		Group("order_items.product_id").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
