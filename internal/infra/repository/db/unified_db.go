package db

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"gorm.io/gorm"
)

// UnifiedDB 統一的資料庫介面
type UnifiedDB interface {
	// 基礎操作
	GetDB() *gorm.DB
	Transaction(fc func(tx *gorm.DB) error) error
	InitMigrate() error

	// Product 相關操作 (含庫存帳)
	IProductRepository

	// Cart 相關操作
	ICartRepository

	// Order 相關操作
	IOrderRepository

	// User 相關操作
	IUserRepository

	// Review 相關操作
	IReviewRepository
}

// IProductRepository Product 相關操作介面
// 庫存的唯一異動點是 ReserveSizeStock 與後台的 AddSizeStock / ReplaceSizes
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID string) (*model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
	GetProductsOnSale(ctx context.Context, now time.Time) ([]model.Product, error)
	GetPopularProducts(ctx context.Context, limit int) ([]model.Product, error)
	GetSizeStock(ctx context.Context, productID string, size int) (uint, error)
	ReserveSizeStock(ctx context.Context, productID string, size int, quantity uint) error
	AddSizeStock(ctx context.Context, productID string, size int, quantity uint) (uint, error)
	ReplaceSizes(ctx context.Context, productID string, sizeRows []model.ProductSize) error
	UpdateProduct(ctx context.Context, product *model.Product) error
	HardDeleteProduct(ctx context.Context, productID string) error
}

// ICartRepository Cart 相關操作介面
type ICartRepository interface {
	GetOrCreateCart(ctx context.Context, userID int) (*model.Cart, error)
	GetItem(ctx context.Context, userID int, productID string, size int) (*model.CartItem, error)
	CreateItem(ctx context.Context, item *model.CartItem) error
	UpdateItem(ctx context.Context, item *model.CartItem) error
	DeleteItem(ctx context.Context, userID int, itemID uint) error
	ClearCart(ctx context.Context, userID int) error
}

// IOrderRepository Order 相關操作介面，append-only
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, orderID string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error)
	GetSalesSummary(ctx context.Context, from, to *time.Time) (*SalesSummary, error)
	GetProductSales(ctx context.Context, from, to *time.Time, limit int) ([]ProductSales, error)
	HasPurchasedProduct(ctx context.Context, userID int, productID string) (bool, error)
}

// IUserRepository User 相關操作介面
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, userID int) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// IReviewRepository Review 相關操作介面
type IReviewRepository interface {
	CreateReview(ctx context.Context, review *model.Review) error
	GetReviewsByProduct(ctx context.Context, productID string) ([]ReviewWithUser, error)
}

// UnifiedDBImpl 統一資料庫實現
type UnifiedDBImpl struct {
	db    *gorm.DB
	dbDao *DbDao
	*ProductDBRepo
	*CartRepo
	*OrderRepo
	*UserRepo
	*ReviewRepo
}

// NewUnifiedDB 創建新的統一資料庫實例
func NewUnifiedDB(conn *gorm.DB) *UnifiedDBImpl {
	dbDao := NewDbDao(conn)
	return &UnifiedDBImpl{
		db:            conn,
		dbDao:         dbDao,
		ProductDBRepo: NewProductDBRepo(dbDao),
		CartRepo:      NewCartRepo(dbDao),
		OrderRepo:     NewOrderRepo(dbDao),
		UserRepo:      NewUserRepo(dbDao),
		ReviewRepo:    NewReviewRepo(dbDao),
	}
}

func (u *UnifiedDBImpl) InitMigrate() error {
	return u.dbDao.InitMigrate()
}

// GetDB 獲取資料庫連接
func (u *UnifiedDBImpl) GetDB() *gorm.DB {
	return u.db
}

// Transaction 開啟交易，結帳協調者用它包住整個預留/下單/清車流程
func (u *UnifiedDBImpl) Transaction(fc func(tx *gorm.DB) error) error {
	return u.db.Transaction(fc)
}

var _ UnifiedDB = (*UnifiedDBImpl)(nil)
