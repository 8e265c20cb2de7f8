package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// fakeOrderProducer 收集發佈的訂單，發佈發生在 goroutine，用 channel 等
type fakeOrderProducer struct {
	published chan *model.Order
}

func newFakeOrderProducer() *fakeOrderProducer {
	return &fakeOrderProducer{published: make(chan *model.Order, 10)}
}

func (f *fakeOrderProducer) OrderCreated(ctx context.Context, order *model.Order) error {
	f.published <- order
	return nil
}

func (f *fakeOrderProducer) Close() error { return nil }

func (f *fakeOrderProducer) waitPublished(t *testing.T) *model.Order {
	select {
	case order := <-f.published:
		return order
	case <-time.After(3 * time.Second):
		t.Fatal("order event not published")
		return nil
	}
}

// fakeInvalidator 收集失效的商品ID
type fakeInvalidator struct {
	mu          sync.Mutex
	invalidated []string
}

func (f *fakeInvalidator) Invalidate(productID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, productID)
}

type CheckoutServiceTestSuite struct {
	suite.Suite
	dao         db.UnifiedDB
	producer    *fakeOrderProducer
	invalidator *fakeInvalidator
	service     *CheckoutService
	userID      int
}

func (suite *CheckoutServiceTestSuite) SetupSuite() {
	conn, err := db.GetDbConn("lab_shoeshop", "localhost", "5432", "royce", "password")
	require.NoError(suite.T(), err)

	suite.dao = db.NewUnifiedDB(conn)
	require.NoError(suite.T(), suite.dao.InitMigrate())
}

func (suite *CheckoutServiceTestSuite) SetupTest() {
	conn := suite.dao.GetDB()
	conn.Exec("DELETE FROM order_items")
	conn.Exec("DELETE FROM orders")
	conn.Exec("DELETE FROM cart_items")
	conn.Exec("DELETE FROM carts")
	conn.Exec("DELETE FROM product_sizes")
	conn.Exec("DELETE FROM products")
	conn.Exec("DELETE FROM users")

	user := &model.User{
		UserName:       "buyer",
		UserEmail:      "buyer@example.com",
		HashedPassword: "hashed",
	}
	require.NoError(suite.T(), suite.dao.CreateUser(context.Background(), user))
	suite.userID = user.UserID

	suite.producer = newFakeOrderProducer()
	suite.invalidator = &fakeInvalidator{}
	suite.service = NewCheckoutService(suite.dao, suite.producer, suite.invalidator)
}

func (suite *CheckoutServiceTestSuite) TearDownSuite() {
	sqlDB, _ := suite.dao.GetDB().DB()
	sqlDB.Close()
}

func (suite *CheckoutServiceTestSuite) createProduct(productID string, basePrice int64, discountRate uint, sizes map[int]uint) {
	sizeRows := make([]model.ProductSize, 0, len(sizes))
	for size, stock := range sizes {
		sizeRows = append(sizeRows, model.ProductSize{Size: size, Stock: stock})
	}
	product := &model.Product{
		ProductID:    productID,
		Name:         "Shoe " + productID,
		Short:        "shoe",
		Category:     model.CategoryLifestyle,
		BasePrice:    decimal.NewFromInt(basePrice),
		DiscountRate: discountRate,
		Sizes:        sizeRows,
	}
	require.NoError(suite.T(), suite.dao.CreateProduct(context.Background(), product))
}

func (suite *CheckoutServiceTestSuite) addCartItem(productID string, size, quantity int) {
	_, err := suite.dao.GetOrCreateCart(context.Background(), suite.userID)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.dao.CreateItem(context.Background(), &model.CartItem{
		CartUserID: suite.userID,
		ProductID:  productID,
		Size:       size,
		Quantity:   quantity,
	}))
}

func (suite *CheckoutServiceTestSuite) getStock(productID string, size int) uint {
	stock, err := suite.dao.GetSizeStock(context.Background(), productID, size)
	require.NoError(suite.T(), err)
	return stock
}

func (suite *CheckoutServiceTestSuite) cartItemCount() int {
	cart, err := suite.dao.GetOrCreateCart(context.Background(), suite.userID)
	require.NoError(suite.T(), err)
	return len(cart.Items)
}

func (suite *CheckoutServiceTestSuite) orderCount() int64 {
	var count int64
	suite.dao.GetDB().Model(&model.Order{}).Count(&count)
	return count
}

func (suite *CheckoutServiceTestSuite) TestCheckout_Success() {
	suite.createProduct("PROD-001", 4000, 0, map[int]uint{250: 2})
	suite.addCartItem("PROD-001", 250, 2)

	order, err := suite.service.Checkout(context.Background(), suite.userID)

	require.NoError(suite.T(), err)
	require.NotEmpty(suite.T(), order.OrderID)
	require.Len(suite.T(), order.Items, 1)
	require.Equal(suite.T(), "Shoe PROD-001", order.Items[0].NameSnapshot)
	require.True(suite.T(), decimal.NewFromInt(4000).Equal(order.Items[0].UnitPrice))
	require.True(suite.T(), decimal.NewFromInt(8000).Equal(order.TotalAmount))

	// 庫存扣光、購物車清空
	require.Equal(suite.T(), uint(0), suite.getStock("PROD-001", 250))
	require.Equal(suite.T(), 0, suite.cartItemCount())

	// 提交後發事件、失效快取
	published := suite.producer.waitPublished(suite.T())
	require.Equal(suite.T(), order.OrderID, published.OrderID)
	require.Contains(suite.T(), suite.invalidator.invalidated, "PROD-001")
}

// 結帳收費價用折扣後單價
func (suite *CheckoutServiceTestSuite) TestCheckout_DiscountApplied() {
	suite.createProduct("PROD-001", 4000, 25, map[int]uint{250: 5})
	suite.addCartItem("PROD-001", 250, 2)

	order, err := suite.service.Checkout(context.Background(), suite.userID)

	require.NoError(suite.T(), err)
	require.True(suite.T(), decimal.NewFromInt(3000).Equal(order.Items[0].UnitPrice))
	require.True(suite.T(), decimal.NewFromInt(6000).Equal(order.TotalAmount))
}

func (suite *CheckoutServiceTestSuite) TestCheckout_EmptyCart() {
	_, err := suite.service.Checkout(context.Background(), suite.userID)

	require.ErrorIs(suite.T(), err, ErrEmptyCart)
	require.Equal(suite.T(), int64(0), suite.orderCount())
}

func (suite *CheckoutServiceTestSuite) TestCheckout_NoCartYet() {
	// 連購物車都還沒建立過
	_, err := suite.service.Checkout(context.Background(), suite.userID)

	require.ErrorIs(suite.T(), err, ErrEmptyCart)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_OutOfStock() {
	suite.createProduct("PROD-001", 4000, 0, map[int]uint{250: 2})
	suite.addCartItem("PROD-001", 250, 3)

	_, err := suite.service.Checkout(context.Background(), suite.userID)

	require.ErrorIs(suite.T(), err, ErrOutOfStock)
	// 庫存與購物車都不能有淨異動
	require.Equal(suite.T(), uint(2), suite.getStock("PROD-001", 250))
	require.Equal(suite.T(), 1, suite.cartItemCount())
	require.Equal(suite.T(), int64(0), suite.orderCount())
}

// 多筆明細，第二筆預留失敗，第一筆已扣的庫存要跟著 rollback
func (suite *CheckoutServiceTestSuite) TestCheckout_MultiLineRollback() {
	suite.createProduct("PROD-001", 4000, 0, map[int]uint{250: 10})
	suite.createProduct("PROD-002", 3000, 0, map[int]uint{260: 1})
	suite.addCartItem("PROD-001", 250, 2)
	suite.addCartItem("PROD-002", 260, 5)

	_, err := suite.service.Checkout(context.Background(), suite.userID)

	require.ErrorIs(suite.T(), err, ErrOutOfStock)
	require.Equal(suite.T(), uint(10), suite.getStock("PROD-001", 250))
	require.Equal(suite.T(), uint(1), suite.getStock("PROD-002", 260))
	require.Equal(suite.T(), 2, suite.cartItemCount())
	require.Equal(suite.T(), int64(0), suite.orderCount())
}

// 結帳成功後再送一次，購物車已空，自然回空車錯誤
func (suite *CheckoutServiceTestSuite) TestCheckout_Resubmit() {
	suite.createProduct("PROD-001", 4000, 0, map[int]uint{250: 5})
	suite.addCartItem("PROD-001", 250, 1)

	_, err := suite.service.Checkout(context.Background(), suite.userID)
	require.NoError(suite.T(), err)

	_, err = suite.service.Checkout(context.Background(), suite.userID)
	require.ErrorIs(suite.T(), err, ErrEmptyCart)
	require.Equal(suite.T(), int64(1), suite.orderCount())
}

// 下單後改名改價，歷史訂單的快照不能動
func (suite *CheckoutServiceTestSuite) TestCheckout_SnapshotImmutable() {
	suite.createProduct("PROD-001", 4000, 0, map[int]uint{250: 5})
	suite.addCartItem("PROD-001", 250, 1)

	order, err := suite.service.Checkout(context.Background(), suite.userID)
	require.NoError(suite.T(), err)

	product, err := suite.dao.GetProductByID(context.Background(), "PROD-001")
	require.NoError(suite.T(), err)
	product.Name = "Renamed Shoe"
	product.BasePrice = decimal.NewFromInt(9999)
	require.NoError(suite.T(), suite.dao.UpdateProduct(context.Background(), product))

	found, err := suite.dao.GetOrderByID(context.Background(), order.OrderID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "Shoe PROD-001", found.Items[0].NameSnapshot)
	require.True(suite.T(), decimal.NewFromInt(4000).Equal(found.Items[0].UnitPrice))
}

// producer / invalidator 都是 nil 也要能結帳
func (suite *CheckoutServiceTestSuite) TestCheckout_WithoutProducerAndCache() {
	suite.createProduct("PROD-001", 4000, 0, map[int]uint{250: 5})
	suite.addCartItem("PROD-001", 250, 1)

	service := NewCheckoutService(suite.dao, nil, nil)
	order, err := service.Checkout(context.Background(), suite.userID)

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), order)
}

func TestCheckoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}
