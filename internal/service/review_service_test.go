package service

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ReviewServiceTestSuite struct {
	suite.Suite
	dao     db.UnifiedDB
	service *ReviewService
	userID  int
}

func (suite *ReviewServiceTestSuite) SetupSuite() {
	conn, err := db.GetDbConn("lab_shoeshop", "localhost", "5432", "royce", "password")
	require.NoError(suite.T(), err)

	suite.dao = db.NewUnifiedDB(conn)
	require.NoError(suite.T(), suite.dao.InitMigrate())
	suite.service = NewReviewService(suite.dao, suite.dao, suite.dao)
}

func (suite *ReviewServiceTestSuite) SetupTest() {
	conn := suite.dao.GetDB()
	conn.Exec("DELETE FROM reviews")
	conn.Exec("DELETE FROM order_items")
	conn.Exec("DELETE FROM orders")
	conn.Exec("DELETE FROM product_sizes")
	conn.Exec("DELETE FROM products")
	conn.Exec("DELETE FROM users")

	user := &model.User{
		UserName:       "reviewer",
		UserEmail:      "reviewer@example.com",
		HashedPassword: "hashed",
	}
	require.NoError(suite.T(), suite.dao.CreateUser(context.Background(), user))
	suite.userID = user.UserID

	product := &model.Product{
		ProductID: "PROD-001",
		Name:      "Canvas Low",
		Short:     "canvas low top",
		Category:  model.CategoryLifestyle,
		BasePrice: decimal.NewFromInt(4000),
		Sizes:     []model.ProductSize{{Size: 250, Stock: 10}},
	}
	require.NoError(suite.T(), suite.dao.CreateProduct(context.Background(), product))
}

func (suite *ReviewServiceTestSuite) TearDownSuite() {
	sqlDB, _ := suite.dao.GetDB().DB()
	sqlDB.Close()
}

// 建一筆含該商品的訂單，當作購買紀錄
func (suite *ReviewServiceTestSuite) createPurchase(orderID, productID string) {
	price := decimal.NewFromInt(4000)
	order := &model.Order{
		OrderID:     orderID,
		UserID:      suite.userID,
		TotalAmount: price,
		PaidAt:      time.Now().UTC(),
		Items: []model.OrderItem{{
			ProductID:    productID,
			Size:         250,
			NameSnapshot: "Canvas Low",
			Quantity:     1,
			UnitPrice:    price,
			LineTotal:    price,
		}},
	}
	require.NoError(suite.T(), suite.dao.CreateOrder(context.Background(), order))
}

// 沒買過不能寫評價
func (suite *ReviewServiceTestSuite) TestWriteReview_RequiresPurchase() {
	_, err := suite.service.WriteReview(context.Background(), suite.userID, "PROD-001", 5, "great shoe")

	require.ErrorIs(suite.T(), err, ErrReviewNotAllowed)

	reviews, err := suite.service.ListByProduct(context.Background(), "PROD-001")
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), reviews)
}

func (suite *ReviewServiceTestSuite) TestWriteReview_AfterPurchase() {
	suite.createPurchase("ORD-001", "PROD-001")

	review, err := suite.service.WriteReview(context.Background(), suite.userID, "PROD-001", 4, "comfortable")

	require.NoError(suite.T(), err)
	require.NotZero(suite.T(), review.ID)

	reviews, err := suite.service.ListByProduct(context.Background(), "PROD-001")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), reviews, 1)
	require.Equal(suite.T(), "reviewer", reviews[0].UserName)
	require.Equal(suite.T(), 4, reviews[0].Rating)
	require.Equal(suite.T(), "comfortable", reviews[0].Comment)
}

func (suite *ReviewServiceTestSuite) TestWriteReview_InvalidInput() {
	suite.createPurchase("ORD-001", "PROD-001")

	_, err := suite.service.WriteReview(context.Background(), suite.userID, "PROD-001", 0, "too low")
	require.ErrorIs(suite.T(), err, ErrInvalidReview)

	_, err = suite.service.WriteReview(context.Background(), suite.userID, "PROD-001", 6, "too high")
	require.ErrorIs(suite.T(), err, ErrInvalidReview)

	_, err = suite.service.WriteReview(context.Background(), suite.userID, "PROD-001", 3, "   ")
	require.ErrorIs(suite.T(), err, ErrInvalidReview)

	_, err = suite.service.WriteReview(context.Background(), suite.userID, "", 3, "ok")
	require.ErrorIs(suite.T(), err, ErrInvalidReview)
}

func (suite *ReviewServiceTestSuite) TestWriteReview_ProductNotFound() {
	_, err := suite.service.WriteReview(context.Background(), suite.userID, "PROD-NOT-EXIST", 3, "ok")

	require.ErrorIs(suite.T(), err, db.ErrProductNotFound)
}

// 評價要新到舊
func (suite *ReviewServiceTestSuite) TestListByProduct_SortedByCreatedAt() {
	suite.createPurchase("ORD-001", "PROD-001")

	first, err := suite.service.WriteReview(context.Background(), suite.userID, "PROD-001", 3, "first")
	require.NoError(suite.T(), err)

	// created_at 有先後差異
	suite.dao.GetDB().Model(&model.Review{}).
		Where("id = ?", first.ID).
		Update("created_at", time.Now().UTC().Add(-time.Hour))

	_, err = suite.service.WriteReview(context.Background(), suite.userID, "PROD-001", 5, "second")
	require.NoError(suite.T(), err)

	reviews, err := suite.service.ListByProduct(context.Background(), "PROD-001")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), reviews, 2)
	require.Equal(suite.T(), "second", reviews[0].Comment)
	require.Equal(suite.T(), "first", reviews[1].Comment)
}

// 別的商品的評價不能混進來
func (suite *ReviewServiceTestSuite) TestListByProduct_FiltersByProduct() {
	other := &model.Product{
		ProductID: "PROD-002",
		Name:      "Slip On",
		Short:     "slip on",
		Category:  model.CategorySlipon,
		BasePrice: decimal.NewFromInt(3000),
		Sizes:     []model.ProductSize{{Size: 250, Stock: 5}},
	}
	require.NoError(suite.T(), suite.dao.CreateProduct(context.Background(), other))
	suite.createPurchase("ORD-001", "PROD-001")

	_, err := suite.service.WriteReview(context.Background(), suite.userID, "PROD-001", 5, "great")
	require.NoError(suite.T(), err)

	reviews, err := suite.service.ListByProduct(context.Background(), "PROD-002")
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), reviews)
}

func TestReviewServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceTestSuite))
}
