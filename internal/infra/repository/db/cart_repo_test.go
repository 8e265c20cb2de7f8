package db

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type CartRepoTestSuite struct {
	suite.Suite
	db       *gorm.DB
	cartRepo *CartRepo
}

func (suite *CartRepoTestSuite) SetupSuite() {
	db, err := GetDbConn("lab_shoeshop", "localhost", "5432", "royce", "password")
	require.NoError(suite.T(), err)

	dbDao := NewDbDao(db)
	require.NoError(suite.T(), dbDao.InitMigrate())

	suite.db = db
	suite.cartRepo = NewCartRepo(dbDao)
}

func (suite *CartRepoTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM cart_items")
	suite.db.Exec("DELETE FROM carts")
}

func (suite *CartRepoTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

// 第一次存取建立空車，第二次要拿到同一台
func (suite *CartRepoTestSuite) TestGetOrCreateCart_Idempotent() {
	cart, err := suite.cartRepo.GetOrCreateCart(context.Background(), 1)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 1, cart.UserID)
	require.Empty(suite.T(), cart.Items)

	again, err := suite.cartRepo.GetOrCreateCart(context.Background(), 1)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), cart.UserID, again.UserID)

	var count int64
	suite.db.Model(&model.Cart{}).Count(&count)
	require.Equal(suite.T(), int64(1), count)
}

func (suite *CartRepoTestSuite) TestGetItem_NotFound() {
	_, err := suite.cartRepo.GetOrCreateCart(context.Background(), 1)
	require.NoError(suite.T(), err)

	item, err := suite.cartRepo.GetItem(context.Background(), 1, "PROD-001", 250)

	require.ErrorIs(suite.T(), err, ErrCartItemNotFound)
	require.Nil(suite.T(), item)
}

func (suite *CartRepoTestSuite) TestCreateAndGetItem() {
	_, err := suite.cartRepo.GetOrCreateCart(context.Background(), 1)
	require.NoError(suite.T(), err)

	item := &model.CartItem{CartUserID: 1, ProductID: "PROD-001", Size: 250, Quantity: 2}
	require.NoError(suite.T(), suite.cartRepo.CreateItem(context.Background(), item))

	found, err := suite.cartRepo.GetItem(context.Background(), 1, "PROD-001", 250)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 2, found.Quantity)
}

// 同一 (user, product, size) 不允許兩筆明細
func (suite *CartRepoTestSuite) TestCreateItem_DuplicateLine() {
	_, err := suite.cartRepo.GetOrCreateCart(context.Background(), 1)
	require.NoError(suite.T(), err)

	item1 := &model.CartItem{CartUserID: 1, ProductID: "PROD-001", Size: 250, Quantity: 1}
	item2 := &model.CartItem{CartUserID: 1, ProductID: "PROD-001", Size: 250, Quantity: 2}

	require.NoError(suite.T(), suite.cartRepo.CreateItem(context.Background(), item1))
	require.Error(suite.T(), suite.cartRepo.CreateItem(context.Background(), item2))
}

// 拿別人的明細ID刪除要回 not found，不能刪到別人的東西
func (suite *CartRepoTestSuite) TestDeleteItem_WrongUser() {
	_, err := suite.cartRepo.GetOrCreateCart(context.Background(), 1)
	require.NoError(suite.T(), err)

	item := &model.CartItem{CartUserID: 1, ProductID: "PROD-001", Size: 250, Quantity: 1}
	require.NoError(suite.T(), suite.cartRepo.CreateItem(context.Background(), item))

	err = suite.cartRepo.DeleteItem(context.Background(), 2, item.ID)
	require.ErrorIs(suite.T(), err, ErrCartItemNotFound)

	// 明細還在
	_, err = suite.cartRepo.GetItem(context.Background(), 1, "PROD-001", 250)
	require.NoError(suite.T(), err)
}

func (suite *CartRepoTestSuite) TestClearCart() {
	_, err := suite.cartRepo.GetOrCreateCart(context.Background(), 1)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.cartRepo.CreateItem(context.Background(),
		&model.CartItem{CartUserID: 1, ProductID: "PROD-001", Size: 250, Quantity: 1}))
	require.NoError(suite.T(), suite.cartRepo.CreateItem(context.Background(),
		&model.CartItem{CartUserID: 1, ProductID: "PROD-002", Size: 260, Quantity: 1}))

	require.NoError(suite.T(), suite.cartRepo.ClearCart(context.Background(), 1))

	cart, err := suite.cartRepo.GetOrCreateCart(context.Background(), 1)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), cart.Items)
}

func TestCartRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CartRepoTestSuite))
}
