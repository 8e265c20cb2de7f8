package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/api/handler"
	"github.com/RoyceAzure/lab/shoeshop/internal/api/middleware"
	"github.com/RoyceAzure/lab/shoeshop/internal/api/router"
	"github.com/RoyceAzure/lab/shoeshop/internal/config"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/producer"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/shoeshop/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cf := config.GetConfig()

	conn, err := db.GetDbConn(cf.DbName, cf.DbHost, cf.DbPort, cf.DbUser, cf.DbPas)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db failed")
	}
	dao := db.NewUnifiedDB(conn)
	if err := dao.InitMigrate(); err != nil {
		logger.Fatal().Err(err).Msg("db migrate failed")
	}

	// redis 只做尺寸庫存讀快取，連不上也能跑，只是讀路徑全走 DB
	var productRepo db.IProductRepository = dao
	var invalidator service.CacheInvalidator
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cf.RedisAddr,
		Password: cf.RedisPassword,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, size stock cache disabled")
	} else {
		sizeCache := redis_repo.NewProductRedisRepo(redisClient)
		cacheRepo := redis_decorator.NewCacheAsideProductRepo(dao, sizeCache)
		productRepo = cacheRepo
		invalidator = cacheRepo

		if err := warmSizeCache(context.Background(), dao, sizeCache); err != nil {
			logger.Warn().Err(err).Msg("size stock cache warm up failed")
		}
	}

	// kafka 沒設定就不發訂單事件
	var orderProducer producer.IOrderEventProducer
	if brokers := cf.Brokers(); len(brokers) > 0 {
		orderProducer = producer.NewOrderEventProducer(brokers, cf.KafkaOrderTopic)
		defer orderProducer.Close()
	}

	userService := service.NewUserService(dao)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(dao, productRepo)
	orderService := service.NewOrderService(dao)
	reviewService := service.NewReviewService(dao, dao, dao)
	checkoutService := service.NewCheckoutService(dao, orderProducer, invalidator)

	sessions := middleware.NewSessionManager(cf.SessionKey)
	r := router.SetupRouter(router.Handlers{
		Auth:    handler.NewAuthHandler(userService, sessions),
		Product: handler.NewProductHandler(productService, reviewService),
		Cart:    handler.NewCartHandler(cartService),
		Order:   handler.NewOrderHandler(checkoutService, orderService),
		Review:  handler.NewReviewHandler(reviewService),
		Admin:   handler.NewAdminHandler(productService, orderService),
	}, sessions, &logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cf.ServerPort),
		Handler: r,
	}

	// 設置訊號監聽
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutDownCompleted := make(chan struct{}, 1)
	// 監聽退出訊號
	go func() {
		<-sigChan
		logger.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}
		shutDownCompleted <- struct{}{}
	}()

	logger.Info().Str("port", cf.ServerPort).Msg("server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}

	<-shutDownCompleted
	logger.Info().Msg("server stopped")
}

// warmSizeCache 啟動時把現有尺寸庫存灌進快取，逐商品併發
func warmSizeCache(ctx context.Context, dao db.UnifiedDB, cache redis_repo.IProductSizeCache) error {
	products, err := dao.GetAllProducts(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, product := range products {
		sizes := product.Sizes
		g.Go(func() error {
			for _, s := range sizes {
				if err := cache.SetSizeStock(gctx, s.ProductID, s.Size, s.Stock); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
