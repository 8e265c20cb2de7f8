package service

import (
	"context"
	"errors"
	"strings"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/db"
)

type ReviewError error

var (
	// ErrInvalidReview 評價內容不完整或評分超出 1~5
	ErrInvalidReview ReviewError = errors.New("invalid review data")
	// ErrReviewNotAllowed 沒買過該商品不能寫評價
	ErrReviewNotAllowed ReviewError = errors.New("only purchasers can review this product")
)

type IReviewService interface {
	ListByProduct(ctx context.Context, productID string) ([]db.ReviewWithUser, error)
	WriteReview(ctx context.Context, userID int, productID string, rating int, comment string) (*model.Review, error)
}

// ReviewService 商品評價
// 寫入前以訂單明細檢查購買門檻，查詢公開
type ReviewService struct {
	reviewRepo  db.IReviewRepository
	orderRepo   db.IOrderRepository
	productRepo db.IProductRepository
}

func NewReviewService(reviewRepo db.IReviewRepository, orderRepo db.IOrderRepository, productRepo db.IProductRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, orderRepo: orderRepo, productRepo: productRepo}
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]db.ReviewWithUser, error) {
	return s.reviewRepo.GetReviewsByProduct(ctx, productID)
}

// WriteReview 寫評價，只允許訂單內買過該商品的使用者
func (s *ReviewService) WriteReview(ctx context.Context, userID int, productID string, rating int, comment string) (*model.Review, error) {
	if productID == "" || rating < 1 || rating > 5 || strings.TrimSpace(comment) == "" {
		return nil, ErrInvalidReview
	}

	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	purchased, err := s.orderRepo.HasPurchasedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, ErrReviewNotAllowed
	}

	review := &model.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviewRepo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

var _ IReviewService = (*ReviewService)(nil)
