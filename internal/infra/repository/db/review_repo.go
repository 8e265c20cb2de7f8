package db

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
)

type ReviewRepo struct {
	db *DbDao
}

func NewReviewRepo(db *DbDao) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create - 建立評價
func (s *ReviewRepo) CreateReview(ctx context.Context, review *model.Review) error {
	return s.db.WithContext(ctx).Create(review).Error
}

// ReviewWithUser 評價加上留言者名稱，給商品頁顯示用
type ReviewWithUser struct {
	ID        uint      `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    int       `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Read - 商品的評價，新到舊
func (s *ReviewRepo) GetReviewsByProduct(ctx context.Context, productID string) ([]ReviewWithUser, error) {
	var rows []ReviewWithUser
	err := s.db.WithContext(ctx).Model(&model.Review{}).
		Joins("JOIN users ON users.user_id = reviews.user_id").
		Where("reviews.product_id = ?", productID).
		Select("reviews.id, reviews.product_id, reviews.user_id, " +
			"users.user_name as user_name, reviews.rating, reviews.comment, reviews.created_at").
		Order("reviews.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
