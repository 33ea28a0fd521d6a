package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace_api/internal/model"
)

// ==================== ReviewRepository ====================

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id int64) (*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id int64) (int64, error)
	ListByProduct(ctx context.Context, productID int64) ([]model.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Review, error)
	Summary(ctx context.Context, productID int64) (*RatingSummary, error)
}

// RatingSummary aggregates the ratings of one product. Average is nil
// when the product has no reviews.
type RatingSummary struct {
	Average *float64
	Count   int64
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
}

// GetByID loads the review with its (optional) user.
func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).Preload("User").First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Review{}, id)
	return result.RowsAffected, result.Error
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).Preload("User").
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID int64) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) Summary(ctx context.Context, productID int64) (*RatingSummary, error) {
	var summary RatingSummary
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
