package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace_api/internal/model"
)

// ==================== SellerProfileRepository ====================

type SellerProfileRepository interface {
	Create(ctx context.Context, profile *model.SellerProfile) error
	GetBySellerID(ctx context.Context, sellerID int64) (*model.SellerProfile, error)
	Update(ctx context.Context, profile *model.SellerProfile) error
}

type sellerProfileRepository struct {
	db *gorm.DB
}

func NewSellerProfileRepository(db *gorm.DB) SellerProfileRepository {
	return &sellerProfileRepository{db: db}
}

func (r *sellerProfileRepository) Create(ctx context.Context, profile *model.SellerProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *sellerProfileRepository) GetBySellerID(ctx context.Context, sellerID int64) (*model.SellerProfile, error) {
	var profile model.SellerProfile
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *sellerProfileRepository) Update(ctx context.Context, profile *model.SellerProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// ==================== FollowerRepository ====================

// FollowerRepository maintains the seller -> seller follow edges.
type FollowerRepository interface {
	Follow(ctx context.Context, followerID, followingID int64) error
	Unfollow(ctx context.Context, followerID, followingID int64) (int64, error)
	IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error)
	Followers(ctx context.Context, sellerID int64) ([]model.Seller, error)
	Following(ctx context.Context, sellerID int64) ([]model.Seller, error)
	Counts(ctx context.Context, sellerID int64) (followers, following int64, err error)
}

type followerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) FollowerRepository {
	return &followerRepository{db: db}
}

func (r *followerRepository) Follow(ctx context.Context, followerID, followingID int64) error {
	edge := &model.SellerFollower{FollowerID: followerID, FollowingID: followingID}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(edge).Error
}

func (r *followerRepository) Unfollow(ctx context.Context, followerID, followingID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.SellerFollower{})
	return result.RowsAffected, result.Error
}

func (r *followerRepository) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SellerFollower{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// Followers returns the sellers following sellerID.
func (r *followerRepository) Followers(ctx context.Context, sellerID int64) ([]model.Seller, error) {
	var sellers []model.Seller
	err := r.db.WithContext(ctx).
		Joins("JOIN seller_followers sf ON sf.follower_id = sellers.id").
		Where("sf.following_id = ?", sellerID).
		Order("sellers.id ASC").
		Find(&sellers).Error
	return sellers, err
}

// Following returns the sellers sellerID follows.
func (r *followerRepository) Following(ctx context.Context, sellerID int64) ([]model.Seller, error) {
	var sellers []model.Seller
	err := r.db.WithContext(ctx).
		Joins("JOIN seller_followers sf ON sf.following_id = sellers.id").
		Where("sf.follower_id = ?", sellerID).
		Order("sellers.id ASC").
		Find(&sellers).Error
	return sellers, err
}

func (r *followerRepository) Counts(ctx context.Context, sellerID int64) (int64, int64, error) {
	var followers, following int64
	db := r.db.WithContext(ctx).Model(&model.SellerFollower{})
	if err := db.Session(&gorm.Session{}).Where("following_id = ?", sellerID).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Session(&gorm.Session{}).Where("follower_id = ?", sellerID).Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
