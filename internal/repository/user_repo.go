package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"marketplace_api/internal/model"
)

// ==================== UserRepository ====================

// UserRepository stores reviewers.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, filter UserFilter) ([]model.User, int64, error)
}

// UserFilter narrows List; Keyword matches username or email.
type UserFilter struct {
	Keyword string
	Pagination
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete keeps the user's reviews and clears their user_id.
// Call it inside Store.Transaction.
func (r *userRepository) Delete(ctx context.Context, id int64) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Review{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
		return 0, err
	}
	result := db.Delete(&model.User{}, id)
	return result.RowsAffected, result.Error
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})

	if filter.Keyword != "" {
		query = query.Where(gorm.Expr("(? OR ?)",
			containsFold(query, "username", filter.Keyword),
			containsFold(query, "email", filter.Keyword)))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := filter.Pagination.apply(query.Session(&gorm.Session{})).
		Order("id ASC").
		Find(&users).Error

	return users, total, err
}
