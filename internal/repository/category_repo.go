package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace_api/internal/model"
)

// ==================== CategoryRepository ====================

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, rootOnly bool, page Pagination) ([]model.Category, int64, error)
	Children(ctx context.Context, parentID int64) ([]model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByIDs returns the categories that exist among ids, ordered by id.
func (r *categoryRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error) {
	var categories []model.Category
	if len(ids) == 0 {
		return categories, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error
}

// Delete detaches the children, drops the product links, then removes the row.
// Call it inside Store.Transaction.
func (r *categoryRepository) Delete(ctx context.Context, id int64) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Category{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
		return 0, err
	}
	if err := db.Where("category_id = ?", id).Delete(&model.ProductCategory{}).Error; err != nil {
		return 0, err
	}
	result := db.Delete(&model.Category{}, id)
	return result.RowsAffected, result.Error
}

func (r *categoryRepository) List(ctx context.Context, rootOnly bool, page Pagination) ([]model.Category, int64, error) {
	var (
		categories []model.Category
		total      int64
	)
	db := r.db.WithContext(ctx).Model(&model.Category{})
	if rootOnly {
		db = db.Where("parent_id IS NULL")
	}
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(db.Session(&gorm.Session{})).Order("id ASC").Find(&categories).Error
	return categories, total, err
}

func (r *categoryRepository) Children(ctx context.Context, parentID int64) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("id ASC").Find(&categories).Error
	return categories, err
}
