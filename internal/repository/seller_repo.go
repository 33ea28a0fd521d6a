package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace_api/internal/model"
)

// ==================== SellerRepository ====================

type SellerRepository interface {
	Create(ctx context.Context, seller *model.Seller) error
	GetByID(ctx context.Context, id int64) (*model.Seller, error)
	GetByEmail(ctx context.Context, email string) (*model.Seller, error)
	GetDetailed(ctx context.Context, id int64) (*model.Seller, error)
	Update(ctx context.Context, seller *model.Seller) error
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, page Pagination) ([]model.Seller, int64, error)
	Statistics(ctx context.Context) (*SellerStatistics, error)
}

// SellerStatistics holds the catalog-wide aggregates. Price aggregates are nil
// when there are no products.
type SellerStatistics struct {
	TotalSellers  int64
	TotalProducts int64
	AveragePrice  *float64
	MaxPrice      *float64
	MinPrice      *float64
}

type sellerRepository struct {
	db *gorm.DB
}

func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) Create(ctx context.Context, seller *model.Seller) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(seller).Error
}

func (r *sellerRepository) GetByID(ctx context.Context, id int64) (*model.Seller, error) {
	var seller model.Seller
	err := r.db.WithContext(ctx).First(&seller, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) GetByEmail(ctx context.Context, email string) (*model.Seller, error) {
	var seller model.Seller
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

// GetDetailed loads the seller with its profile and its products (with categories).
func (r *sellerRepository) GetDetailed(ctx context.Context, id int64) (*model.Seller, error) {
	var seller model.Seller
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("products.id ASC") }).
		Preload("Products.Categories").
		First(&seller, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) Update(ctx context.Context, seller *model.Seller) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(seller).Error
}

// Delete removes the seller and everything it owns, leaves first:
// reviews, inventory and category links of its products, the products,
// the profile, follow edges on either side, then the seller row.
// Call it inside Store.Transaction so a failure leaves nothing half deleted.
func (r *sellerRepository) Delete(ctx context.Context, id int64) (int64, error) {
	db := r.db.WithContext(ctx)
	productIDs := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Product{}).Select("id").Where("seller_id = ?", id)
	}

	steps := []struct {
		model interface{}
		query string
		arg   interface{}
	}{
		{&model.Review{}, "product_id IN (?)", productIDs()},
		{&model.Inventory{}, "product_id IN (?)", productIDs()},
		{&model.ProductCategory{}, "product_id IN (?)", productIDs()},
		{&model.Product{}, "seller_id = ?", id},
		{&model.SellerProfile{}, "seller_id = ?", id},
	}
	for _, s := range steps {
		if err := db.Where(s.query, s.arg).Delete(s.model).Error; err != nil {
			return 0, err
		}
	}
	if err := db.Where("follower_id = ? OR following_id = ?", id, id).Delete(&model.SellerFollower{}).Error; err != nil {
		return 0, err
	}

	result := db.Delete(&model.Seller{}, id)
	return result.RowsAffected, result.Error
}

func (r *sellerRepository) List(ctx context.Context, page Pagination) ([]model.Seller, int64, error) {
	var (
		sellers []model.Seller
		total   int64
	)
	db := r.db.WithContext(ctx).Model(&model.Seller{})
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(db.Session(&gorm.Session{})).Order("id ASC").Find(&sellers).Error
	return sellers, total, err
}

// Statistics runs one aggregate query over sellers and products.
func (r *sellerRepository) Statistics(ctx context.Context) (*SellerStatistics, error) {
	var stats SellerStatistics
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM sellers) AS total_sellers,
			COUNT(p.id)  AS total_products,
			AVG(p.price) AS average_price,
			MAX(p.price) AS max_price,
			MIN(p.price) AS min_price
		FROM products p`).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
