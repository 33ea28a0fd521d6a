package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace_api/internal/model"
	"marketplace_api/pkg/database"
)

// ==================== ProductRepository ====================

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetByNameAndSeller(ctx context.Context, name string, sellerID int64) (*model.Product, error)
	GetDetailed(ctx context.Context, id int64) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	CountBySeller(ctx context.Context, sellerID int64) (int64, error)

	// category links
	ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error
	AddCategory(ctx context.Context, productID, categoryID int64) error
	RemoveCategory(ctx context.Context, productID, categoryID int64) (int64, error)
	HasCategory(ctx context.Context, productID, categoryID int64) (bool, error)
	Categories(ctx context.Context, productID int64) ([]model.Category, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)
}

// ProductFilter narrows List. Zero values mean "no constraint"; all set
// constraints are combined with AND.
type ProductFilter struct {
	SellerID    *int64
	MinPrice    *float64
	MaxPrice    *float64
	Name        string // case-insensitive substring
	Status      string
	IsExpensive *bool
	CategoryIDs []int64 // any of
	Pagination
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Categories", orderByID).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByNameAndSeller(ctx context.Context, name string, sellerID int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Where("name = ? AND seller_id = ?", name, sellerID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetDetailed loads seller, categories, inventory and reviews with their users.
func (r *productRepository) GetDetailed(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Seller").
		Preload("Categories", orderByID).
		Preload("Inventory").
		Preload("Reviews", orderByID).
		Preload("Reviews.User").
		First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

// Delete removes reviews, inventory and category links before the product.
// Call it inside Store.Transaction.
func (r *productRepository) Delete(ctx context.Context, id int64) (int64, error) {
	db := r.db.WithContext(ctx)
	for _, child := range []interface{}{&model.Review{}, &model.Inventory{}, &model.ProductCategory{}} {
		if err := db.Where("product_id = ?", id).Delete(child).Error; err != nil {
			return 0, err
		}
	}
	result := db.Delete(&model.Product{}, id)
	return result.RowsAffected, result.Error
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var (
		products []model.Product
		total    int64
	)
	db := r.applyFilter(r.db.WithContext(ctx).Model(&model.Product{}), filter)

	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := filter.Pagination.apply(db.Session(&gorm.Session{})).
		Preload("Categories", orderByID).
		Order("products.id ASC").
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) applyFilter(db *gorm.DB, f ProductFilter) *gorm.DB {
	if f.SellerID != nil {
		db = db.Where("products.seller_id = ?", *f.SellerID)
	}
	if f.MinPrice != nil {
		db = db.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("products.price <= ?", *f.MaxPrice)
	}
	if f.Name != "" {
		db = db.Where(containsFold(db, "products.name", f.Name))
	}
	if f.Status != "" {
		db = db.Where("products.status = ?", f.Status)
	}
	if f.IsExpensive != nil {
		// query form of model.Product.IsExpensive
		if *f.IsExpensive {
			db = db.Where("products.price > ?", model.ExpensiveThreshold)
		} else {
			db = db.Where("products.price <= ?", model.ExpensiveThreshold)
		}
	}
	if len(f.CategoryIDs) > 0 {
		linked := r.db.Model(&model.ProductCategory{}).Select("product_id").Where("category_id IN ?", f.CategoryIDs)
		db = db.Where("products.id IN (?)", linked)
	}
	return db
}

func (r *productRepository) CountBySeller(ctx context.Context, sellerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("seller_id = ?", sellerID).Count(&count).Error
	return count, err
}

// ReplaceCategories makes categoryIDs the exact category set of the product.
func (r *productRepository) ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", productID).Delete(&model.ProductCategory{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]model.ProductCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		links = append(links, model.ProductCategory{ProductID: productID, CategoryID: id})
	}
	return db.Omit(clause.Associations).Create(&links).Error
}

func (r *productRepository) AddCategory(ctx context.Context, productID, categoryID int64) error {
	link := &model.ProductCategory{ProductID: productID, CategoryID: categoryID}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(link).Error
}

func (r *productRepository) RemoveCategory(ctx context.Context, productID, categoryID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("product_id = ? AND category_id = ?", productID, categoryID).
		Delete(&model.ProductCategory{})
	return result.RowsAffected, result.Error
}

func (r *productRepository) HasCategory(ctx context.Context, productID, categoryID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductCategory{}).
		Where("product_id = ? AND category_id = ?", productID, categoryID).
		Count(&count).Error
	return count > 0, err
}

func (r *productRepository) Categories(ctx context.Context, productID int64) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Joins("JOIN product_category pc ON pc.category_id = categories.id").
		Where("pc.product_id = ?", productID).
		Order("categories.id ASC").
		Find(&categories).Error
	return categories, err
}

func (r *productRepository) ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN product_category pc ON pc.product_id = products.id").
		Where("pc.category_id = ?", categoryID).
		Preload("Categories", orderByID).
		Order("products.id ASC").
		Find(&products).Error
	return products, err
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// containsFold matches column against a case-insensitive substring; wildcards
// in needle are literal.
func containsFold(db *gorm.DB, column, needle string) clause.Expr {
	pattern := "%" + escapeLike(strings.ToLower(needle)) + "%"
	if db.Dialector.Name() == database.DriverPostgres {
		return gorm.Expr(column+` ILIKE ? ESCAPE '\'`, pattern)
	}
	return gorm.Expr(database.LowerFunc+"("+column+`) LIKE ? ESCAPE '\'`, pattern)
}
