package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"marketplace_api/internal/model"
)

// ==================== InventoryRepository ====================

type InventoryRepository interface {
	Create(ctx context.Context, inventory *model.Inventory) error
	GetByProductID(ctx context.Context, productID int64) (*model.Inventory, error)
	Update(ctx context.Context, inventory *model.Inventory) error
	ListLowStock(ctx context.Context) ([]LowStockItem, error)
}

// LowStockItem is an inventory row at or below its reorder level.
type LowStockItem struct {
	ProductID    int64
	ProductName  string
	Quantity     int
	ReorderLevel int
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, inventory *model.Inventory) error {
	return r.db.WithContext(ctx).Create(inventory).Error
}

func (r *inventoryRepository) GetByProductID(ctx context.Context, productID int64) (*model.Inventory, error) {
	var inventory model.Inventory
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&inventory).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (r *inventoryRepository) Update(ctx context.Context, inventory *model.Inventory) error {
	return r.db.WithContext(ctx).Save(inventory).Error
}

func (r *inventoryRepository) ListLowStock(ctx context.Context) ([]LowStockItem, error) {
	var items []LowStockItem
	err := r.db.WithContext(ctx).
		Table("inventory i").
		Select("i.product_id, p.name AS product_name, i.quantity, i.reorder_level").
		Joins("JOIN products p ON p.id = i.product_id").
		Where("i.quantity <= i.reorder_level").
		Order("i.product_id ASC").
		Scan(&items).Error
	return items, err
}
