package dto

import "time"

// ==================== Category ====================

type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=50"`
	Description *string `json:"description" binding:"omitnil,max=500"`
	ParentID    *int64  `json:"parent_id" binding:"omitnil,gt=0"`
}

// UpdateCategoryRequest applies only the fields present in the body.
// parent_id 0 turns the category into a root.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitnil,notblank,max=50"`
	Description *string `json:"description" binding:"omitnil,max=500"`
	ParentID    *int64  `json:"parent_id" binding:"omitnil,min=0"`
}

type CategoryListQuery struct {
	PageQuery
	RootOnly bool `form:"root_only"`
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ParentID    *int64    `json:"parent_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ==================== Inventory ====================

// CreateInventoryRequest defaults quantity to 0 and reorder_level to 10.
type CreateInventoryRequest struct {
	Quantity     *int `json:"quantity" binding:"omitnil,min=0"`
	ReorderLevel *int `json:"reorder_level" binding:"omitnil,min=0"`
}

type UpdateInventoryRequest struct {
	Quantity     *int `json:"quantity" binding:"omitnil,min=0"`
	ReorderLevel *int `json:"reorder_level" binding:"omitnil,min=0"`
}

type InventoryResponse struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	Quantity     int       `json:"quantity"`
	ReorderLevel int       `json:"reorder_level"`
	NeedsReorder bool      `json:"needs_reorder"`
	CreatedAt    time.Time `json:"created_at"`
}
