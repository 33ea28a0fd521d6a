package dto

import "time"

// ==================== Request DTO ====================

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=100"`
	Description *string `json:"description" binding:"omitnil,max=2000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Status      string  `json:"status" binding:"omitempty,product_status"` // defaults to active
	CategoryIDs []int64 `json:"category_ids" binding:"omitempty,max=50,dive,gt=0"`
}

// UpdateProductRequest applies only the fields present in the body.
// A present category_ids (even empty) replaces the category set.
type UpdateProductRequest struct {
	Name        *string  `json:"name" binding:"omitnil,notblank,max=100"`
	Description *string  `json:"description" binding:"omitnil,max=2000"`
	Price       *float64 `json:"price" binding:"omitnil,gt=0"`
	Status      *string  `json:"status" binding:"omitnil,product_status"`
	CategoryIDs []int64  `json:"category_ids" binding:"omitempty,max=50,dive,gt=0"`
}

// ProductListQuery backs GET /products/.
type ProductListQuery struct {
	PageQuery
	SellerID *int64   `form:"seller_id" binding:"omitnil,gt=0"`
	MinPrice *float64 `form:"min_price" binding:"omitnil,gt=0"`
	MaxPrice *float64 `form:"max_price" binding:"omitnil,gt=0"`
}

// ProductSearchQuery backs GET /products/search; filters combine with AND.
type ProductSearchQuery struct {
	PageQuery
	Name        string   `form:"name" binding:"omitempty,max=100"`
	MinPrice    *float64 `form:"min_price" binding:"omitnil,gt=0"`
	MaxPrice    *float64 `form:"max_price" binding:"omitnil,gt=0"`
	SellerID    *int64   `form:"seller_id" binding:"omitnil,gt=0"`
	Status      string   `form:"status" binding:"omitempty,product_status"`
	IsExpensive *bool    `form:"is_expensive"`
	CategoryIDs []int64  `form:"category_ids" binding:"omitempty,max=50,dive,gt=0"`
}

// ==================== Response DTO ====================

type ProductResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description"`
	Price       float64            `json:"price"`
	Status      string             `json:"status"`
	SellerID    int64              `json:"seller_id"`
	IsExpensive bool               `json:"is_expensive"`
	Categories  []CategoryResponse `json:"categories"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type ProductDetailResponse struct {
	ProductResponse
	Seller        *SellerResponse    `json:"seller"`
	Inventory     *InventoryResponse `json:"inventory"`
	Reviews       []ReviewResponse   `json:"reviews"`
	AverageRating *float64           `json:"average_rating"`
	ReviewCount   int64              `json:"review_count"`
}

type ProductPriceStatusResponse struct {
	ProductID   int64   `json:"product_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	IsExpensive bool    `json:"is_expensive"`
}

// ProductReviewsResponse carries the reviews of one product with their aggregate.
// average_rating is null when there are no reviews.
type ProductReviewsResponse struct {
	ProductID     int64            `json:"product_id"`
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating *float64         `json:"average_rating"`
	ReviewCount   int64            `json:"review_count"`
}
