package controller

import (
	"github.com/gin-gonic/gin"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/service"
)

// ==================== ProductController ====================

type ProductController struct {
	productService *service.ProductService
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// List
// @Summary List products
// @Tags Products
// @Produce json
// @Param skip query int false "rows to skip" default(0)
// @Param limit query int false "page size" default(100)
// @Param seller_id query int false "seller id"
// @Param min_price query number false "minimum price"
// @Param max_price query number false "maximum price"
// @Success 200 {object} dto.Page[dto.ProductResponse]
// @Failure 422 {object} dto.ValidationErrorResponse
// @Router /products/ [get]
func (p *ProductController) List(c *gin.Context) {
	var q dto.ProductListQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := p.productService.List(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, page)
}

// Search
// @Summary Search products
// @Description Every filter is optional and they combine with AND. name matches a case-insensitive substring.
// @Tags Products
// @Produce json
// @Param name query string false "name substring"
// @Param min_price query number false "minimum price"
// @Param max_price query number false "maximum price"
// @Param seller_id query int false "seller id"
// @Param status query string false "active, inactive or draft"
// @Param is_expensive query bool false "price above 100"
// @Param category_ids query []int false "any of these categories" collectionFormat(multi)
// @Param skip query int false "rows to skip" default(0)
// @Param limit query int false "page size" default(100)
// @Success 200 {object} dto.Page[dto.ProductResponse]
// @Router /products/search [get]
func (p *ProductController) Search(c *gin.Context) {
	var q dto.ProductSearchQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := p.productService.Search(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, page)
}

// Expensive
// @Summary Products priced above 100
// @Tags Products
// @Produce json
// @Success 200 {array} dto.ProductResponse
// @Router /products/expensive [get]
func (p *ProductController) Expensive(c *gin.Context) {
	resp, err := p.productService.Expensive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Get
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [get]
func (p *ProductController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := p.productService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Update
// @Summary Update product
// @Description category_ids, when present, replaces the product's categories.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "product id"
// @Param request body dto.UpdateProductRequest true "fields to change"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse "name taken for this seller"
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [put]
func (p *ProductController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := p.productService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Delete
// @Summary Delete product
// @Tags Products
// @Param id path int true "product id"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [delete]
func (p *ProductController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := p.productService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}

// ==================== Relations ====================

// Seller
// @Summary Product's seller
// @Tags Products
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} dto.SellerResponse
// @Router /products/{id}/seller [get]
func (p *ProductController) Seller(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := p.productService.Seller(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// PriceStatus
// @Summary Whether the product counts as expensive
// @Tags Products
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} dto.ProductPriceStatusResponse
// @Router /products/{id}/price-status [get]
func (p *ProductController) PriceStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := p.productService.PriceStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Detailed
// @Summary Product with seller, categories, inventory and reviews
// @Tags Products
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} dto.ProductDetailResponse
// @Router /products/{id}/detailed [get]
func (p *ProductController) Detailed(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := p.productService.Detailed(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Reviews
// @Summary Product reviews with average rating
// @Tags Products
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} dto.ProductReviewsResponse
// @Router /products/{id}/reviews [get]
func (p *ProductController) Reviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := p.productService.Reviews(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// ==================== Inventory ====================

// CreateInventory
// @Summary Create the product's inventory
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path int true "product id"
// @Param request body dto.CreateInventoryRequest true "inventory"
// @Success 201 {object} dto.InventoryResponse
// @Failure 400 {object} dto.ErrorResponse "inventory exists"
// @Router /products/{id}/inventory [post]
func (p *ProductController) CreateInventory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateInventoryRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := p.productService.CreateInventory(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// GetInventory
// @Summary Get the product's inventory
// @Tags Inventory
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} dto.InventoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id}/inventory [get]
func (p *ProductController) GetInventory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := p.productService.GetInventory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// UpdateInventory
// @Summary Update the product's inventory
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path int true "product id"
// @Param request body dto.UpdateInventoryRequest true "fields to change"
// @Success 200 {object} dto.InventoryResponse
// @Router /products/{id}/inventory [put]
func (p *ProductController) UpdateInventory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateInventoryRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := p.productService.UpdateInventory(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// ==================== Categories ====================

// Categories
// @Summary Product's categories
// @Tags Products
// @Produce json
// @Param id path int true "product id"
// @Success 200 {array} dto.CategoryResponse
// @Router /products/{id}/categories [get]
func (p *ProductController) Categories(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := p.productService.Categories(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// AddCategory
// @Summary Attach a category
// @Tags Products
// @Param id path int true "product id"
// @Param category_id path int true "category id"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "already assigned"
// @Router /products/{id}/categories/{category_id} [post]
func (p *ProductController) AddCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "category_id")
	if !ok {
		return
	}

	if err := p.productService.AddCategory(c.Request.Context(), id, categoryID); err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, dto.MessageResponse{Message: "Category added to product"})
}

// RemoveCategory
// @Summary Detach a category
// @Tags Products
// @Param id path int true "product id"
// @Param category_id path int true "category id"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "not assigned"
// @Router /products/{id}/categories/{category_id} [delete]
func (p *ProductController) RemoveCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "category_id")
	if !ok {
		return
	}

	if err := p.productService.RemoveCategory(c.Request.Context(), id, categoryID); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}
