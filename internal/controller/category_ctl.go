package controller

import (
	"github.com/gin-gonic/gin"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/service"
)

type CategoryController struct {
	categoryService *service.CategoryService
}

func NewCategoryController(categoryService *service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// Create
// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "category"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ErrorResponse "name taken"
// @Failure 404 {object} dto.ErrorResponse "parent not found"
// @Router /categories/ [post]
func (cc *CategoryController) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := cc.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// List
// @Summary List categories
// @Tags Categories
// @Produce json
// @Param root_only query bool false "only categories without a parent"
// @Param skip query int false "rows to skip" default(0)
// @Param limit query int false "page size" default(100)
// @Success 200 {object} dto.Page[dto.CategoryResponse]
// @Router /categories/ [get]
func (cc *CategoryController) List(c *gin.Context) {
	var q dto.CategoryListQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := cc.categoryService.List(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, page)
}

// Get
// @Summary Get category
// @Tags Categories
// @Produce json
// @Param id path int true "category id"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /categories/{id} [get]
func (cc *CategoryController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := cc.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Update
// @Summary Update category
// @Description parent_id 0 detaches the category. A category cannot become its own ancestor.
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path int true "category id"
// @Param request body dto.UpdateCategoryRequest true "fields to change"
// @Success 200 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /categories/{id} [put]
func (cc *CategoryController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := cc.categoryService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Delete
// @Summary Delete category
// @Description Children are detached and product links removed.
// @Tags Categories
// @Param id path int true "category id"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /categories/{id} [delete]
func (cc *CategoryController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := cc.categoryService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}

// Products
// @Summary Products in a category
// @Tags Categories
// @Produce json
// @Param id path int true "category id"
// @Success 200 {array} dto.ProductResponse
// @Router /categories/{id}/products [get]
func (cc *CategoryController) Products(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := cc.categoryService.Products(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Subcategories
// @Summary Direct children
// @Tags Categories
// @Produce json
// @Param id path int true "category id"
// @Success 200 {array} dto.CategoryResponse
// @Router /categories/{id}/subcategories [get]
func (cc *CategoryController) Subcategories(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := cc.categoryService.Subcategories(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Parent
// @Summary Parent category
// @Tags Categories
// @Produce json
// @Param id path int true "category id"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} dto.ErrorResponse "Category has no parent"
// @Router /categories/{id}/parent [get]
func (cc *CategoryController) Parent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := cc.categoryService.Parent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}
