package controller

import (
	"github.com/gin-gonic/gin"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/middleware"
	"marketplace_api/internal/service"
)

// ==================== SellerController ====================

type SellerController struct {
	sellerService  *service.SellerService
	productService *service.ProductService
}

func NewSellerController(sellerService *service.SellerService, productService *service.ProductService) *SellerController {
	return &SellerController{sellerService: sellerService, productService: productService}
}

// Create registers a seller
// @Summary Create seller
// @Tags Sellers
// @Accept json
// @Produce json
// @Param request body dto.CreateSellerRequest true "seller"
// @Success 201 {object} dto.SellerResponse
// @Failure 400 {object} dto.ErrorResponse "email already registered"
// @Failure 422 {object} dto.ValidationErrorResponse
// @Router /sellers/ [post]
func (s *SellerController) Create(c *gin.Context) {
	var req dto.CreateSellerRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.sellerService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// List pages through sellers
// @Summary List sellers
// @Tags Sellers
// @Produce json
// @Param skip query int false "rows to skip" default(0)
// @Param limit query int false "page size" default(100)
// @Success 200 {object} dto.Page[dto.SellerResponse]
// @Router /sellers/ [get]
func (s *SellerController) List(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := s.sellerService.List(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, page)
}

// Get
// @Summary Get seller
// @Tags Sellers
// @Produce json
// @Param id path int true "seller id"
// @Success 200 {object} dto.SellerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sellers/{id} [get]
func (s *SellerController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := s.sellerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Update applies a partial update
// @Summary Update seller
// @Tags Sellers
// @Accept json
// @Produce json
// @Param id path int true "seller id"
// @Param request body dto.UpdateSellerRequest true "fields to change"
// @Success 200 {object} dto.SellerResponse
// @Failure 400 {object} dto.ErrorResponse "email already registered"
// @Failure 404 {object} dto.ErrorResponse
// @Router /sellers/{id} [put]
func (s *SellerController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSellerRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.sellerService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Delete removes the seller and everything it owns
// @Summary Delete seller
// @Tags Sellers
// @Param id path int true "seller id"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /sellers/{id} [delete]
func (s *SellerController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.sellerService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}

// ==================== Products ====================

// Products
// @Summary List a seller's products
// @Tags Sellers
// @Produce json
// @Param id path int true "seller id"
// @Param skip query int false "rows to skip" default(0)
// @Param limit query int false "page size" default(100)
// @Success 200 {array} dto.ProductResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sellers/{id}/products/ [get]
func (s *SellerController) Products(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	resp, err := s.sellerService.Products(c.Request.Context(), id, &q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// CreateProduct
// @Summary Create a product for a seller
// @Tags Sellers
// @Accept json
// @Produce json
// @Param id path int true "seller id"
// @Param request body dto.CreateProductRequest true "product"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse "name taken for this seller"
// @Failure 404 {object} dto.ErrorResponse "seller or category not found"
// @Router /sellers/{id}/products/ [post]
func (s *SellerController) CreateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.productService.CreateForSeller(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// ProductCount
// @Summary Count a seller's products
// @Tags Sellers
// @Produce json
// @Param id path int true "seller id"
// @Success 200 {object} dto.SellerProductCountResponse
// @Router /sellers/{id}/products/count [get]
func (s *SellerController) ProductCount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := s.sellerService.ProductCount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Detailed
// @Summary Seller with profile, products and follow counts
// @Tags Sellers
// @Produce json
// @Param id path int true "seller id"
// @Success 200 {object} dto.SellerDetailResponse
// @Router /sellers/{id}/detailed [get]
func (s *SellerController) Detailed(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := s.sellerService.Detailed(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Statistics
// @Summary Catalog aggregates
// @Tags Sellers
// @Produce json
// @Success 200 {object} dto.SellerStatisticsResponse
// @Router /sellers/statistics [get]
func (s *SellerController) Statistics(c *gin.Context) {
	resp, err := s.sellerService.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// ==================== Profile ====================

// CreateProfile
// @Summary Create seller profile
// @Tags Sellers
// @Accept json
// @Produce json
// @Param id path int true "seller id"
// @Param request body dto.SellerProfileRequest true "profile"
// @Success 201 {object} dto.SellerProfileResponse
// @Failure 400 {object} dto.ErrorResponse "profile exists"
// @Router /sellers/{id}/profile [post]
func (s *SellerController) CreateProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SellerProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.sellerService.CreateProfile(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// GetProfile
// @Summary Get seller profile
// @Tags Sellers
// @Produce json
// @Param id path int true "seller id"
// @Success 200 {object} dto.SellerProfileResponse
// @Router /sellers/{id}/profile [get]
func (s *SellerController) GetProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := s.sellerService.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// UpdateProfile
// @Summary Update seller profile
// @Tags Sellers
// @Accept json
// @Produce json
// @Param id path int true "seller id"
// @Param request body dto.SellerProfileRequest true "fields to change"
// @Success 200 {object} dto.SellerProfileResponse
// @Router /sellers/{id}/profile [put]
func (s *SellerController) UpdateProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SellerProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.sellerService.UpdateProfile(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// ==================== Followers ====================

// Follow
// @Summary Follow another seller
// @Tags Sellers
// @Param id path int true "follower id"
// @Param target_id path int true "followed seller id"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "self follow or already following"
// @Router /sellers/{id}/following/{target_id} [post]
func (s *SellerController) Follow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "target_id")
	if !ok {
		return
	}

	if err := s.sellerService.Follow(c.Request.Context(), id, targetID); err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, dto.MessageResponse{Message: "Now following seller"})
}

// Unfollow
// @Summary Stop following a seller
// @Tags Sellers
// @Param id path int true "follower id"
// @Param target_id path int true "followed seller id"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "not following"
// @Router /sellers/{id}/following/{target_id} [delete]
func (s *SellerController) Unfollow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "target_id")
	if !ok {
		return
	}

	if err := s.sellerService.Unfollow(c.Request.Context(), id, targetID); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}

// Followers
// @Summary Sellers following this seller
// @Tags Sellers
// @Produce json
// @Param id path int true "seller id"
// @Success 200 {array} dto.SellerResponse
// @Router /sellers/{id}/followers [get]
func (s *SellerController) Followers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := s.sellerService.Followers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Following
// @Summary Sellers this seller follows
// @Tags Sellers
// @Produce json
// @Param id path int true "seller id"
// @Success 200 {array} dto.SellerResponse
// @Router /sellers/{id}/following [get]
func (s *SellerController) Following(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := s.sellerService.Following(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// ==================== Auth ====================

// Login
// @Summary Seller login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SellerLoginRequest true "credentials"
// @Success 200 {object} dto.SellerLoginResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /sellers/login [post]
func (s *SellerController) Login(c *gin.Context) {
	var req dto.SellerLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.sellerService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Me returns the authenticated seller
// @Summary Current seller
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SellerResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /sellers/me [get]
func (s *SellerController) Me(c *gin.Context) {
	resp, err := s.sellerService.Get(c.Request.Context(), middleware.GetSellerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}
