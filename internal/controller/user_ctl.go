package controller

import (
	"github.com/gin-gonic/gin"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/service"
)

// ==================== UserController ====================

type UserController struct {
	userService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// Create
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "user"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "username or email taken"
// @Router /users/ [post]
func (u *UserController) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := u.userService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// List
// @Summary List users
// @Tags Users
// @Produce json
// @Param q query string false "username or email substring"
// @Param skip query int false "rows to skip" default(0)
// @Param limit query int false "page size" default(100)
// @Success 200 {object} dto.Page[dto.UserResponse]
// @Router /users/ [get]
func (u *UserController) List(c *gin.Context) {
	var q dto.UserListQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := u.userService.List(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, page)
}

// Get
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path int true "user id"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [get]
func (u *UserController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := u.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Update
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "user id"
// @Param request body dto.UpdateUserRequest true "fields to change"
// @Success 200 {object} dto.UserResponse
// @Router /users/{id} [put]
func (u *UserController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := u.userService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Delete
// @Summary Delete user
// @Description The user's reviews are kept without an author.
// @Tags Users
// @Param id path int true "user id"
// @Success 204
// @Router /users/{id} [delete]
func (u *UserController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := u.userService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}

// Reviews
// @Summary Reviews written by a user
// @Tags Users
// @Produce json
// @Param id path int true "user id"
// @Success 200 {array} dto.ReviewResponse
// @Router /users/{id}/reviews [get]
func (u *UserController) Reviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := u.userService.Reviews(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// ==================== ReviewController ====================

type ReviewController struct {
	reviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// Create
// @Summary Create review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param request body dto.CreateReviewRequest true "review"
// @Success 201 {object} dto.ReviewResponse
// @Failure 404 {object} dto.ErrorResponse "product or user not found"
// @Router /reviews/ [post]
func (r *ReviewController) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := r.reviewService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// Get
// @Summary Get review
// @Tags Reviews
// @Produce json
// @Param id path int true "review id"
// @Success 200 {object} dto.ReviewResponse
// @Router /reviews/{id} [get]
func (r *ReviewController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := r.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Update
// @Summary Update review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path int true "review id"
// @Param request body dto.UpdateReviewRequest true "fields to change"
// @Success 200 {object} dto.ReviewResponse
// @Router /reviews/{id} [put]
func (r *ReviewController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := r.reviewService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Delete
// @Summary Delete review
// @Tags Reviews
// @Param id path int true "review id"
// @Success 204
// @Router /reviews/{id} [delete]
func (r *ReviewController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := r.reviewService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}
