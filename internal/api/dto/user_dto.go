package dto

import "time"

// ==================== User ====================

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,notblank,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
}

type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitnil,notblank,min=3,max=50"`
	Email    *string `json:"email" binding:"omitnil,email,max=255"`
}

// UserListQuery filters users by a username/email substring.
type UserListQuery struct {
	PageQuery
	Keyword string `form:"q" binding:"omitempty,max=100"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ==================== Review ====================

// CreateReviewRequest: user_id is optional, rating must be 1..5.
type CreateReviewRequest struct {
	ProductID int64   `json:"product_id" binding:"required,gt=0"`
	UserID    *int64  `json:"user_id" binding:"omitnil,gt=0"`
	Rating    int     `json:"rating" binding:"required,min=1,max=5"`
	Comment   *string `json:"comment" binding:"omitnil,max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitnil,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitnil,max=2000"`
}

type ReviewResponse struct {
	ID        int64         `json:"id"`
	ProductID int64         `json:"product_id"`
	UserID    *int64        `json:"user_id"`
	Rating    int           `json:"rating"`
	Comment   *string       `json:"comment"`
	CreatedAt time.Time     `json:"created_at"`
	User      *UserResponse `json:"user,omitempty"`
}
