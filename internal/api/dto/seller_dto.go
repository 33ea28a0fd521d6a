package dto

import "time"

// ==================== Request DTO ====================

type CreateSellerRequest struct {
	Name     string  `json:"name" binding:"required,notblank,max=100"`
	Email    string  `json:"email" binding:"required,email,max=255"`
	Password string  `json:"password" binding:"required,min=8,password_bytes"`
	Phone    *string `json:"phone" binding:"omitnil,max=20"`
	Address  *string `json:"address" binding:"omitnil,max=500"`
}

// UpdateSellerRequest applies only the fields present in the body.
type UpdateSellerRequest struct {
	Name     *string `json:"name" binding:"omitnil,notblank,max=100"`
	Email    *string `json:"email" binding:"omitnil,email,max=255"`
	Password *string `json:"password" binding:"omitnil,min=8,password_bytes"`
	Phone    *string `json:"phone" binding:"omitnil,max=20"`
	Address  *string `json:"address" binding:"omitnil,max=500"`
}

type SellerLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SellerProfileRequest struct {
	Bio         *string           `json:"bio" binding:"omitnil,max=2000"`
	Website     *string           `json:"website" binding:"omitnil,url,max=255"`
	SocialMedia map[string]string `json:"social_media" binding:"omitempty,max=20,dive,keys,min=1,max=50,endkeys,max=255"`
}

// ==================== Response DTO ====================

// SellerResponse never carries the password hash.
type SellerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

type SellerProfileResponse struct {
	ID          int64             `json:"id"`
	SellerID    int64             `json:"seller_id"`
	Bio         *string           `json:"bio"`
	Website     *string           `json:"website"`
	SocialMedia map[string]string `json:"social_media"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type SellerDetailResponse struct {
	SellerResponse
	Profile        *SellerProfileResponse `json:"profile"`
	Products       []ProductResponse      `json:"products"`
	FollowersCount int64                  `json:"followers_count"`
	FollowingCount int64                  `json:"following_count"`
}

type SellerProductCountResponse struct {
	SellerID     int64 `json:"seller_id"`
	ProductCount int64 `json:"product_count"`
}

// SellerStatisticsResponse reports 0 for price aggregates when there are no products.
type SellerStatisticsResponse struct {
	TotalSellers  int64   `json:"total_sellers"`
	TotalProducts int64   `json:"total_products"`
	AveragePrice  float64 `json:"average_price"`
	MaxPrice      float64 `json:"max_price"`
	MinPrice      float64 `json:"min_price"`
}

type SellerLoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Seller      SellerResponse `json:"seller"`
}
