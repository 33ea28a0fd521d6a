package service

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/model"
)

// ==================== model -> DTO ====================

func ToSellerResponse(s *model.Seller) dto.SellerResponse {
	return dto.SellerResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
	}
}

func ToSellerResponses(sellers []model.Seller) []dto.SellerResponse {
	out := make([]dto.SellerResponse, 0, len(sellers))
	for i := range sellers {
		out = append(out, ToSellerResponse(&sellers[i]))
	}
	return out
}

func ToSellerProfileResponse(p *model.SellerProfile) *dto.SellerProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.SellerProfileResponse{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Bio:         p.Bio,
		Website:     p.Website,
		SocialMedia: decodeSocialMedia(p.SocialMedia),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Status:      p.Status,
		SellerID:    p.SellerID,
		IsExpensive: p.IsExpensive(),
		Categories:  ToCategoryResponses(p.Categories),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProductResponses(products []model.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}

func ToCategoryResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		CreatedAt:   c.CreatedAt,
	}
}

func ToCategoryResponses(categories []model.Category) []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i]))
	}
	return out
}

func ToInventoryResponse(i *model.Inventory) *dto.InventoryResponse {
	if i == nil {
		return nil
	}
	return &dto.InventoryResponse{
		ID:           i.ID,
		ProductID:    i.ProductID,
		Quantity:     i.Quantity,
		ReorderLevel: i.ReorderLevel,
		NeedsReorder: i.NeedsReorder(),
		CreatedAt:    i.CreatedAt,
	}
}

func ToUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func ToUserResponses(users []model.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}

func ToReviewResponse(r *model.Review) dto.ReviewResponse {
	resp := dto.ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		u := ToUserResponse(r.User)
		resp.User = &u
	}
	return resp
}

func ToReviewResponses(reviews []model.Review) []dto.ReviewResponse {
	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, ToReviewResponse(&reviews[i]))
	}
	return out
}

// ==================== helpers ====================

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func roundedOrNil(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round2(*v)
	return &r
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func encodeSocialMedia(m map[string]string) (datatypes.JSON, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func decodeSocialMedia(raw datatypes.JSON) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	out := map[string]string{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
