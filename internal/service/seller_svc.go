package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/middleware"
	"marketplace_api/internal/model"
	"marketplace_api/internal/repository"
)

// ==================== SellerService ====================

type SellerService struct {
	store      *repository.Store
	bcryptCost int
	log        *zap.Logger
}

func NewSellerService(store *repository.Store, bcryptCost int, log *zap.Logger) *SellerService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SellerService{store: store, bcryptCost: bcryptCost, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *SellerService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// getSeller loads a seller through repo or fails with ErrSellerNotFound.
func getSeller(ctx context.Context, repo repository.SellerRepository, id int64) (*model.Seller, error) {
	seller, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	if seller == nil {
		return nil, ErrSellerNotFound
	}
	return seller, nil
}

// ==================== CRUD ====================

// Create registers a seller; the email must be unused.
func (s *SellerService) Create(ctx context.Context, req *dto.CreateSellerRequest) (*dto.SellerResponse, error) {
	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	seller := &model.Seller{
		Name:     strings.TrimSpace(req.Name),
		Email:    normalizeEmail(req.Email),
		Password: hashed,
		Phone:    req.Phone,
		Address:  req.Address,
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.Sellers.GetByEmail(ctx, seller.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailTaken
		}
		return tx.Sellers.Create(ctx, seller)
	})
	if err != nil {
		return nil, translate(err, ErrEmailTaken)
	}

	s.log.Info("seller created", zap.Int64("seller_id", seller.ID))
	resp := ToSellerResponse(seller)
	return &resp, nil
}

func (s *SellerService) Get(ctx context.Context, id int64) (*dto.SellerResponse, error) {
	seller, err := getSeller(ctx, s.store.Sellers, id)
	if err != nil {
		return nil, err
	}
	resp := ToSellerResponse(seller)
	return &resp, nil
}

func (s *SellerService) List(ctx context.Context, q *dto.PageQuery) (*dto.Page[dto.SellerResponse], error) {
	sellers, total, err := s.store.Sellers.List(ctx, repository.Pagination{Skip: q.Skip, Limit: q.Limit})
	if err != nil {
		return nil, translate(err, nil)
	}
	page := dto.NewPage(ToSellerResponses(sellers), total, q.Skip, q.Limit)
	return &page, nil
}

// Update applies the present fields; a new email is re-checked, a new password re-hashed.
func (s *SellerService) Update(ctx context.Context, id int64, req *dto.UpdateSellerRequest) (*dto.SellerResponse, error) {
	var seller *model.Seller
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		seller, err = getSeller(ctx, tx.Sellers, id)
		if err != nil {
			return err
		}

		if req.Email != nil {
			email := normalizeEmail(*req.Email)
			if email != seller.Email {
				existing, err := tx.Sellers.GetByEmail(ctx, email)
				if err != nil {
					return err
				}
				if existing != nil {
					return ErrEmailTaken
				}
				seller.Email = email
			}
		}
		if req.Name != nil {
			seller.Name = strings.TrimSpace(*req.Name)
		}
		if req.Password != nil {
			hashed, err := s.hashPassword(*req.Password)
			if err != nil {
				return err
			}
			seller.Password = hashed
		}
		if req.Phone != nil {
			seller.Phone = req.Phone
		}
		if req.Address != nil {
			seller.Address = req.Address
		}
		return tx.Sellers.Update(ctx, seller)
	})
	if err != nil {
		return nil, translate(err, ErrEmailTaken)
	}
	resp := ToSellerResponse(seller)
	return &resp, nil
}

// Delete removes the seller with its products, their inventory, reviews and
// category links, its profile and its follow edges.
func (s *SellerService) Delete(ctx context.Context, id int64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := getSeller(ctx, tx.Sellers, id); err != nil {
			return err
		}
		_, err := tx.Sellers.Delete(ctx, id)
		return err
	})
	if err != nil {
		return translate(err, nil)
	}
	s.log.Info("seller deleted", zap.Int64("seller_id", id))
	return nil
}

// ==================== Products / aggregates ====================

func (s *SellerService) Products(ctx context.Context, id int64, q *dto.PageQuery) ([]dto.ProductResponse, error) {
	if _, err := getSeller(ctx, s.store.Sellers, id); err != nil {
		return nil, err
	}
	products, _, err := s.store.Products.List(ctx, repository.ProductFilter{
		SellerID:   &id,
		Pagination: repository.Pagination{Skip: q.Skip, Limit: q.Limit},
	})
	if err != nil {
		return nil, translate(err, nil)
	}
	return ToProductResponses(products), nil
}

func (s *SellerService) ProductCount(ctx context.Context, id int64) (*dto.SellerProductCountResponse, error) {
	if _, err := getSeller(ctx, s.store.Sellers, id); err != nil {
		return nil, err
	}
	count, err := s.store.Products.CountBySeller(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return &dto.SellerProductCountResponse{SellerID: id, ProductCount: count}, nil
}

// Detailed returns the seller with profile, products and follow counts.
func (s *SellerService) Detailed(ctx context.Context, id int64) (*dto.SellerDetailResponse, error) {
	seller, err := s.store.Sellers.GetDetailed(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	if seller == nil {
		return nil, ErrSellerNotFound
	}
	followers, following, err := s.store.Followers.Counts(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return &dto.SellerDetailResponse{
		SellerResponse: ToSellerResponse(seller),
		Profile:        ToSellerProfileResponse(seller.Profile),
		Products:       ToProductResponses(seller.Products),
		FollowersCount: followers,
		FollowingCount: following,
	}, nil
}

// Statistics reports catalog aggregates; price figures are 0 without products.
func (s *SellerService) Statistics(ctx context.Context) (*dto.SellerStatisticsResponse, error) {
	stats, err := s.store.Sellers.Statistics(ctx)
	if err != nil {
		return nil, translate(err, nil)
	}
	return &dto.SellerStatisticsResponse{
		TotalSellers:  stats.TotalSellers,
		TotalProducts: stats.TotalProducts,
		AveragePrice:  round2(floatOrZero(stats.AveragePrice)),
		MaxPrice:      floatOrZero(stats.MaxPrice),
		MinPrice:      floatOrZero(stats.MinPrice),
	}, nil
}

// ==================== Profile ====================

func (s *SellerService) CreateProfile(ctx context.Context, sellerID int64, req *dto.SellerProfileRequest) (*dto.SellerProfileResponse, error) {
	social, err := encodeSocialMedia(req.SocialMedia)
	if err != nil {
		return nil, err
	}
	profile := &model.SellerProfile{
		SellerID:    sellerID,
		Bio:         req.Bio,
		Website:     req.Website,
		SocialMedia: social,
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := getSeller(ctx, tx.Sellers, sellerID); err != nil {
			return err
		}
		existing, err := tx.Profiles.GetBySellerID(ctx, sellerID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrProfileExists
		}
		return tx.Profiles.Create(ctx, profile)
	})
	if err != nil {
		return nil, translate(err, ErrProfileExists)
	}
	return ToSellerProfileResponse(profile), nil
}

func (s *SellerService) GetProfile(ctx context.Context, sellerID int64) (*dto.SellerProfileResponse, error) {
	if _, err := getSeller(ctx, s.store.Sellers, sellerID); err != nil {
		return nil, err
	}
	profile, err := s.store.Profiles.GetBySellerID(ctx, sellerID)
	if err != nil {
		return nil, translate(err, nil)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return ToSellerProfileResponse(profile), nil
}

// UpdateProfile applies the present fields; social_media replaces the whole map.
func (s *SellerService) UpdateProfile(ctx context.Context, sellerID int64, req *dto.SellerProfileRequest) (*dto.SellerProfileResponse, error) {
	var profile *model.SellerProfile
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := getSeller(ctx, tx.Sellers, sellerID); err != nil {
			return err
		}
		var err error
		profile, err = tx.Profiles.GetBySellerID(ctx, sellerID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrProfileNotFound
		}

		if req.Bio != nil {
			profile.Bio = req.Bio
		}
		if req.Website != nil {
			profile.Website = req.Website
		}
		if req.SocialMedia != nil {
			social, err := encodeSocialMedia(req.SocialMedia)
			if err != nil {
				return err
			}
			profile.SocialMedia = social
		}
		return tx.Profiles.Update(ctx, profile)
	})
	if err != nil {
		return nil, translate(err, nil)
	}
	return ToSellerProfileResponse(profile), nil
}

// ==================== Followers ====================

// Follow makes sellerID follow targetID.
func (s *SellerService) Follow(ctx context.Context, sellerID, targetID int64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := getSeller(ctx, tx.Sellers, sellerID); err != nil {
			return err
		}
		if sellerID == targetID {
			return ErrSelfFollow
		}
		if _, err := getSeller(ctx, tx.Sellers, targetID); err != nil {
			return err
		}
		following, err := tx.Followers.IsFollowing(ctx, sellerID, targetID)
		if err != nil {
			return err
		}
		if following {
			return ErrAlreadyFollowing
		}
		return tx.Followers.Follow(ctx, sellerID, targetID)
	})
	return translate(err, ErrAlreadyFollowing)
}

func (s *SellerService) Unfollow(ctx context.Context, sellerID, targetID int64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := getSeller(ctx, tx.Sellers, sellerID); err != nil {
			return err
		}
		if _, err := getSeller(ctx, tx.Sellers, targetID); err != nil {
			return err
		}
		removed, err := tx.Followers.Unfollow(ctx, sellerID, targetID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return ErrNotFollowing
		}
		return nil
	})
	return translate(err, nil)
}

func (s *SellerService) Followers(ctx context.Context, sellerID int64) ([]dto.SellerResponse, error) {
	if _, err := getSeller(ctx, s.store.Sellers, sellerID); err != nil {
		return nil, err
	}
	sellers, err := s.store.Followers.Followers(ctx, sellerID)
	if err != nil {
		return nil, translate(err, nil)
	}
	return ToSellerResponses(sellers), nil
}

func (s *SellerService) Following(ctx context.Context, sellerID int64) ([]dto.SellerResponse, error) {
	if _, err := getSeller(ctx, s.store.Sellers, sellerID); err != nil {
		return nil, err
	}
	sellers, err := s.store.Followers.Following(ctx, sellerID)
	if err != nil {
		return nil, translate(err, nil)
	}
	return ToSellerResponses(sellers), nil
}

// ==================== Auth ====================

// Login checks the password and issues an access token.
func (s *SellerService) Login(ctx context.Context, req *dto.SellerLoginRequest) (*dto.SellerLoginResponse, error) {
	seller, err := s.store.Sellers.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, translate(err, nil)
	}
	if seller == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(seller.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := middleware.GenerateAccessToken(seller.ID, seller.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &dto.SellerLoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		Seller:      ToSellerResponse(seller),
	}, nil
}
