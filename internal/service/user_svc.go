package service

import (
	"context"
	"strings"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/model"
	"marketplace_api/internal/repository"
)

// ==================== UserService ====================

type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

func getUser(ctx context.Context, repo repository.UserRepository, id int64) (*model.User, error) {
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// checkUserUnique fails when username or email belongs to a user other than selfID.
func checkUserUnique(ctx context.Context, repo repository.UserRepository, selfID int64, username, email string) error {
	if username != "" {
		existing, err := repo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return ErrUsernameTaken
		}
	}
	if email != "" {
		existing, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return ErrEmailTaken
		}
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	user := &model.User{
		Username: strings.TrimSpace(req.Username),
		Email:    normalizeEmail(req.Email),
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := checkUserUnique(ctx, tx.Users, 0, user.Username, user.Email); err != nil {
			return err
		}
		return tx.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, translate(err, ErrUsernameTaken)
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := getUser(ctx, s.store.Users, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *UserService) List(ctx context.Context, q *dto.UserListQuery) (*dto.Page[dto.UserResponse], error) {
	users, total, err := s.store.Users.List(ctx, repository.UserFilter{
		Keyword:    strings.TrimSpace(q.Keyword),
		Pagination: repository.Pagination{Skip: q.Skip, Limit: q.Limit},
	})
	if err != nil {
		return nil, translate(err, nil)
	}
	page := dto.NewPage(ToUserResponses(users), total, q.Skip, q.Limit)
	return &page, nil
}

func (s *UserService) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var user *model.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		user, err = getUser(ctx, tx.Users, id)
		if err != nil {
			return err
		}

		var username, email string
		if req.Username != nil {
			username = strings.TrimSpace(*req.Username)
		}
		if req.Email != nil {
			email = normalizeEmail(*req.Email)
		}
		if err := checkUserUnique(ctx, tx.Users, id, username, email); err != nil {
			return err
		}
		if username != "" {
			user.Username = username
		}
		if email != "" {
			user.Email = email
		}
		return tx.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, translate(err, ErrUsernameTaken)
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes the user; their reviews stay with user_id cleared.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := getUser(ctx, tx.Users, id); err != nil {
			return err
		}
		_, err := tx.Users.Delete(ctx, id)
		return err
	})
	return translate(err, nil)
}

func (s *UserService) Reviews(ctx context.Context, id int64) ([]dto.ReviewResponse, error) {
	if _, err := getUser(ctx, s.store.Users, id); err != nil {
		return nil, err
	}
	reviews, err := s.store.Reviews.ListByUser(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return ToReviewResponses(reviews), nil
}

// ==================== ReviewService ====================

type ReviewService struct {
	store *repository.Store
}

func NewReviewService(store *repository.Store) *ReviewService {
	return &ReviewService{store: store}
}

// Create records a review; the product must exist, and so must the user when given.
func (s *ReviewService) Create(ctx context.Context, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	review := &model.Review{
		ProductID: req.ProductID,
		UserID:    req.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := getProduct(ctx, tx.Products, req.ProductID); err != nil {
			return err
		}
		if req.UserID != nil {
			if _, err := getUser(ctx, tx.Users, *req.UserID); err != nil {
				return err
			}
		}
		return tx.Reviews.Create(ctx, review)
	})
	if err != nil {
		return nil, translate(err, nil)
	}
	return s.Get(ctx, review.ID)
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*dto.ReviewResponse, error) {
	review, err := s.store.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	resp := ToReviewResponse(review)
	return &resp, nil
}

func (s *ReviewService) Update(ctx context.Context, id int64, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		review, err := tx.Reviews.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if review == nil {
			return ErrReviewNotFound
		}
		if req.Rating != nil {
			review.Rating = *req.Rating
		}
		if req.Comment != nil {
			review.Comment = req.Comment
		}
		return tx.Reviews.Update(ctx, review)
	})
	if err != nil {
		return nil, translate(err, nil)
	}
	return s.Get(ctx, id)
}

func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		removed, err := tx.Reviews.Delete(ctx, id)
		if err != nil {
			return err
		}
		if removed == 0 {
			return ErrReviewNotFound
		}
		return nil
	})
	return translate(err, nil)
}
