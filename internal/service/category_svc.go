package service

import (
	"context"
	"strconv"
	"strings"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/model"
	"marketplace_api/internal/repository"
)

// ==================== CategoryService ====================

type CategoryService struct {
	store *repository.Store
}

func NewCategoryService(store *repository.Store) *CategoryService {
	return &CategoryService{store: store}
}

func getCategory(ctx context.Context, repo repository.CategoryRepository, id int64) (*model.Category, error) {
	category, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (s *CategoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &model.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ParentID:    req.ParentID,
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.Categories.GetByName(ctx, category.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrCategoryNameTaken
		}
		if category.ParentID != nil {
			parent, err := tx.Categories.GetByID(ctx, *category.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return ErrParentNotFound
			}
		}
		return tx.Categories.Create(ctx, category)
	})
	if err != nil {
		return nil, translate(err, ErrCategoryNameTaken)
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := getCategory(ctx, s.store.Categories, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

func (s *CategoryService) List(ctx context.Context, q *dto.CategoryListQuery) (*dto.Page[dto.CategoryResponse], error) {
	categories, total, err := s.store.Categories.List(ctx, q.RootOnly, repository.Pagination{Skip: q.Skip, Limit: q.Limit})
	if err != nil {
		return nil, translate(err, nil)
	}
	page := dto.NewPage(ToCategoryResponses(categories), total, q.Skip, q.Limit)
	return &page, nil
}

// Update applies the present fields. parent_id 0 detaches the category;
// a parent that is the category itself or one of its descendants is rejected.
func (s *CategoryService) Update(ctx context.Context, id int64, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	var category *model.Category
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		category, err = getCategory(ctx, tx.Categories, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name != category.Name {
				existing, err := tx.Categories.GetByName(ctx, name)
				if err != nil {
					return err
				}
				if existing != nil {
					return ErrCategoryNameTaken
				}
				category.Name = name
			}
		}
		if req.Description != nil {
			category.Description = req.Description
		}
		if req.ParentID != nil {
			if *req.ParentID == 0 {
				category.ParentID = nil
			} else {
				if err := checkParent(ctx, tx.Categories, id, *req.ParentID); err != nil {
					return err
				}
				parentID := *req.ParentID
				category.ParentID = &parentID
			}
		}
		return tx.Categories.Update(ctx, category)
	})
	if err != nil {
		return nil, translate(err, ErrCategoryNameTaken)
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// checkParent walks up from parentID; reaching id means the move would close a cycle.
func checkParent(ctx context.Context, repo repository.CategoryRepository, id, parentID int64) error {
	seen := map[int64]bool{}
	current := &parentID
	for current != nil {
		if *current == id {
			return ErrCategoryCycle
		}
		if seen[*current] {
			return ErrCategoryCycle
		}
		seen[*current] = true

		c, err := repo.GetByID(ctx, *current)
		if err != nil {
			return err
		}
		if c == nil {
			if *current == parentID {
				return ErrParentNotFound
			}
			return nil
		}
		current = c.ParentID
	}
	return nil
}

// Delete detaches the children and drops product links before removing the category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := getCategory(ctx, tx.Categories, id); err != nil {
			return err
		}
		_, err := tx.Categories.Delete(ctx, id)
		return err
	})
	return translate(err, nil)
}

func (s *CategoryService) Products(ctx context.Context, id int64) ([]dto.ProductResponse, error) {
	if _, err := getCategory(ctx, s.store.Categories, id); err != nil {
		return nil, err
	}
	products, err := s.store.Products.ListByCategory(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return ToProductResponses(products), nil
}

func (s *CategoryService) Subcategories(ctx context.Context, id int64) ([]dto.CategoryResponse, error) {
	if _, err := getCategory(ctx, s.store.Categories, id); err != nil {
		return nil, err
	}
	children, err := s.store.Categories.Children(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return ToCategoryResponses(children), nil
}

func (s *CategoryService) Parent(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := getCategory(ctx, s.store.Categories, id)
	if err != nil {
		return nil, err
	}
	if category.ParentID == nil {
		return nil, ErrNoParent
	}
	parent, err := s.store.Categories.GetByID(ctx, *category.ParentID)
	if err != nil {
		return nil, translate(err, nil)
	}
	if parent == nil {
		return nil, ErrNoParent
	}
	resp := ToCategoryResponse(parent)
	return &resp, nil
}
