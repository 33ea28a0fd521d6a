package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/model"
	"marketplace_api/internal/repository"
)

// ==================== ProductService ====================

type ProductService struct {
	store *repository.Store
	log   *zap.Logger
}

func NewProductService(store *repository.Store, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{store: store, log: log}
}

func getProduct(ctx context.Context, repo repository.ProductRepository, id int64) (*model.Product, error) {
	product, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// resolveCategories returns the distinct ids, failing if any of them does not exist.
func resolveCategories(ctx context.Context, repo repository.CategoryRepository, ids []int64) ([]int64, error) {
	unique := dedupeIDs(ids)
	if len(unique) == 0 {
		return unique, nil
	}
	found, err := repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(found) != len(unique) {
		known := make(map[int64]bool, len(found))
		for _, c := range found {
			known[c.ID] = true
		}
		for _, id := range unique {
			if !known[id] {
				missing := *ErrCategoryNotFound
				missing.Message = "Category not found: " + formatID(id)
				return nil, &missing
			}
		}
	}
	return unique, nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ==================== Create / Update / Delete ====================

// CreateForSeller creates a product under sellerID and links its categories.
func (s *ProductService) CreateForSeller(ctx context.Context, sellerID int64, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	status := req.Status
	if status == "" {
		status = model.ProductStatusActive
	}
	product := &model.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Status:      status,
		SellerID:    sellerID,
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := getSeller(ctx, tx.Sellers, sellerID); err != nil {
			return err
		}
		categoryIDs, err := resolveCategories(ctx, tx.Categories, req.CategoryIDs)
		if err != nil {
			return err
		}
		existing, err := tx.Products.GetByNameAndSeller(ctx, product.Name, sellerID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrProductNameTaken
		}
		if err := tx.Products.Create(ctx, product); err != nil {
			return err
		}
		return tx.Products.ReplaceCategories(ctx, product.ID, categoryIDs)
	})
	if err != nil {
		return nil, translate(err, ErrProductNameTaken)
	}

	s.log.Info("product created", zap.Int64("product_id", product.ID), zap.Int64("seller_id", sellerID))
	return s.Get(ctx, product.ID)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := getProduct(ctx, s.store.Products, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Update applies the present fields. A present category_ids replaces the set.
func (s *ProductService) Update(ctx context.Context, id int64, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		product, err := getProduct(ctx, tx.Products, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name != product.Name {
				existing, err := tx.Products.GetByNameAndSeller(ctx, name, product.SellerID)
				if err != nil {
					return err
				}
				if existing != nil {
					return ErrProductNameTaken
				}
				product.Name = name
			}
		}
		if req.Description != nil {
			product.Description = req.Description
		}
		if req.Price != nil {
			product.Price = *req.Price
		}
		if req.Status != nil {
			product.Status = *req.Status
		}
		if err := tx.Products.Update(ctx, product); err != nil {
			return err
		}

		if req.CategoryIDs != nil {
			categoryIDs, err := resolveCategories(ctx, tx.Categories, req.CategoryIDs)
			if err != nil {
				return err
			}
			return tx.Products.ReplaceCategories(ctx, id, categoryIDs)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, ErrProductNameTaken)
	}
	return s.Get(ctx, id)
}

// Delete removes the product with its inventory, reviews and category links.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := getProduct(ctx, tx.Products, id); err != nil {
			return err
		}
		_, err := tx.Products.Delete(ctx, id)
		return err
	})
	if err != nil {
		return translate(err, nil)
	}
	s.log.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

// ==================== Queries ====================

func (s *ProductService) List(ctx context.Context, q *dto.ProductListQuery) (*dto.Page[dto.ProductResponse], error) {
	return s.page(ctx, repository.ProductFilter{
		SellerID:   q.SellerID,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		Pagination: repository.Pagination{Skip: q.Skip, Limit: q.Limit},
	})
}

func (s *ProductService) Search(ctx context.Context, q *dto.ProductSearchQuery) (*dto.Page[dto.ProductResponse], error) {
	return s.page(ctx, repository.ProductFilter{
		SellerID:    q.SellerID,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		Name:        strings.TrimSpace(q.Name),
		Status:      q.Status,
		IsExpensive: q.IsExpensive,
		CategoryIDs: dedupeIDs(q.CategoryIDs),
		Pagination:  repository.Pagination{Skip: q.Skip, Limit: q.Limit},
	})
}

func (s *ProductService) page(ctx context.Context, filter repository.ProductFilter) (*dto.Page[dto.ProductResponse], error) {
	products, total, err := s.store.Products.List(ctx, filter)
	if err != nil {
		return nil, translate(err, nil)
	}
	page := dto.NewPage(ToProductResponses(products), total, filter.Skip, filter.Limit)
	return &page, nil
}

// Expensive lists every product priced above model.ExpensiveThreshold.
func (s *ProductService) Expensive(ctx context.Context) ([]dto.ProductResponse, error) {
	expensive := true
	products, _, err := s.store.Products.List(ctx, repository.ProductFilter{IsExpensive: &expensive})
	if err != nil {
		return nil, translate(err, nil)
	}
	return ToProductResponses(products), nil
}

func (s *ProductService) Seller(ctx context.Context, id int64) (*dto.SellerResponse, error) {
	product, err := getProduct(ctx, s.store.Products, id)
	if err != nil {
		return nil, err
	}
	seller, err := s.store.Sellers.GetByID(ctx, product.SellerID)
	if err != nil {
		return nil, translate(err, nil)
	}
	if seller == nil {
		return nil, NotFound("NO_SELLER", "Product has no seller", "seller_id")
	}
	resp := ToSellerResponse(seller)
	return &resp, nil
}

func (s *ProductService) PriceStatus(ctx context.Context, id int64) (*dto.ProductPriceStatusResponse, error) {
	product, err := getProduct(ctx, s.store.Products, id)
	if err != nil {
		return nil, err
	}
	return &dto.ProductPriceStatusResponse{
		ProductID:   product.ID,
		Name:        product.Name,
		Price:       product.Price,
		IsExpensive: product.IsExpensive(),
	}, nil
}

// Detailed returns the product with seller, categories, inventory and reviews.
func (s *ProductService) Detailed(ctx context.Context, id int64) (*dto.ProductDetailResponse, error) {
	product, err := s.store.Products.GetDetailed(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := &dto.ProductDetailResponse{
		ProductResponse: ToProductResponse(product),
		Inventory:       ToInventoryResponse(product.Inventory),
		Reviews:         ToReviewResponses(product.Reviews),
		ReviewCount:     int64(len(product.Reviews)),
	}
	if product.Seller != nil {
		seller := ToSellerResponse(product.Seller)
		resp.Seller = &seller
	}
	if len(product.Reviews) > 0 {
		sum := 0
		for _, r := range product.Reviews {
			sum += r.Rating
		}
		avg := round2(float64(sum) / float64(len(product.Reviews)))
		resp.AverageRating = &avg
	}
	return resp, nil
}

// Reviews returns the product's reviews with their average rating and count.
func (s *ProductService) Reviews(ctx context.Context, id int64) (*dto.ProductReviewsResponse, error) {
	if _, err := getProduct(ctx, s.store.Products, id); err != nil {
		return nil, err
	}
	reviews, err := s.store.Reviews.ListByProduct(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	summary, err := s.store.Reviews.Summary(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return &dto.ProductReviewsResponse{
		ProductID:     id,
		Reviews:       ToReviewResponses(reviews),
		AverageRating: roundedOrNil(summary.Average),
		ReviewCount:   summary.Count,
	}, nil
}

// ==================== Categories ====================

func (s *ProductService) Categories(ctx context.Context, id int64) ([]dto.CategoryResponse, error) {
	if _, err := getProduct(ctx, s.store.Products, id); err != nil {
		return nil, err
	}
	categories, err := s.store.Products.Categories(ctx, id)
	if err != nil {
		return nil, translate(err, nil)
	}
	return ToCategoryResponses(categories), nil
}

func (s *ProductService) AddCategory(ctx context.Context, productID, categoryID int64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireProductAndCategory(ctx, tx, productID, categoryID); err != nil {
			return err
		}
		linked, err := tx.Products.HasCategory(ctx, productID, categoryID)
		if err != nil {
			return err
		}
		if linked {
			return ErrCategoryAssigned
		}
		return tx.Products.AddCategory(ctx, productID, categoryID)
	})
	return translate(err, ErrCategoryAssigned)
}

func (s *ProductService) RemoveCategory(ctx context.Context, productID, categoryID int64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireProductAndCategory(ctx, tx, productID, categoryID); err != nil {
			return err
		}
		removed, err := tx.Products.RemoveCategory(ctx, productID, categoryID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return ErrCategoryNotAssigned
		}
		return nil
	})
	return translate(err, nil)
}

func requireProductAndCategory(ctx context.Context, tx *repository.Store, productID, categoryID int64) error {
	if _, err := getProduct(ctx, tx.Products, productID); err != nil {
		return err
	}
	_, err := getCategory(ctx, tx.Categories, categoryID)
	return err
}

// ==================== Inventory ====================

// CreateInventory creates the product's single inventory row.
func (s *ProductService) CreateInventory(ctx context.Context, productID int64, req *dto.CreateInventoryRequest) (*dto.InventoryResponse, error) {
	inventory := &model.Inventory{ProductID: productID, ReorderLevel: model.DefaultReorderLevel}
	if req.Quantity != nil {
		inventory.Quantity = *req.Quantity
	}
	if req.ReorderLevel != nil {
		inventory.ReorderLevel = *req.ReorderLevel
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := getProduct(ctx, tx.Products, productID); err != nil {
			return err
		}
		existing, err := tx.Inventory.GetByProductID(ctx, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrInventoryExists
		}
		return tx.Inventory.Create(ctx, inventory)
	})
	if err != nil {
		return nil, translate(err, ErrInventoryExists)
	}
	return ToInventoryResponse(inventory), nil
}

func (s *ProductService) GetInventory(ctx context.Context, productID int64) (*dto.InventoryResponse, error) {
	inventory, err := s.store.Inventory.GetByProductID(ctx, productID)
	if err != nil {
		return nil, translate(err, nil)
	}
	if inventory == nil {
		return nil, ErrInventoryNotFound
	}
	return ToInventoryResponse(inventory), nil
}

// UpdateInventory changes only the supplied fields.
func (s *ProductService) UpdateInventory(ctx context.Context, productID int64, req *dto.UpdateInventoryRequest) (*dto.InventoryResponse, error) {
	var inventory *model.Inventory
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		inventory, err = tx.Inventory.GetByProductID(ctx, productID)
		if err != nil {
			return err
		}
		if inventory == nil {
			return ErrInventoryNotFound
		}
		if req.Quantity != nil {
			inventory.Quantity = *req.Quantity
		}
		if req.ReorderLevel != nil {
			inventory.ReorderLevel = *req.ReorderLevel
		}
		return tx.Inventory.Update(ctx, inventory)
	})
	if err != nil {
		return nil, translate(err, nil)
	}
	return ToInventoryResponse(inventory), nil
}
